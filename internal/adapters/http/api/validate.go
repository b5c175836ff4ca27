package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/okian/mergington/internal/domain/model"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "path"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// FieldError describes one field that failed validation.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports a malformed request. It matches ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return strings.Join(parts, "; ")
}

// Unwrap lets errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// healthRecordRequest mirrors the POST /health body. Pointers distinguish
// a missing field from a zero value.
type healthRecordRequest struct {
	Date        *string   `json:"date" validate:"required"`
	Steps       *laxInt   `json:"steps" validate:"required"`
	WaterIntake *laxFloat `json:"water_intake" validate:"required"`
	SleepHours  *laxFloat `json:"sleep_hours" validate:"required"`
	Calories    *laxInt   `json:"calories" validate:"required"`
}

func (req healthRecordRequest) input() model.HealthRecordInput {
	return model.HealthRecordInput{
		Date:        *req.Date,
		Steps:       int(*req.Steps),
		WaterIntake: float64(*req.WaterIntake),
		SleepHours:  float64(*req.SleepHours),
		Calories:    int(*req.Calories),
	}
}

// laxInt accepts JSON integers, integral numbers such as 1000.0 and
// strings holding either.
type laxInt int

func (n *laxInt) UnmarshalJSON(b []byte) error {
	text, kind, ok := numberText(b)
	if ok {
		if i, err := strconv.ParseInt(text, 10, 0); err == nil {
			*n = laxInt(i)
			return nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err == nil && f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			*n = laxInt(f)
			return nil
		}
	}
	return &json.UnmarshalTypeError{Value: kind, Type: reflect.TypeFor[int]()}
}

// laxFloat accepts JSON numbers and numeric strings. NaN and infinities
// are rejected since they cannot be encoded back to JSON.
type laxFloat float64

func (n *laxFloat) UnmarshalJSON(b []byte) error {
	text, kind, ok := numberText(b)
	if ok {
		f, err := strconv.ParseFloat(text, 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			*n = laxFloat(f)
			return nil
		}
	}
	return &json.UnmarshalTypeError{Value: kind, Type: reflect.TypeFor[float64]()}
}

// numberText returns the numeric text of a JSON number or string literal
// along with a description of the literal for error messages.
func numberText(b []byte) (text, kind string, ok bool) {
	if len(b) == 0 {
		return "", "empty value", false
	}
	switch c := b[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", "string", false
		}
		s = strings.TrimSpace(s)
		return s, strconv.Quote(s), s != "" && !strings.ContainsAny(s, "xX_")
	case c == '-' || (c >= '0' && c <= '9'):
		return string(b), "number " + string(b), true
	case c == 't' || c == 'f':
		return "", "bool", false
	case c == '{':
		return "", "object", false
	case c == '[':
		return "", "array", false
	default:
		return "", string(b), false
	}
}

// signupRequest collects the path and query parameters of a signup.
type signupRequest struct {
	Activity string  `path:"activityName" validate:"required"`
	Email    *string `query:"email" validate:"required"`
}

// decodeHealthRecord reads and validates a health record body.
func decodeHealthRecord(w http.ResponseWriter, r *http.Request) (model.HealthRecordInput, error) {
	var req healthRecordRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return model.HealthRecordInput{}, decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return model.HealthRecordInput{}, &ValidationError{Fields: []FieldError{{
			Field:  "body",
			Reason: fmt.Sprintf("unexpected data after JSON value at offset %d", dec.InputOffset()),
		}}}
	}
	if err := validateStruct(req); err != nil {
		return model.HealthRecordInput{}, err
	}
	return req.input(), nil
}

// parseSignup extracts and validates the signup parameters.
func parseSignup(r *http.Request) (activity, email string, err error) {
	req := signupRequest{Activity: r.PathValue("activityName")}
	if q := r.URL.Query(); q.Has("email") {
		e := q.Get("email")
		req.Email = &e
	}
	if err := validateStruct(req); err != nil {
		return "", "", err
	}
	return req.Activity, *req.Email, nil
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Reason: reasonFor(fe)})
	}
	return out
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// decodeError turns a JSON decoding failure into a ValidationError.
func decodeError(err error) error {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return &ValidationError{Fields: []FieldError{{
			Field:  field,
			Reason: "expected " + wireType(typeErr.Type) + ", got " + typeErr.Value,
		}}}
	case errors.As(err, &syntaxErr):
		return &ValidationError{Fields: []FieldError{{
			Field:  "body",
			Reason: fmt.Sprintf("invalid JSON at offset %d", syntaxErr.Offset),
		}}}
	case errors.As(err, &maxErr):
		return &ValidationError{Fields: []FieldError{{
			Field:  "body",
			Reason: fmt.Sprintf("exceeds %d bytes", maxErr.Limit),
		}}}
	case errors.Is(err, io.EOF):
		return &ValidationError{Fields: []FieldError{{Field: "body", Reason: "field required"}}}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return &ValidationError{Fields: []FieldError{{Field: "body", Reason: "truncated JSON"}}}
	default:
		return &ValidationError{Fields: []FieldError{{Field: "body", Reason: err.Error()}}}
	}
}

func wireType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Struct:
		return "object"
	default:
		return t.Kind().String()
	}
}
