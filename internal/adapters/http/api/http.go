// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/mergington/internal/adapters/repository"
	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ActivityDependencies
	HealthLogDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	activitiesHandler *ActivitiesHandler
	healthLogHandler  *HealthLogHandler
	statsHandler      *StatsHandler
	probeHandler      *ProbeHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		activitiesHandler: NewActivitiesHandler(deps),
		healthLogHandler:  NewHealthLogHandler(deps),
		statsHandler:      NewStatsHandler(statsProvider),
		probeHandler:      NewProbeHandler(),
	}
}

// Register attaches all HTTP routes to mux. A request for a known path
// with the wrong method gets 405 from the mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /activities", MetricsMiddleware(s.activitiesHandler.HandleList, "activities"))
	mux.HandleFunc("POST /activities/{activityName}/signup", MetricsMiddleware(s.activitiesHandler.HandleSignup, "signup"))

	mux.HandleFunc("GET /health", MetricsMiddleware(s.healthLogHandler.HandleList, "health"))
	mux.HandleFunc("POST /health", MetricsMiddleware(s.healthLogHandler.HandleAdd, "health"))
	mux.HandleFunc("GET /health/stats", MetricsMiddleware(s.healthLogHandler.HandleStats, "health_stats"))

	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /healthz", s.probeHandler.HandleLiveness)
	mux.HandleFunc("GET /metrics", s.probeHandler.HandleMetrics)
}

type messageResponse struct {
	Message string `json:"message"`
}

type addRecordResponse struct {
	Message string             `json:"message"`
	Record  model.HealthRecord `json:"record"`
}

type errorResponse struct {
	Code   string       `json:"code"`
	Detail string       `json:"detail"`
	Errors []FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent.
		requestLogger(r.Context()).Debug(r.Context(), "failed to write response",
			logger.String("requestId", RequestID(r.Context())),
			logger.String("path", r.URL.Path),
			logger.Int("status", status),
			logger.Error(err),
		)
	}
}

// writeError maps err to a status code and writes the error envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeJSON(w, r, errorStatus(err), errorBody(err))
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, repository.ErrActivityNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrActivityFull):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) errorResponse {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return errorResponse{Code: "validation_error", Detail: verr.Error(), Errors: verr.Fields}
	case errors.Is(err, repository.ErrActivityNotFound):
		return errorResponse{Code: "not_found", Detail: "Activity not found"}
	case errors.Is(err, repository.ErrActivityFull):
		return errorResponse{Code: "activity_full", Detail: "Activity is full"}
	case errors.Is(err, ErrBadRequest):
		return errorResponse{Code: "bad_request", Detail: http.StatusText(http.StatusBadRequest)}
	default:
		return errorResponse{Code: "internal_error", Detail: http.StatusText(http.StatusInternalServerError)}
	}
}
