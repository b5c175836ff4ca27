package api

import (
	"context"
	"net/http"

	"github.com/okian/mergington/internal/domain/model"
)

// ActivityDependencies defines the roster operations the handlers need.
type ActivityDependencies interface {
	ListActivities(ctx context.Context) map[string]model.Activity
	Signup(ctx context.Context, activity, email string) error
}

// ActivitiesHandler handles activity requests.
type ActivitiesHandler struct {
	deps ActivityDependencies
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps ActivityDependencies) *ActivitiesHandler {
	return &ActivitiesHandler{deps: deps}
}

// HandleList handles GET /activities.
func (h *ActivitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.deps.ListActivities(r.Context()))
}

// HandleSignup handles POST /activities/{activityName}/signup?email=...
func (h *ActivitiesHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	const op = "api.signup"
	activity, email, err := parseSignup(r)
	if err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.Signup(r.Context(), activity, email); err != nil {
		writeError(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Signed up " + email + " for " + activity})
}
