package api

import (
	"context"
	"net/http"

	"github.com/okian/mergington/internal/domain/model"
)

// HealthLogDependencies defines the health log operations the handlers need.
type HealthLogDependencies interface {
	ListHealthRecords(ctx context.Context) []model.HealthRecord
	AddHealthRecord(ctx context.Context, in model.HealthRecordInput) model.HealthRecord
	HealthStats(ctx context.Context) model.HealthStats
}

// HealthLogHandler handles /health requests.
type HealthLogHandler struct {
	deps HealthLogDependencies
}

// NewHealthLogHandler creates a new health log handler.
func NewHealthLogHandler(deps HealthLogDependencies) *HealthLogHandler {
	return &HealthLogHandler{deps: deps}
}

// HandleList handles GET /health.
func (h *HealthLogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.deps.ListHealthRecords(r.Context()))
}

// HandleAdd handles POST /health.
func (h *HealthLogHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_health_record"
	in, err := decodeHealthRecord(w, r)
	if err != nil {
		writeError(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	rec := h.deps.AddHealthRecord(r.Context(), in)
	writeJSON(w, r, http.StatusOK, addRecordResponse{
		Message: "Health record added successfully",
		Record:  rec,
	})
}

// HandleStats handles GET /health/stats.
func (h *HealthLogHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.deps.HealthStats(r.Context()))
}
