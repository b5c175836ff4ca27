package api

import (
	"net/http"

	"github.com/okian/mergington/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ProbeHandler serves liveness and Prometheus metrics.
type ProbeHandler struct {
	metrics http.Handler
}

// NewProbeHandler creates a new probe handler backed by the service registry.
func NewProbeHandler() *ProbeHandler {
	return &ProbeHandler{
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleLiveness handles GET /healthz.
func (h *ProbeHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleMetrics handles GET /metrics.
func (h *ProbeHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
