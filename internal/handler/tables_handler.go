package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"yatube/internal/logger"
)

// HealthHandler answers 200 with the report when the database is ready and
// 503 with the same report otherwise.
func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	report, err := h.TablesService.Health(r.Context())
	if err != nil {
		logger.L.Warn("health check failed", zap.Error(err))
		if report == nil {
			writeJSON(w, ErrorResponse{Error: err.Error()}, http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, report, http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, report, http.StatusOK)
}
