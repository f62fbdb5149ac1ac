package handlers

import (
	"net/http"

	"flexone-api/internal/contextutil"
	"flexone-api/internal/storage"
)

// StatsHandler reports aggregate usage accounting.
type StatsHandler struct {
	usage storage.UsageStore
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(usage storage.UsageStore) *StatsHandler {
	return &StatsHandler{usage: usage}
}

// StatsResponse represents the usage stats response.
type StatsResponse struct {
	Usage storage.UsageTotals `json:"usage"`
}

// ServeHTTP handles GET /stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totals, err := h.usage.Totals(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to query usage totals", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to query usage totals")
		return
	}

	writeJSON(w, http.StatusOK, StatsResponse{Usage: totals})
}
