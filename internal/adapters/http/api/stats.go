// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// StatsHandler handles stats requests.
type StatsHandler struct {
	alloc Allocator
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(alloc Allocator) *StatsHandler {
	return &StatsHandler{alloc: alloc}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats, err := h.alloc.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stats_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
