// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// TeamsHandler serves the read-only org view.
type TeamsHandler struct {
	roster Roster
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(roster Roster) *TeamsHandler {
	return &TeamsHandler{roster: roster}
}

// HandleTeams handles GET /teams requests.
func (h *TeamsHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	org, err := h.roster.Org(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "roster_unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// HandleRefresh handles POST /teams/refresh requests, forcing a roster
// reload ahead of the cache TTL.
func (h *TeamsHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.roster.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "refresh_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}
