// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/teamplan/alloc/internal/app"
	"github.com/teamplan/alloc/internal/domain/model"
)

// Allocator bundles the service operations the handlers depend on.
type Allocator interface {
	// Allocate runs one synchronous allocation.
	Allocate(ctx context.Context, req service.Request) (*model.AllocationResult, error)

	// Stream runs one allocation emitting ordered events.
	Stream(ctx context.Context, req service.Request) <-chan service.Event

	// Stats snapshots run counters.
	Stats(ctx context.Context) (service.Stats, error)
}

// Roster exposes the org view and its refresh hook.
type Roster interface {
	Org(ctx context.Context) (model.Org, error)
	Refresh(ctx context.Context) error
}

// Server wires HTTP routes for the allocation API.
type Server struct {
	allocateHandler *AllocateHandler
	streamHandler   *StreamHandler
	teamsHandler    *TeamsHandler
	statsHandler    *StatsHandler
	healthHandler   *HealthHandler
}

// NewServer creates an API server with all handlers.
func NewServer(alloc Allocator, roster Roster) *Server {
	return &Server{
		allocateHandler: NewAllocateHandler(alloc),
		streamHandler:   NewStreamHandler(alloc),
		teamsHandler:    NewTeamsHandler(roster),
		statsHandler:    NewStatsHandler(alloc),
		healthHandler:   NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/allocate", MetricsMiddleware(s.allocateHandler.HandleAllocate, "allocate"))
	mux.HandleFunc("/allocate/stream", MetricsMiddleware(s.streamHandler.HandleStream, "allocate_stream"))
	mux.HandleFunc("/teams", MetricsMiddleware(s.teamsHandler.HandleTeams, "teams"))
	mux.HandleFunc("/teams/refresh", MetricsMiddleware(s.teamsHandler.HandleRefresh, "teams_refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
