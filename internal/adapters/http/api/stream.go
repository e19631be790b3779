// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	service "github.com/teamplan/alloc/internal/app"
)

// StreamHandler serves allocation runs as server-sent events.
type StreamHandler struct {
	alloc Allocator
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(alloc Allocator) *StreamHandler {
	return &StreamHandler{alloc: alloc}
}

// HandleStream handles POST /allocate/stream requests. Each pipeline event
// becomes one SSE message named after the event type; the stream ends after
// allocation_complete or allocation_error, or when the client disconnects.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	const op = "api.allocate_stream"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req service.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "no_stream", wrapKind(op, ErrStream, nil))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// r.Context() is cancelled when the client disconnects, which stops the
	// pipeline and closes the channel.
	for event := range h.alloc.Stream(r.Context(), req) {
		payload, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
		flusher.Flush()
	}
}
