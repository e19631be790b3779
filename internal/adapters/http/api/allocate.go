// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/teamplan/alloc/internal/app"
)

// AllocateHandler handles synchronous allocation requests.
type AllocateHandler struct {
	alloc Allocator
}

// NewAllocateHandler creates a new allocate handler.
func NewAllocateHandler(alloc Allocator) *AllocateHandler {
	return &AllocateHandler{alloc: alloc}
}

// HandleAllocate handles POST /allocate requests.
func (h *AllocateHandler) HandleAllocate(w http.ResponseWriter, r *http.Request) {
	const op = "api.allocate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req service.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.alloc.Allocate(r.Context(), req)
	switch {
	case errors.Is(err, service.ErrEmptyTask):
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "allocation_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
