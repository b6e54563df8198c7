package api

import (
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/campusbeat/campusbeat/internal/api/respond"
	"github.com/campusbeat/campusbeat/internal/services"
)

// UpdatesHandler is a thin HTTP transport over UpdatesService.
type UpdatesHandler struct {
	svc *services.UpdatesService
}

func NewUpdatesHandler(svc *services.UpdatesService) *UpdatesHandler {
	return &UpdatesHandler{svc: svc}
}

// List GET /api/me/updates
func (h *UpdatesHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	items, err := h.svc.List(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"updates": items, "count": len(items)})
}

// Count GET /api/me/updates/count
func (h *UpdatesHandler) Count(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	n, err := h.svc.Count(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]int{"count": n})
}

// MarkSeen POST /api/me/updates/seen
func (h *UpdatesHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.MarkSeen(r.Context(), user.UserID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dismiss POST /api/me/updates/{eventId}/dismiss
func (h *UpdatesHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.Dismiss(r.Context(), user.UserID, mux.Vars(r)["eventId"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
