package api

import (
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/campusbeat/campusbeat/internal/api/respond"
	"github.com/campusbeat/campusbeat/internal/services"
)

// EntityHandler is a thin HTTP transport over EntityService.
type EntityHandler struct {
	svc    *services.EntityService
	events *services.EventService
}

func NewEntityHandler(svc *services.EntityService, events *services.EventService) *EntityHandler {
	return &EntityHandler{svc: svc, events: events}
}

// List GET /api/entities
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	entities, err := h.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"entities": entities, "count": len(entities)})
}

// Get GET /api/entities/{entityId}
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	entityID := mux.Vars(r)["entityId"]
	entity, err := h.svc.Get(r.Context(), entityID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	following, err := h.svc.IsFollowing(r.Context(), user.UserID, entityID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"entity": entity, "following": following})
}

// Events GET /api/entities/{entityId}/events
func (h *EntityHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListByEntity(r.Context(), mux.Vars(r)["entityId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": events, "count": len(events)})
}

// Follow POST /api/entities/{entityId}/follow
func (h *EntityHandler) Follow(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.Follow(r.Context(), user.UserID, mux.Vars(r)["entityId"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unfollow DELETE /api/entities/{entityId}/follow
func (h *EntityHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.Unfollow(r.Context(), user.UserID, mux.Vars(r)["entityId"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Following GET /api/me/following
func (h *EntityHandler) Following(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	entities, err := h.svc.Followed(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"entities": entities, "count": len(entities)})
}
