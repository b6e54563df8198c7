package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/campusbeat/campusbeat/internal/api/respond"
	"github.com/campusbeat/campusbeat/internal/auth"
	"github.com/campusbeat/campusbeat/internal/model"
	"github.com/campusbeat/campusbeat/internal/services"
)

// EventHandler is a thin HTTP transport over EventService and ConflictService.
type EventHandler struct {
	svc       *services.EventService
	conflicts *services.ConflictService
}

func NewEventHandler(svc *services.EventService, conflicts *services.ConflictService) *EventHandler {
	return &EventHandler{svc: svc, conflicts: conflicts}
}

// Feed GET /api/feed
func (h *EventHandler) Feed(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	events, err := h.svc.Feed(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": events, "count": len(events)})
}

// Get GET /api/events/{eventId}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	ev, err := h.svc.Get(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	attendees, err := h.svc.AttendeesCount(r.Context(), ev.EventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	onCalendar := false
	if user, ok := auth.UserFrom(r.Context()); ok {
		onCalendar, err = h.svc.IsOnCalendar(r.Context(), user.UserID, ev.EventID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"event":          ev,
		"attendeesCount": attendees,
		"onCalendar":     onCalendar,
	})
}

// Create POST /api/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req model.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	ev, err := h.svc.Create(r.Context(), user.UserID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, ev)
}

// Conflicts GET /api/events/{eventId}/conflicts
func (h *EventHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	report, err := h.conflicts.Check(r.Context(), user.UserID, mux.Vars(r)["eventId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, report)
}

// AddToCalendar POST /api/events/{eventId}/calendar
func (h *EventHandler) AddToCalendar(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.AddToCalendar(r.Context(), user.UserID, mux.Vars(r)["eventId"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFromCalendar DELETE /api/events/{eventId}/calendar
func (h *EventHandler) RemoveFromCalendar(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.RemoveFromCalendar(r.Context(), user.UserID, mux.Vars(r)["eventId"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
