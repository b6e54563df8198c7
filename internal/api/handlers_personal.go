package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/campusbeat/campusbeat/internal/api/respond"
	"github.com/campusbeat/campusbeat/internal/model"
	"github.com/campusbeat/campusbeat/internal/services"
)

// PersonalEventHandler is a thin HTTP transport over PersonalEventService.
type PersonalEventHandler struct {
	svc *services.PersonalEventService
}

func NewPersonalEventHandler(svc *services.PersonalEventService) *PersonalEventHandler {
	return &PersonalEventHandler{svc: svc}
}

// Create POST /api/me/personal-events
func (h *PersonalEventHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req model.CreatePersonalEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	pe, err := h.svc.Create(r.Context(), user.UserID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, pe)
}

// Get GET /api/me/personal-events/{personalEventId}
func (h *PersonalEventHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	pe, err := h.svc.Get(r.Context(), user.UserID, mux.Vars(r)["personalEventId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, pe)
}

// Update PATCH /api/me/personal-events/{personalEventId}
func (h *PersonalEventHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req model.UpdatePersonalEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	pe, err := h.svc.Update(r.Context(), user.UserID, mux.Vars(r)["personalEventId"], req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, pe)
}

// Delete DELETE /api/me/personal-events/{personalEventId}
func (h *PersonalEventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), user.UserID, mux.Vars(r)["personalEventId"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
