package api

import (
	"encoding/json"
	"errors"
	"net/http"

	respond "github.com/campusbeat/campusbeat/internal/api/respond"
	"github.com/campusbeat/campusbeat/internal/model"
	"github.com/campusbeat/campusbeat/internal/services"
)

// ProfileHandler is a thin HTTP transport over ProfileService.
type ProfileHandler struct {
	svc *services.ProfileService
}

func NewProfileHandler(svc *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Get GET /api/me/profile
// First-time callers without a stored profile get a bare record back.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	prof, err := h.svc.Get(r.Context(), user.UserID)
	if errors.Is(err, model.ErrNotFound) {
		respond.WriteJSON(w, http.StatusOK, &model.Profile{UserID: user.UserID})
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, prof)
}

// Update PATCH /api/me/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		DisplayName *string `json:"displayName"`
		Handle      *string `json:"handle"`
		AvatarURL   *string `json:"avatarUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	prof, err := h.svc.Update(r.Context(), user.UserID, req.DisplayName, req.Handle, req.AvatarURL)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, prof)
}
