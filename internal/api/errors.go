package api

import (
	"errors"
	"net/http"

	respond "github.com/campusbeat/campusbeat/internal/api/respond"
	"github.com/campusbeat/campusbeat/internal/auth"
	"github.com/campusbeat/campusbeat/internal/model"
)

// requireUser returns the authenticated caller or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (*auth.UserInfo, bool) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	return user, true
}

// writeDomainError maps service errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrForbidden):
		respond.WriteForbidden(w, err.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
