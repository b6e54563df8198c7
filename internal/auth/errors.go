package auth

import "errors"

var (
	// ErrMissingToken is returned when the Authorization header is absent.
	ErrMissingToken = errors.New("missing Authorization header")

	// ErrInvalidToken is returned when the presented token is unknown.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMalformedHeader is returned when the Authorization header is not
	// in "Bearer <token>" form.
	ErrMalformedHeader = errors.New("invalid Authorization header format, expected 'Bearer <token>'")
)
