package auth

import (
	"context"
)

// UserInfo identifies the authenticated caller.
type UserInfo struct {
	UserID string `json:"user_id"`
}

// Authorizer resolves a bearer token to the user behind it.
type Authorizer interface {
	// Authorize validates the token and returns the caller's identity,
	// or an error when the token is unknown or malformed.
	Authorize(ctx context.Context, token string) (*UserInfo, error)
}
