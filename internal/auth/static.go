package auth

import (
	"context"
	"fmt"
	"strings"
)

// StaticAuthorizer resolves tokens from a fixed token-to-user table. It backs
// local development and tests; production deployments plug in a real
// identity provider behind the same interface.
type StaticAuthorizer struct {
	users map[string]string
}

// NewStaticAuthorizer builds an authorizer from "token=userID" pairs, the
// format of the CAMPUSBEAT_DEV_TOKENS setting.
func NewStaticAuthorizer(pairs []string) (*StaticAuthorizer, error) {
	users := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		token, userID, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || token == "" || userID == "" {
			return nil, fmt.Errorf("malformed dev token entry %q, expected token=userId", pair)
		}
		users[token] = userID
	}
	return &StaticAuthorizer{users: users}, nil
}

func (a *StaticAuthorizer) Authorize(_ context.Context, token string) (*UserInfo, error) {
	userID, ok := a.users[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	return &UserInfo{UserID: userID}, nil
}
