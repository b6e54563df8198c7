package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
)

type contextKey struct{}

// UserFrom returns the authenticated user stored by Middleware. The second
// return is false on requests that never passed through it.
func UserFrom(ctx context.Context) (*UserInfo, bool) {
	u, ok := ctx.Value(contextKey{}).(*UserInfo)
	return u, ok
}

// Middleware authenticates every request with the given authorizer and
// stores the resolved user on the request context. Requests without a valid
// bearer token are rejected with 401 before reaching a handler.
func Middleware(authorizer Authorizer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ExtractBearerToken(r)
			if err != nil {
				unauthorized(w, err)
				return
			}
			user, err := authorizer.Authorize(r.Context(), token)
			if err != nil {
				unauthorized(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), contextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + err.Error() + `"}`))
}
