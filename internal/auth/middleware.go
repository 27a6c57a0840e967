package auth

import (
	"context"
	"net/http"
)

// contextKey is unexported so only this package can read or write identity
// values in a request context — a plain string key could be shadowed by any
// package that guesses it.
type contextKey string

const githubIDKey contextKey = "githubID"

// CookieName is the session cookie the JWT lives in. HttpOnly, so scripts
// can't read it.
const CookieName = "token"

// RequireAuth enforces authentication on the API routes.
//
// It reads the JWT from the session cookie, validates it, and stores the
// verified external identity in the request context. Missing or invalid
// tokens end the chain with a 401 and the API's standard error body.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			githubID, err := extractIdentity(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), githubIDKey, githubID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the verified external identity set by
// RequireAuth. Returns (0, false) when the request carried no valid session.
func IdentityFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(githubIDKey).(int64)
	return id, ok && id != 0
}

func extractIdentity(r *http.Request, tokens *TokenService) (int64, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return 0, err
	}
	return tokens.Validate(cookie.Value)
}
