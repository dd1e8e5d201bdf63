package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue keys are compared by type AND value. With a plain string
// key, any package that knows the string could read or shadow the value. A
// package-private type means only this package can produce the key, so only
// this package controls the userID slot in the context.
type contextKey string

const userIDKey contextKey = "userID"

// SessionCookie is the name of the HttpOnly cookie carrying the session token.
const SessionCookie = "token"

// RequireAuth is the authentication gate in front of every protected route.
//
// It reads the session token from the HttpOnly cookie, validates it, and
// stores the user id in the request context. If the token is missing or
// invalid it writes 401 and stops the chain — the wrapped handler never runs,
// so no data is read or written for unauthenticated requests.
//
// MIDDLEWARE PATTERN:
// A middleware takes an http.Handler and returns a new one that wraps it.
// Chi applies them in a chain: req → M1 → M2 → Handler → M2 → M1 → resp.
// Mounting this once on the /api route group replaces a per-handler
// "is this request authenticated" check in every operation.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthenticated","message":"valid session required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's id from the request
// context. Returns (0, false) if the request carries no authenticated
// identity — which on routes behind RequireAuth should never happen.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id != 0
}

// extractUserID reads the session cookie and validates the token in it.
//
// COOKIE FLOW:
// 1. Set-Cookie: token=<jwt>; HttpOnly; SameSite=Lax (set on login/register)
// 2. The browser sends Cookie: token=<jwt> on subsequent requests
// 3. We read r.Cookie and validate
func extractUserID(r *http.Request, tokens *TokenService) (int64, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie — no session at all
		return 0, err
	}

	return tokens.Validate(cookie.Value)
}
