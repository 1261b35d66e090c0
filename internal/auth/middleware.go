package auth

import (
	"context"
	"net/http"

	"github.com/ykazlou/afisha/internal/model"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the identity value.
type contextKey string

const identityKey contextKey = "identity"

// SessionCookie is the name of the HttpOnly cookie carrying the session
// token. Handlers that log users in or out set and clear it.
const SessionCookie = "session"

// RequireUser enforces a valid session on protected routes. The identity
// is stored in the request context; missing or invalid sessions get 401
// and the chain stops.
func RequireUser(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := extractIdentity(r, sessions)
			if err != nil {
				http.Error(w, `{"error":"unauthorized","message":"valid session required"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
		})
	}
}

// RequireOrganizer enforces a valid session AND the organizer role.
// Participants hitting organizer-only mutation routes get 403.
func RequireOrganizer(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := extractIdentity(r, sessions)
			if err != nil {
				http.Error(w, `{"error":"unauthorized","message":"valid session required"}`, http.StatusUnauthorized)
				return
			}
			if id.Role != model.RoleOrganizer {
				http.Error(w, `{"error":"forbidden","message":"organizer role required"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
		})
	}
}

// OptionalUser extracts the identity if a valid session is present but
// never blocks the request. Public routes use this so anonymous browsing
// works while logged-in users get personalized data (recommendations,
// "is_current_user" flags).
func OptionalUser(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, err := extractIdentity(r, sessions); err == nil {
				r = r.WithContext(withIdentity(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext retrieves the authenticated identity from the
// request context. ok is false for anonymous requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

func withIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func extractIdentity(r *http.Request, sessions *SessionService) (Identity, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie — not an error, just anonymous
		return Identity{}, err
	}
	return sessions.Validate(cookie.Value)
}
