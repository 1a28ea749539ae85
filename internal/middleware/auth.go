package middleware

import (
	"context"
	"net/http"

	"github.com/cinescope/cinescope/internal/database"
	"github.com/cinescope/cinescope/internal/models"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// SessionContextKey is the key for storing the session in context
	SessionContextKey ContextKey = "session"
	// SessionIDContextKey is the key for storing the session ID in context
	SessionIDContextKey ContextKey = "sessionID"
)

// AuthMiddleware resolves session cookies for protected routes
type AuthMiddleware struct {
	sessionStore *database.SessionStore
	cookieName   string
	isProduction bool
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(sessionStore *database.SessionStore, cookieName string, isProduction bool) *AuthMiddleware {
	if cookieName == "" {
		cookieName = "session"
	}
	return &AuthMiddleware{
		sessionStore: sessionStore,
		cookieName:   cookieName,
		isProduction: isProduction,
	}
}

// RequireAuth ensures the request carries a valid session
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Get session cookie
		cookie, err := r.Cookie(m.cookieName)
		if err != nil {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}

		// Resolve the session
		session, err := m.sessionStore.Get(r.Context(), cookie.Value)
		if err != nil {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}

		// Add session to context
		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		ctx = context.WithValue(ctx, SessionIDContextKey, cookie.Value)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSupervisor ensures the session belongs to a supervisor account.
// Must run inside RequireAuth.
func (m *AuthMiddleware) RequireSupervisor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}

		if !session.User.IsSupervisor() {
			http.Error(w, `{"error":"Supervisor role required"}`, http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// OptionalAuth resolves the session when present but lets the request
// through either way
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.sessionStore.Get(r.Context(), cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		ctx = context.WithValue(ctx, SessionIDContextKey, cookie.Value)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionFromContext retrieves the session from request context
func GetSessionFromContext(ctx context.Context) (*database.Session, bool) {
	session, ok := ctx.Value(SessionContextKey).(*database.Session)
	return session, ok
}

// GetSessionIDFromContext retrieves the session ID from request context
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDContextKey).(string)
	return sessionID, ok
}

// GetUserFromContext retrieves the user carried by the session
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	session, ok := GetSessionFromContext(ctx)
	if !ok {
		return nil, false
	}
	return &session.User, true
}

// SetSessionCookie sets a session cookie
func (m *AuthMiddleware) SetSessionCookie(w http.ResponseWriter, sessionID string, maxAge int) {
	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}

// ClearSessionCookie clears the session cookie
func (m *AuthMiddleware) ClearSessionCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}
