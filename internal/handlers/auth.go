package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/cinescope/cinescope/internal/database"
	"github.com/cinescope/cinescope/internal/middleware"
	"github.com/cinescope/cinescope/internal/models"
	"github.com/cinescope/cinescope/internal/services"
)

// AuthHandler handles account requests. Credentials are exchanged with the
// catalog API; the resulting bearer token lives in a server-side session
// behind an HttpOnly cookie, never in the shell.
type AuthHandler struct {
	authService    *services.AuthService
	sessionStore   *database.SessionStore
	authMiddleware *middleware.AuthMiddleware
	validate       *validator.Validate
	logger         *log.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService *services.AuthService,
	sessionStore *database.SessionStore,
	authMiddleware *middleware.AuthMiddleware,
	validate *validator.Validate,
	logger *log.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		sessionStore:   sessionStore,
		authMiddleware: authMiddleware,
		validate:       validate,
		logger:         logger,
	}
}

// Signup handles POST /api/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input models.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		h.logger.Printf("Signup validation failed: %v", err)
		http.Error(w, `{"error":"Invalid signup details"}`, http.StatusUnprocessableEntity)
		return
	}

	auth, err := h.authService.Signup(r.Context(), input)
	if err != nil {
		h.logger.Printf("Signup failed: %v", err)
		http.Error(w, `{"error":"Signup failed"}`, http.StatusBadGateway)
		return
	}

	h.createSession(w, r, auth)
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		http.Error(w, `{"error":"Email and password are required"}`, http.StatusUnprocessableEntity)
		return
	}

	auth, err := h.authService.Login(r.Context(), input)
	if err != nil {
		h.logger.Printf("Login failed for %s: %v", input.Email, err)
		http.Error(w, `{"error":"Invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	h.createSession(w, r, auth)
}

// createSession stores the bearer token and user behind a new session
// cookie and returns the user
func (h *AuthHandler) createSession(w http.ResponseWriter, r *http.Request, auth *models.AuthResponse) {
	sessionID, err := h.sessionStore.GenerateSessionID()
	if err != nil {
		h.logger.Printf("Failed to generate session ID: %v", err)
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	session := database.Session{Token: auth.Token, User: auth.User}
	if err := h.sessionStore.Set(r.Context(), sessionID, session); err != nil {
		h.logger.Printf("Failed to store session: %v", err)
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	h.authMiddleware.SetSessionCookie(w, sessionID, 7*24*60*60)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(auth.User)
}

// Logout handles POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if ok {
		// Best effort: revoke the token remotely, drop the session locally
		// either way.
		if err := h.authService.Logout(r.Context(), session.Token); err != nil {
			h.logger.Printf("Remote logout failed: %v", err)
		}
	}

	if sessionID, ok := middleware.GetSessionIDFromContext(r.Context()); ok {
		if err := h.sessionStore.Delete(r.Context(), sessionID); err != nil {
			h.logger.Printf("Failed to delete session: %v", err)
		}
	}

	h.authMiddleware.ClearSessionCookie(w)

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"Logged out"}`))
}

// Profile handles GET /api/profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// UpdatePreferences handles PUT /api/preferences
func (h *AuthHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var input models.UpdatePreferencesInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	user, err := h.authService.UpdatePreferences(r.Context(), session.Token, input)
	if err != nil {
		h.logger.Printf("Failed to update preferences: %v", err)
		http.Error(w, `{"error":"Failed to update preferences"}`, http.StatusBadGateway)
		return
	}

	// Keep the session's copy of the user current
	if sessionID, ok := middleware.GetSessionIDFromContext(r.Context()); ok {
		session.User = *user
		if err := h.sessionStore.Set(r.Context(), sessionID, *session); err != nil {
			h.logger.Printf("Failed to refresh session user: %v", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
