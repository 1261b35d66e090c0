// Package handler contains the HTTP handlers. Handlers parse requests,
// call services, and write JSON responses — no business rules live here.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ykazlou/afisha/internal/auth"
	"github.com/ykazlou/afisha/internal/service"
)

// AuthHandler owns registration, login, logout, and the current-user
// endpoint. Sessions are signed tokens in an HttpOnly cookie; the handler
// sets and clears the cookie, the auth package does the signing.
type AuthHandler struct {
	accounts *service.AccountService
	sessions *auth.SessionService
	logger   *slog.Logger
}

func NewAuthHandler(accounts *service.AccountService, sessions *auth.SessionService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
		logger:   logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates an account and logs it in immediately.
//
// HTTP: POST /register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.setSessionCookie(w, user.ID, user.Role); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin verifies credentials and issues the session cookie.
//
// HTTP: POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	user, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.setSessionCookie(w, user.ID, user.Role); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleLogout clears the session cookie. There is no server-side state to
// destroy — the token simply stops being sent.
//
// HTTP: POST /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /me (behind RequireUser)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.accounts.Get(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, userID, role string) error {
	token, err := h.sessions.Issue(auth.Identity{UserID: userID, Role: role})
	if err != nil {
		h.logger.Error("failed to issue session token", slog.String("error", err.Error()))
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   24 * 60 * 60, // matches the token's own expiry
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
