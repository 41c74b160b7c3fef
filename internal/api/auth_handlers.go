package api

import (
	"net/http"
	"time"

	"github.com/example/litebay/internal/api/middleware"
	"github.com/example/litebay/internal/auth"
	"github.com/example/litebay/internal/domain/user"
	"github.com/example/litebay/internal/logger"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	sessions   *user.SessionStore
	jwtService *auth.JWTService
}

// NewAuthHandlers creates a new AuthHandlers instance
func NewAuthHandlers(sessions *user.SessionStore, jwtService *auth.JWTService) *AuthHandlers {
	return &AuthHandlers{
		sessions:   sessions,
		jwtService: jwtService,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User        user.User  `json:"user"`
	AccessToken string     `json:"accessToken,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	Message     string     `json:"message,omitempty"`
}

// Register handles user registration
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req user.RegisterInput
	if err := decodeJSON(r, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	newUser, err := h.sessions.Register(r.Context(), req)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, newUser, "Registration successful")
}

// Login handles user login
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	u, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusOK, u, "Login successful")
}

// Logout ends the current session. It succeeds without a session too.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		respondErr(w, r, err)
		return
	}

	middleware.ClearTokenCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Logout successful",
	})
}

// Me returns the current authenticated user's information
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.ClaimsFromContext(r.Context()); !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	current, ok := h.sessions.Current()
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, AuthResponse{User: current})
}

func (h *AuthHandlers) respondWithToken(w http.ResponseWriter, r *http.Request, status int, u user.User, message string) {
	token, err := h.jwtService.Issue(u.ID, u.Email)
	if err != nil {
		log := logger.Component("auth")
		log.Error().Err(err).Int64("user_id", u.ID).Msg("failed to issue access token")
		respondJSON(w, status, AuthResponse{User: u, Message: message})
		return
	}

	middleware.SetTokenCookie(w, r, token)
	respondJSON(w, status, AuthResponse{
		User:        u,
		AccessToken: token.Value,
		ExpiresAt:   &token.ExpiresAt,
		Message:     message,
	})
}
