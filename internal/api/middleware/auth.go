package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/litebay/internal/auth"
	"github.com/example/litebay/internal/domain/user"
	"github.com/example/litebay/internal/logger"
)

// AccessTokenCookie carries the access token for browser clients
const AccessTokenCookie = "access_token"

// TokenVerifier turns a raw access token into claims
type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// Session reports the user currently logged in to the storefront
type Session interface {
	Current() (user.User, bool)
}

type claimsKey struct{}

// ExtractToken reads the access token from the cookie, then from an
// Authorization Bearer header. The scheme is matched case-insensitively.
func ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireSession admits a request only when its token is valid and was issued
// to the user the session store currently holds. Logging out, or logging in as
// someone else, therefore invalidates every earlier token.
func RequireSession(tokens TokenVerifier, session Session) func(http.Handler) http.Handler {
	log := logger.Component("auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ExtractToken(r)
			if raw == "" {
				reject(w, "unauthorized")
				return
			}

			claims, err := tokens.Verify(raw)
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				reject(w, "token expired")
				return
			case err != nil:
				reject(w, "invalid token")
				return
			}

			current, ok := session.Current()
			if !ok || current.ID != claims.UserID {
				log.Debug().Int64("token_user", claims.UserID).Bool("session", ok).Msg("token does not match session")
				reject(w, "session expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

// ClaimsFromContext returns the claims RequireSession attached to the request
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}

// SetTokenCookie hands a freshly issued token to a browser client
func SetTokenCookie(w http.ResponseWriter, r *http.Request, token auth.Token) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token.Value,
		Path:     "/",
		Expires:  token.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

func ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func reject(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
