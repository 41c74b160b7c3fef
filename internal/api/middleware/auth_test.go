package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/litebay/internal/auth"
	"github.com/example/litebay/internal/domain/user"
)

const testSecret = "test-secret-key-for-testing-purposes"

// fakeSession reports a fixed current user
type fakeSession struct {
	user *user.User
}

func (s fakeSession) Current() (user.User, bool) {
	if s.user == nil {
		return user.User{}, false
	}
	return *s.user, true
}

func loggedIn(id int64) fakeSession {
	return fakeSession{user: &user.User{ID: id, Email: "an@example.com", Name: "An"}}
}

func issue(t *testing.T, tokens *auth.JWTService, id int64) string {
	t.Helper()
	token, err := tokens.Issue(id, "an@example.com")
	require.NoError(t, err)
	return token.Value
}

// serve runs one request through RequireSession and returns the recorder and
// the claims the protected handler saw
func serve(tokens TokenVerifier, session Session, req *http.Request) (*httptest.ResponseRecorder, *auth.Claims) {
	var seen *auth.Claims
	protected := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	RequireSession(tokens, session)(protected).ServeHTTP(rec, req)
	return rec, seen
}

// ============================================
// RequireSession Tests
// ============================================

func TestRequireSession(t *testing.T) {
	tokens := auth.NewJWTService(testSecret, 15*time.Minute)
	expired := auth.NewJWTService(testSecret, -time.Minute)
	foreign := auth.NewJWTService(testSecret+"-other", 15*time.Minute)

	bearer := func(raw string) func(*http.Request) {
		return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+raw) }
	}
	cookie := func(raw string) func(*http.Request) {
		return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: raw}) }
	}

	tests := []struct {
		name       string
		session    fakeSession
		setup      func(*http.Request)
		wantStatus int
		wantBody   string
		wantUser   int64
	}{
		{"bearer header", loggedIn(101), bearer(issue(t, tokens, 101)), http.StatusOK, "", 101},
		{"cookie", loggedIn(456), cookie(issue(t, tokens, 456)), http.StatusOK, "", 456},
		{"no token", loggedIn(1), func(*http.Request) {}, http.StatusUnauthorized, "unauthorized", 0},
		{"garbage token", loggedIn(1), bearer("invalid-token"), http.StatusUnauthorized, "invalid token", 0},
		{"signed with another secret", loggedIn(1), bearer(issue(t, foreign, 1)), http.StatusUnauthorized, "invalid token", 0},
		{"expired", loggedIn(1), bearer(issue(t, expired, 1)), http.StatusUnauthorized, "token expired", 0},
		{"after logout", fakeSession{}, bearer(issue(t, tokens, 1)), http.StatusUnauthorized, "session expired", 0},
		{"someone else logged in", loggedIn(2), bearer(issue(t, tokens, 1)), http.StatusUnauthorized, "session expired", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
			tt.setup(req)

			rec, claims := serve(tokens, tt.session, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, `{"error":"`+tt.wantBody+`"}`, rec.Body.String())
			}
			if tt.wantUser == 0 {
				assert.Nil(t, claims)
				return
			}
			require.NotNil(t, claims)
			assert.Equal(t, tt.wantUser, claims.UserID)
		})
	}
}

func TestRequireSession_CookieTakesPrecedence(t *testing.T) {
	tokens := auth.NewJWTService(testSecret, 15*time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: issue(t, tokens, 7)})
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, 8))

	rec, claims := serve(tokens, loggedIn(7), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, claims)
	assert.Equal(t, int64(7), claims.UserID)
}

// ============================================
// Helper Tests
// ============================================

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(r *http.Request)
		expect string
	}{
		{"none", func(r *http.Request) {}, ""},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") }, "abc"},
		{"lowercase scheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer abc") }, "abc"},
		{"basic is ignored", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, ""},
		{"scheme only", func(r *http.Request) { r.Header.Set("Authorization", "Bearer") }, ""},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "xyz"}) }, "xyz"},
		{"empty cookie falls back", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: ""})
			r.Header.Set("Authorization", "Bearer abc")
		}, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			assert.Equal(t, tt.expect, ExtractToken(req))
		})
	}
}

func TestTokenCookies(t *testing.T) {
	expires := time.Now().Add(time.Hour).Truncate(time.Second)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.TLS = &tls.ConnectionState{}
	rec := httptest.NewRecorder()
	SetTokenCookie(rec, req, auth.Token{Value: "abc", ExpiresAt: expires})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "abc", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	assert.True(t, expires.Equal(cookies[0].Expires))

	rec = httptest.NewRecorder()
	ClearTokenCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AccessTokenCookie, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestClaimsFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	claims, ok := ClaimsFromContext(req.Context())
	assert.False(t, ok)
	assert.Nil(t, claims)
}
