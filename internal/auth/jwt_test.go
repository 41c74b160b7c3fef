package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-purposes"

func newTestJWTService(now time.Time) *JWTService {
	s := NewJWTService(testSecret, 15*time.Minute)
	s.now = func() time.Time { return now }
	return s
}

// sign builds a token with arbitrary claims, bypassing Issue
func sign(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

// ============================================
// Issue Tests
// ============================================

func TestJWTService_Issue(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s := newTestJWTService(now)

	token, err := s.Issue(1712345678901, "an@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.Equal(t, now.Add(15*time.Minute), token.ExpiresAt)
	assert.Equal(t, 15*time.Minute, s.TTL())
}

// ============================================
// Verify Tests
// ============================================

func TestJWTService_Verify_Valid(t *testing.T) {
	s := newTestJWTService(time.Now())
	token, err := s.Issue(1712345678901, "an@example.com")
	require.NoError(t, err)

	claims, err := s.Verify(token.Value)

	require.NoError(t, err)
	assert.Equal(t, int64(1712345678901), claims.UserID)
	assert.Equal(t, "an@example.com", claims.Email)
	assert.Equal(t, "1712345678901", claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestJWTService_Verify_Expired(t *testing.T) {
	issued := time.Now()
	s := newTestJWTService(issued)
	token, err := s.Issue(1, "an@example.com")
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(time.Hour) }
	claims, err := s.Verify(token.Value)

	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestJWTService_Verify_Rejected(t *testing.T) {
	now := time.Now()
	s := newTestJWTService(now)
	valid := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}

	withIssuer := func(iss string) jwt.RegisteredClaims {
		rc := valid
		rc.Issuer = iss
		return rc
	}
	noExpiry := valid
	noExpiry.ExpiresAt = nil
	otherSubject := valid
	otherSubject.Subject = "2"

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "not-a-valid-token"},
		{"malformed JWT", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature"},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("another-secret"), Claims{UserID: 1, RegisteredClaims: valid})},
		{"alg none", sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, Claims{UserID: 1, RegisteredClaims: valid})},
		{"HS512", sign(t, jwt.SigningMethodHS512, []byte(testSecret), Claims{UserID: 1, RegisteredClaims: valid})},
		{"foreign issuer", sign(t, jwt.SigningMethodHS256, []byte(testSecret), Claims{UserID: 1, RegisteredClaims: withIssuer("someone-else")})},
		{"no expiry", sign(t, jwt.SigningMethodHS256, []byte(testSecret), Claims{UserID: 1, RegisteredClaims: noExpiry})},
		{"subject mismatch", sign(t, jwt.SigningMethodHS256, []byte(testSecret), Claims{UserID: 1, RegisteredClaims: otherSubject})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := s.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}
