package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	hashCost = bcrypt.MinCost
}

// ============================================
// ValidatePassword Tests
// ============================================

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"6 characters", "passwd", nil},
		{"vietnamese counts runes", "mậtkhẩu", nil},
		{"72 bytes", strings.Repeat("a", 72), nil},
		{"5 characters", "12345", ErrPasswordTooShort},
		{"5 unicode characters", "mật12", ErrPasswordTooShort},
		{"empty", "", ErrPasswordTooShort},
		{"73 bytes", strings.Repeat("a", 73), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ============================================
// HashPassword / CheckPassword Tests
// ============================================

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("Secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "Secret1", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"))
	assert.True(t, CheckPassword("Secret1", hash))
	assert.False(t, CheckPassword("secret1", hash), "comparison is case-sensitive")
	assert.False(t, CheckPassword("", hash))
}

func TestHashPassword_RejectsInvalid(t *testing.T) {
	hash, err := HashPassword("12345")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.Empty(t, hash)

	hash, err = HashPassword(strings.Repeat("x", 100))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Empty(t, hash)
}

func TestHashPassword_Salted(t *testing.T) {
	hash1, err := HashPassword("Secret1")
	require.NoError(t, err)
	hash2, err := HashPassword("Secret1")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

func TestCheckPassword_StoredValueNotAHash(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{"plaintext equal to the password", "Secret1"},
		{"empty", ""},
		{"garbage with bcrypt prefix", "$2a$garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, CheckPassword("Secret1", tt.stored))
		})
	}
}
