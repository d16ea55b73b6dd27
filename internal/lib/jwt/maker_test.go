package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name      string
		accountID int64
		email     string
	}{
		{
			name:      "regular account",
			accountID: 1,
			email:     "alice@example.com",
		},
		{
			name:      "large account id",
			accountID: 9007199254740993,
			email:     "bob@example.com",
		},
		{
			name:      "email with plus sign",
			accountID: 42,
			email:     "carol+booking@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.accountID, tt.email)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.accountID, claims.AccountID)
			assert.Equal(t, tt.email, claims.Email)
			assert.NotEmpty(t, claims.ID)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	validToken, err := maker.GenerateToken(1, "alice@example.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "malformed token",
			token: "invalid.token.here",
		},
		{
			name:  "tampered token",
			token: validToken + "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.False(t, errors.Is(err, ErrExpired))
		})
	}
}

func TestJWTMaker_ParseToken_WrongKey(t *testing.T) {
	maker := NewJWTMaker("correct_secret_key", 15*time.Minute)
	otherMaker := NewJWTMaker("another_secret_key", 15*time.Minute)

	token, err := maker.GenerateToken(7, "dave@example.com")
	require.NoError(t, err)

	claims, err := otherMaker.ParseToken(token)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.False(t, errors.Is(err, ErrExpired))
}

func TestJWTMaker_ParseToken_Expired(t *testing.T) {
	// Отрицательный TTL выпускает уже истёкший, но корректно подписанный токен.
	maker := NewJWTMaker("test_secret_key_1234567890", -time.Minute)

	token, err := maker.GenerateToken(1, "alice@example.com")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, ErrExpired))
}
