package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultJWTConfig(t *testing.T) {
	config := DefaultJWTConfig()
	assert.Equal(t, 15*time.Minute, config.AccessTokenExpiry)
	assert.Equal(t, 7*24*time.Hour, config.RefreshTokenExpiry)
	assert.Equal(t, "nutrilog", config.Issuer)
}

func TestJWTManager_GenerateAccessToken(t *testing.T) {
	config := &JWTConfig{
		Secret:            "test-secret-key-that-is-long-enough",
		AccessTokenExpiry: 15 * time.Minute,
		Issuer:            "test",
	}
	manager := NewJWTManager(config)

	userID := uuid.New()

	token, expiresAt, err := manager.GenerateAccessToken(userID, "test@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
	assert.True(t, expiresAt.Before(time.Now().Add(16*time.Minute)))
}

func TestJWTManager_ValidateAccessToken(t *testing.T) {
	config := &JWTConfig{
		Secret:            "test-secret-key-that-is-long-enough",
		AccessTokenExpiry: 15 * time.Minute,
		Issuer:            "test",
	}
	manager := NewJWTManager(config)

	userID := uuid.New()

	t.Run("validates valid token", func(t *testing.T) {
		token, _, err := manager.GenerateAccessToken(userID, "test@example.com")
		require.NoError(t, err)

		claims, err := manager.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "test@example.com", claims.Email)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		_, err := manager.ValidateAccessToken("invalid-token")
		assert.Error(t, err)
	})

	t.Run("rejects token with wrong secret", func(t *testing.T) {
		other := NewJWTManager(&JWTConfig{
			Secret:            "a-completely-different-secret-key",
			AccessTokenExpiry: 15 * time.Minute,
			Issuer:            "test",
		})

		token, _, err := other.GenerateAccessToken(userID, "test@example.com")
		require.NoError(t, err)

		_, err = manager.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewJWTManager(&JWTConfig{
			Secret:            "test-secret-key-that-is-long-enough",
			AccessTokenExpiry: -time.Minute,
			Issuer:            "test",
		})

		token, _, err := expired.GenerateAccessToken(userID, "test@example.com")
		require.NoError(t, err)

		_, err = manager.ValidateAccessToken(token)
		assert.Error(t, err)
	})
}

func TestJWTManager_RefreshToken(t *testing.T) {
	manager := NewJWTManager(&JWTConfig{
		Secret:             "test-secret-key-that-is-long-enough",
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "test",
	})

	raw, hash, expiresAt, err := manager.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, raw, hash)
	assert.True(t, expiresAt.After(time.Now().Add(23*time.Hour)))

	// Hashing the raw token again must produce the stored hash
	assert.Equal(t, hash, manager.HashRefreshToken(raw))
}
