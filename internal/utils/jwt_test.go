package utils

import (
	"testing"
	"time"

	"finguard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	user := models.User{ID: 42, Username: "ana", Role: "user"}

	token, err := GenerateAccessToken(user, "test-secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "user", claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	user := models.User{ID: 1, Username: "ana", Role: "user"}

	token, err := GenerateAccessToken(user, "secret-a", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret-b")
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	user := models.User{ID: 1, Username: "ana", Role: "user"}

	token, err := GenerateAccessToken(user, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "test-secret")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("parola123")
	require.NoError(t, err)
	assert.NotEqual(t, "parola123", hash)

	assert.True(t, CheckPasswordHash("parola123", hash))
	assert.False(t, CheckPasswordHash("gresit", hash))
}
