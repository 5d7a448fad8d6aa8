package auth

import (
	"testing"

	"pinbook/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	require.NoError(t, err)

	userID := uuid.New().String()

	accessToken, refreshToken, err := jwtService.GenerateTokens(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	access, err := jwtService.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	claims, ok := access.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, userID, claims["sub"])
	assert.Equal(t, "access", claims["type"])

	refresh, err := jwtService.ValidateRefreshToken(refreshToken)
	require.NoError(t, err)
	claims, ok = refresh.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "refresh", claims["type"])
}

func TestJWTService_TokenTypeMismatch(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	require.NoError(t, err)

	accessToken, refreshToken, err := jwtService.GenerateTokens(uuid.New().String())
	require.NoError(t, err)

	// A refresh token must not validate as an access token and vice versa.
	_, err = jwtService.ValidateAccessToken(refreshToken)
	assert.Error(t, err)
	_, err = jwtService.ValidateRefreshToken(accessToken)
	assert.Error(t, err)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	require.NoError(t, err)

	token, err := jwtService.ValidateAccessToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, token)
}

func TestJWTService_MissingSecrets(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}
