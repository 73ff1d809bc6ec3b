package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	jwtservice "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/implementation/jwt"
	api_models "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models/api"
)

func testConfig() api_models.Config {
	return api_models.Config{
		SecretKey:            "test-secret",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 24 * time.Hour,
		Issuer:               "hmt-test",
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := jwtservice.NewService(testConfig())

	pair, err := svc.GenerateTokens("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	access, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", access.UserID)
	assert.Equal(t, pair.TokenID, access.TokenID)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", refresh.UserID)
	assert.Equal(t, pair.TokenID, refresh.TokenID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := jwtservice.NewService(testConfig())
	pair, err := svc.GenerateTokens("user-123")
	require.NoError(t, err)

	other := testConfig()
	other.SecretKey = "different-secret"
	otherSvc := jwtservice.NewService(other)

	_, err = otherSvc.ValidateAccessToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := jwtservice.NewService(testConfig())

	_, err := svc.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}
