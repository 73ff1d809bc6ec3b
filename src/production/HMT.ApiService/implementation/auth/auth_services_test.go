package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	auth "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/implementation/auth"
	jwtservice "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/implementation/jwt"
	api_models "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models/api"
	auth_models "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models/auth"
	implementation "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Repository/Implementation"
)

func newAuthService(t *testing.T) (*auth.AuthService, *implementation.MemoryUserRepository) {
	t.Helper()

	jwtSvc := jwtservice.NewService(api_models.Config{
		SecretKey:            "test-secret",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 24 * time.Hour,
		Issuer:               "hmt-test",
	})
	userRepo := implementation.NewMemoryUserRepository()
	return auth.NewAuthService(userRepo, jwtSvc), userRepo
}

func seedUser(t *testing.T, repo *implementation.MemoryUserRepository, username, password string) *auth_models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := repo.Create(context.Background(), auth_models.NewUser(username, string(hash)))
	require.NoError(t, err)
	return user
}

func TestLoginSucceedsWithCorrectPassword(t *testing.T) {
	svc, repo := newAuthService(t)
	seeded := seedUser(t, repo, "admin", "hunter2")

	pair, user, err := svc.Login(context.Background(), "admin", "hunter2")
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, seeded.UserID, user.UserID)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, repo := newAuthService(t)
	seedUser(t, repo, "admin", "hunter2")

	_, _, err := svc.Login(context.Background(), "admin", "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, err := svc.Login(context.Background(), "nobody", "hunter2")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
