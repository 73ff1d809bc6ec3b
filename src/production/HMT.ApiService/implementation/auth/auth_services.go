package auth

import (
	"context"
	"errors"

	jwtservice "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/implementation/jwt"
	api_models "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models/api"
	auth_models "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models/auth"
	interfaces "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Repository/Interfaces"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a bad username or password. The
// two cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService is the thin session collaborator in front of the telemetry
// core. Passwords are bcrypt hashes; the core itself performs no
// authorization.
type AuthService struct {
	userRepo   interfaces.UserRepository
	jwtService *jwtservice.Service
}

func NewAuthService(userRepo interfaces.UserRepository, jwtService *jwtservice.Service) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login verifies the credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*api_models.TokenPair, *auth_models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.jwtService.GenerateTokens(user.UserID)
	if err != nil {
		return nil, nil, err
	}

	return tokens, user, nil
}

// GetUser loads a user by id for the /auth/me endpoint.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*auth_models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
