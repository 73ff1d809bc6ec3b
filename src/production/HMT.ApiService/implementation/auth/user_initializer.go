package auth

import (
	"context"
	"fmt"

	logger "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Logger"
	auth_models "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models/auth"
	interfaces "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Repository/Interfaces"

	"golang.org/x/crypto/bcrypt"
)

// UserInitializerService seeds the dashboard user on startup
type UserInitializerService struct {
	userRepo    interfaces.UserRepository
	logger      *logger.Logger
	adminConfig AdminConfig
}

// AdminConfig holds the seeded user credentials
type AdminConfig struct {
	Username string
	Password string
}

// NewUserInitializerService creates a new user initializer service
func NewUserInitializerService(
	userRepo interfaces.UserRepository,
	logger *logger.Logger,
	adminConfig AdminConfig,
) *UserInitializerService {
	return &UserInitializerService{
		userRepo:    userRepo,
		logger:      logger,
		adminConfig: adminConfig,
	}
}

// InitializeAdminUser creates the dashboard user if it does not exist yet
func (s *UserInitializerService) InitializeAdminUser(ctx context.Context) error {
	existing, err := s.userRepo.GetByUsername(ctx, s.adminConfig.Username)
	if err == nil && existing != nil {
		s.logger.Logger.Info().Str("username", s.adminConfig.Username).Msg("Dashboard user already exists, skipping creation")
		return nil
	}

	s.logger.Logger.Info().Msg("No dashboard user found. Creating one...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(s.adminConfig.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash dashboard user password: %w", err)
	}

	user := auth_models.NewUser(s.adminConfig.Username, string(hashedPassword))

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	s.logger.Logger.Info().Str("username", s.adminConfig.Username).Msg("Dashboard user created with configured credentials")
	s.logger.Logger.Warn().Msg("IMPORTANT: Change the dashboard password after first login!")

	return nil
}
