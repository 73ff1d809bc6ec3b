package interfaces

import (
	"context"

	auth_models "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models/auth"
)

type UserRepository interface {
	// Create inserts a user if the username is not already taken.
	Create(ctx context.Context, user *auth_models.User) (*auth_models.User, error)

	GetByID(ctx context.Context, userID string) (*auth_models.User, error)
	GetByUsername(ctx context.Context, username string) (*auth_models.User, error)
}
