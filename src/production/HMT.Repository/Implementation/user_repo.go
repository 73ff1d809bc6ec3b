package implementation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
	auth_models "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models/auth"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *auth_models.User) (*auth_models.User, error) {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}

	query := `
		INSERT INTO users (user_id, username, password, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username)
		DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, user.UserID, user.Username, user.Password, user.CreatedAt)
	if err != nil {
		return nil, storageErr("create user", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		// Username already taken, return the existing row.
		return r.GetByUsername(ctx, user.Username)
	}

	return user, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, userID string) (*auth_models.User, error) {
	return r.getOne(ctx, `SELECT user_id, username, password, created_at FROM users WHERE user_id = $1`, userID)
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*auth_models.User, error) {
	return r.getOne(ctx, `SELECT user_id, username, password, created_at FROM users WHERE username = $1`, username)
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query string, arg interface{}) (*auth_models.User, error) {
	var user auth_models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.UserID, &user.Username, &user.Password, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user: %w", hmtmodels.ErrNotFound)
		}
		return nil, storageErr("get user", err)
	}
	return &user, nil
}
