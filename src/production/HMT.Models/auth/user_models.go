package auth_models

import (
	"time"
)

// User represents a dashboard user
type User struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never exposed in JSON
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewUser creates a new User instance. The password must already be hashed.
func NewUser(username, passwordHash string) *User {
	return &User{
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now(),
	}
}
