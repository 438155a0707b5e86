package domain

import (
	"context"
	"time"
)

// MaxUsernameLength bounds User.Username, matching the users.username column.
const MaxUsernameLength = 100

// User represents a registered author.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for users.
// Lookups return ErrNotFound when no row matches; Create returns ErrConflict
// when the username or email is already taken.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
