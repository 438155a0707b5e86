package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/msomdec/blog-dashboard/internal/domain"
)

// userRepo implements domain.UserRepository using SQLite.
type userRepo struct {
	q querier
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) domain.UserRepository {
	return db.Users()
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	result, err := r.q.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrConflict
		}
		return domain.StorageError("insert user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.StorageError("get last insert id", err)
	}

	user.ID = id
	user.CreatedAt = now
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, "query user by id",
		`SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "query user by username",
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`, username)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "query user by email",
		`SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?`, email)
}

func (r *userRepo) getOne(ctx context.Context, op, query string, arg any) (*domain.User, error) {
	user := &domain.User{}
	err := r.q.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.StorageError(op, err)
	}
	return user, nil
}
