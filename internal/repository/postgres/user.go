package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/msomdec/blog-dashboard/internal/domain"
)

const selectUser = `SELECT id, username, email, password_hash, created_at FROM users`

type userRepo struct {
	q querier
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		user.Username, user.Email, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pqCode(err) == codeUniqueViolation {
			return domain.ErrConflict
		}
		return domain.StorageError("insert user", errors.WithStack(err))
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, "query user by id", selectUser+` WHERE id = $1`, id)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "query user by username", selectUser+` WHERE username = $1`, username)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "query user by email", selectUser+` WHERE email = $1`, email)
}

func (r *userRepo) getOne(ctx context.Context, op, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.q.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.StorageError(op, errors.WithStack(err))
	}
	return u, nil
}
