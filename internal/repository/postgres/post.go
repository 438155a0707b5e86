package postgres

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/pkg/errors"

	"github.com/msomdec/blog-dashboard/internal/domain"
	"github.com/msomdec/blog-dashboard/internal/repository"
)

const selectPost = `SELECT p.id, p.title, p.content, p.author_id, u.username, p.created_at, p.updated_at
	FROM posts p JOIN users u ON u.id = p.author_id`

type postRepo struct {
	q querier
}

func (r *postRepo) Create(ctx context.Context, post *domain.Post) error {
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO posts (title, content, author_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		post.Title, post.Content, post.AuthorID,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return domain.StorageError("insert post", errors.WithStack(err))
	}
	return nil
}

func (r *postRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	return r.getOne(ctx, selectPost+` WHERE p.id = $1`, id)
}

// GetByIDForUpdate locks the post row until the surrounding transaction ends.
func (r *postRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Post, error) {
	return r.getOne(ctx, selectPost+` WHERE p.id = $1 FOR UPDATE OF p`, id)
}

func (r *postRepo) getOne(ctx context.Context, query string, id int64) (*domain.Post, error) {
	p := &domain.Post{}
	err := r.q.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.AuthorUsername, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, domain.StorageError("get post", errors.WithStack(err))
	}
	return p, nil
}

func (r *postRepo) Update(ctx context.Context, post *domain.Post) error {
	err := r.q.QueryRowContext(ctx,
		`UPDATE posts SET title = $1, content = $2, updated_at = now()
		 WHERE id = $3
		 RETURNING updated_at`,
		post.Title, post.Content, post.ID,
	).Scan(&post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrPostNotFound
		}
		return domain.StorageError("update post", errors.WithStack(err))
	}
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return domain.StorageError("delete post", errors.WithStack(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.StorageError("rows affected", errors.WithStack(err))
	}
	if rows == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *postRepo) List(ctx context.Context, q domain.PostQuery) ([]domain.Post, error) {
	q = q.Normalize()

	query := selectPost
	var args []any
	if q.Search != "" {
		args = append(args, repository.ContainsPattern(q.Search))
		query += ` WHERE (p.title ILIKE $1 ESCAPE '\' OR p.content ILIKE $1 ESCAPE '\')`
	}
	n := len(args)
	query += ` ORDER BY p.created_at DESC, p.id DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, q.Limit, q.Skip)

	return r.list(ctx, "list posts", query, args...)
}

func (r *postRepo) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Post, error) {
	return r.list(ctx, "list posts by author",
		selectPost+` WHERE p.author_id = $1 ORDER BY p.created_at DESC, p.id DESC`, authorID)
}

func (r *postRepo) list(ctx context.Context, op, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.StorageError(op, errors.WithStack(err))
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.AuthorUsername, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, domain.StorageError("scan post", errors.WithStack(err))
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError(op, errors.WithStack(err))
	}
	return posts, nil
}
