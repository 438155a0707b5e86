package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/msomdec/blog-dashboard/internal/domain"
	"github.com/msomdec/blog-dashboard/internal/repository"
)

const selectPost = `SELECT p.id, p.title, p.content, p.author_id, u.username, p.created_at, p.updated_at
	FROM posts p JOIN users u ON u.id = p.author_id`

// postRepo implements domain.PostRepository using SQLite.
type postRepo struct {
	q querier
}

// NewPostRepository creates a new SQLite-backed PostRepository.
func NewPostRepository(db *DB) domain.PostRepository {
	return db.Posts()
}

func (r *postRepo) Create(ctx context.Context, post *domain.Post) error {
	now := time.Now().UTC()
	result, err := r.q.ExecContext(ctx,
		`INSERT INTO posts (title, content, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		post.Title, post.Content, post.AuthorID, now, now,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return domain.ErrUserNotFound
		}
		return domain.StorageError("insert post", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.StorageError("get post id", err)
	}

	post.ID = id
	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

func (r *postRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	p := &domain.Post{}
	err := r.q.QueryRowContext(ctx, selectPost+` WHERE p.id = ?`, id).
		Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.AuthorUsername, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, domain.StorageError("get post", err)
	}
	return p, nil
}

// GetByIDForUpdate is a plain read: the transaction already holds the only
// connection, so no other writer can interleave.
func (r *postRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Post, error) {
	return r.GetByID(ctx, id)
}

func (r *postRepo) Update(ctx context.Context, post *domain.Post) error {
	now := time.Now().UTC()
	result, err := r.q.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		post.Title, post.Content, now, post.ID,
	)
	if err != nil {
		return domain.StorageError("update post", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.StorageError("rows affected", err)
	}
	if rows == 0 {
		return domain.ErrPostNotFound
	}

	post.UpdatedAt = now
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return domain.StorageError("delete post", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.StorageError("rows affected", err)
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
		like := repository.ContainsPattern(q.Search)
		query += ` WHERE (p.title LIKE ? ESCAPE '\' OR p.content LIKE ? ESCAPE '\')`
		args = append(args, like, like)
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`
	args = append(args, q.Limit, q.Skip)

	return r.list(ctx, "list posts", query, args...)
}

func (r *postRepo) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Post, error) {
	return r.list(ctx, "list posts by author",
		selectPost+` WHERE p.author_id = ? ORDER BY p.created_at DESC, p.id DESC`, authorID)
}

func (r *postRepo) list(ctx context.Context, op, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.StorageError(op, err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.AuthorUsername, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, domain.StorageError("scan post", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError(op, err)
	}
	return posts, nil
}
