package domain

import (
	"context"
	"time"
)

const (
	// DefaultPostLimit is applied when a list query asks for no limit.
	DefaultPostLimit = 100
	// MaxPostLimit caps every paginated list query.
	MaxPostLimit = 100
)

// Post is a blog post owned by a single author.
type Post struct {
	ID       int64
	Title    string
	Content  string
	AuthorID int64
	// AuthorUsername is filled on reads by joining users; it is not stored on the post row.
	AuthorUsername string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PostQuery filters and paginates the public post listing.
type PostQuery struct {
	Search string
	Skip   int
	Limit  int
}

// Normalize clamps Skip and Limit into their allowed ranges.
func (q PostQuery) Normalize() PostQuery {
	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPostLimit
	}
	if q.Limit > MaxPostLimit {
		q.Limit = MaxPostLimit
	}
	return q
}

// PostRepository defines persistence operations for posts.
// Listings are ordered newest first.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id int64) (*Post, error)
	// GetByIDForUpdate loads a post and locks it for the rest of the
	// surrounding transaction where the store supports row locks.
	GetByIDForUpdate(ctx context.Context, id int64) (*Post, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q PostQuery) ([]Post, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]Post, error)
}
