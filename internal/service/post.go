package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/msomdec/blog-dashboard/internal/domain"
)

// PostService handles blog post CRUD and ownership checks.
type PostService struct {
	posts domain.PostRepository
	tx    domain.TxManager
}

// NewPostService creates a new PostService. Reads and creates go through
// posts; updates and deletes run inside a transaction from tx.
func NewPostService(posts domain.PostRepository, tx domain.TxManager) *PostService {
	return &PostService{posts: posts, tx: tx}
}

// Create stores a new post owned by author.
func (s *PostService) Create(ctx context.Context, author *domain.User, title, content string) (*domain.Post, error) {
	post := &domain.Post{
		Title:          title,
		Content:        content,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// Get returns a post by ID.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// Update replaces the title and content of a post owned by actor.
func (s *PostService) Update(ctx context.Context, actor *domain.User, id int64, title, content string) (*domain.Post, error) {
	var updated *domain.Post
	err := s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		post, err := repos.Posts().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := AuthorizeMutation(actor, post); err != nil {
			slog.WarnContext(ctx, "post update denied", "post_id", id, "user_id", actorID(actor))
			return err
		}

		post.Title = title
		post.Content = content
		if err := repos.Posts().Update(ctx, post); err != nil {
			return fmt.Errorf("update post: %w", err)
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a post owned by actor.
func (s *PostService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	return s.tx.WithinTx(ctx, func(repos domain.Repositories) error {
		post, err := repos.Posts().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := AuthorizeMutation(actor, post); err != nil {
			slog.WarnContext(ctx, "post delete denied", "post_id", id, "user_id", actorID(actor))
			return err
		}

		if err := repos.Posts().Delete(ctx, id); err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
}

// List returns public posts, newest first, filtered and paginated by q.
func (s *PostService) List(ctx context.Context, q domain.PostQuery) ([]domain.Post, error) {
	return s.posts.List(ctx, q.Normalize())
}

// ListByAuthor returns every post by authorID, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Post, error) {
	return s.posts.ListByAuthor(ctx, authorID)
}

func actorID(actor *domain.User) any {
	if actor == nil {
		return nil
	}
	return actor.ID
}
