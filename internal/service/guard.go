package service

import "github.com/msomdec/blog-dashboard/internal/domain"

// AuthorizeMutation allows only the post's author to change or remove it.
// Callers load the post first so a missing post reports NotFound, not Forbidden.
func AuthorizeMutation(actor *domain.User, post *domain.Post) error {
	if actor == nil || post == nil || actor.ID != post.AuthorID {
		return domain.ErrForbidden
	}
	return nil
}
