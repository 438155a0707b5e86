package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/blog-dashboard/internal/auth"
	"github.com/msomdec/blog-dashboard/internal/domain"
)

// IdentityResolver turns verified token claims into the stored user.
type IdentityResolver struct {
	users  domain.UserRepository
	tokens *auth.TokenService
}

// NewIdentityResolver creates a new IdentityResolver.
func NewIdentityResolver(users domain.UserRepository, tokens *auth.TokenService) *IdentityResolver {
	return &IdentityResolver{users: users, tokens: tokens}
}

// Resolve looks up the user named by the claims' subject.
func (r *IdentityResolver) Resolve(ctx context.Context, claims *auth.Claims) (*domain.User, error) {
	if claims == nil || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	user, err := r.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	return user, nil
}

// Authenticate verifies a raw bearer token and resolves its user.
func (r *IdentityResolver) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, ok := r.tokens.Verify(token)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return r.Resolve(ctx, claims)
}
