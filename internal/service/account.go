package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/msomdec/blog-dashboard/internal/auth"
	"github.com/msomdec/blog-dashboard/internal/domain"
)

// PasswordHasher hashes and verifies passwords. *auth.Hasher implements it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// AccountService handles user registration and login.
type AccountService struct {
	users  domain.UserRepository
	hasher PasswordHasher
	tokens *auth.TokenService
	// dummyHash is verified against when a login names an unknown user, so
	// that path costs the same as a wrong password.
	dummyHash string
}

// NewAccountService creates a new AccountService.
func NewAccountService(users domain.UserRepository, hasher PasswordHasher, tokens *auth.TokenService) *AccountService {
	dummy, err := hasher.Hash("blog-dashboard-unknown-user")
	if err != nil {
		slog.Warn("build dummy password hash", "error", err)
	}
	return &AccountService{users: users, hasher: hasher, tokens: tokens, dummyHash: dummy}
}

// Register creates a new user. Taken usernames and emails are rejected with
// domain.ErrConflict before any hashing work is done.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can win between the check and the insert;
		// the store reports that as ErrConflict too.
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (s *AccountService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("check username: %w", err)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}

// Login verifies credentials and returns a signed access token.
// Unknown users and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username, user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
