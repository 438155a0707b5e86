package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/msomdec/blog-dashboard/internal/domain"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.Kind
	}{
		{"conflict", domain.ErrConflict, domain.KindConflict},
		{"wrapped not found", fmt.Errorf("get post: %w", domain.ErrPostNotFound), domain.KindNotFound},
		{"validation", domain.ValidationError("title is required"), domain.KindValidation},
		{"storage", domain.StorageError("insert", errors.New("disk full")), domain.KindStorage},
		{"hashing", domain.HashingError("hash", errors.New("bad rounds")), domain.KindHashing},
		{"untagged", errors.New("plain"), domain.KindInternal},
		{"nil", nil, domain.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrInvalidCredentials, "incorrect username or password"},
		{fmt.Errorf("resolve: %w", domain.ErrUserNotFound), "user not found"},
		{domain.ErrForbidden, "not authorized"},
		{domain.ValidationError("email must be a valid email address"), "invalid input: email must be a valid email address"},
		{domain.StorageError("insert user", errors.New("secret table name")), "internal server error"},
		{errors.New("boom"), "internal server error"},
	}
	for _, tt := range tests {
		if got := domain.PublicMessage(tt.err); got != tt.want {
			t.Errorf("PublicMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := domain.ValidationError("skip must be an integer")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected errors.Is(err, ErrInvalidInput), got %v", err)
	}
}

func TestStorageErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := domain.StorageError("list posts", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable through Unwrap")
	}
	if err.Error() != "list posts: connection reset" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestPostQueryNormalize(t *testing.T) {
	tests := []struct {
		in   domain.PostQuery
		want domain.PostQuery
	}{
		{domain.PostQuery{}, domain.PostQuery{Limit: domain.DefaultPostLimit}},
		{domain.PostQuery{Skip: -5, Limit: 10}, domain.PostQuery{Skip: 0, Limit: 10}},
		{domain.PostQuery{Skip: 3, Limit: 1000}, domain.PostQuery{Skip: 3, Limit: domain.MaxPostLimit}},
		{domain.PostQuery{Search: "go", Limit: -1}, domain.PostQuery{Search: "go", Limit: domain.DefaultPostLimit}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("%+v.Normalize() = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
