package handler

import (
	"time"

	"github.com/msomdec/blog-dashboard/internal/domain"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the body of POST /api/auth/login. Empty fields are left to
// the credential check so they fail like any other bad login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PostRequest is the body of post create and update.
type PostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// UserOut is the JSON representation of a user. The password hash is never included.
type UserOut struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserOut(u *domain.User) UserOut {
	return UserOut{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

// PostOut is the JSON representation of a post.
type PostOut struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	AuthorID       int64     `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toPostOut(p *domain.Post) PostOut {
	return PostOut{
		ID:             p.ID,
		Title:          p.Title,
		Content:        p.Content,
		AuthorID:       p.AuthorID,
		AuthorUsername: p.AuthorUsername,
		CreatedAt:      p.CreatedAt.UTC(),
		UpdatedAt:      p.UpdatedAt.UTC(),
	}
}

func toPostOuts(posts []domain.Post) []PostOut {
	out := make([]PostOut, len(posts))
	for i := range posts {
		out[i] = toPostOut(&posts[i])
	}
	return out
}

// TokenOut is the login response.
type TokenOut struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
