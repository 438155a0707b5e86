package handler

import (
	"net/http"

	"github.com/msomdec/blog-dashboard/internal/service"
)

// AuthHandler handles account-related HTTP requests.
type AuthHandler struct {
	accounts *service.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// HandleRegister creates an account.
// POST /api/auth/register
// Request:  {"username":"...","email":"...","password":"..."}
// Response: 201 UserOut
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserOut(user))
}

// HandleLogin exchanges credentials for a bearer token.
// POST /api/auth/login
// Request:  {"username":"...","password":"..."}
// Response: {"access_token":"...","token_type":"bearer"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	token, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenOut{AccessToken: token, TokenType: "bearer"})
}

// HandleMe returns the authenticated user.
// GET /api/auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserOut(UserFromContext(r.Context())))
}
