package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/msomdec/blog-dashboard/internal/service"
)

// RouterConfig holds everything the HTTP layer needs.
type RouterConfig struct {
	Accounts     *service.AccountService
	Identity     Authenticator
	Posts        *service.PostService
	DB           Pinger
	CORSOrigins  []string
	MaxBodyBytes int64
}

// NewRouter builds the chi router with all API routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	authH := NewAuthHandler(cfg.Accounts)
	postH := NewPostHandler(cfg.Posts)
	requireAuth := RequireAuth(cfg.Identity)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(RequestLog)
	r.Use(Recoverer)
	r.Use(SecurityHeaders)
	r.Use(CORS(cfg.CORSOrigins))
	r.Use(MaxBytes(cfg.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", HandleHealth(cfg.DB))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authH.HandleRegister)
		r.Post("/login", authH.HandleLogin)
		r.With(requireAuth).Get("/me", authH.HandleMe)
	})

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", postH.HandleList)
		r.Get("/{id}", postH.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/my", postH.HandleMine)
			r.Post("/", postH.HandleCreate)
			r.Put("/{id}", postH.HandleUpdate)
			r.Delete("/{id}", postH.HandleDelete)
		})
	})

	return r
}
