package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/msomdec/blog-dashboard/internal/domain"
	"github.com/msomdec/blog-dashboard/internal/service"
)

// PostHandler handles blog post HTTP requests.
type PostHandler struct {
	posts *service.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// HandleList returns public posts.
// GET /api/posts?search=&skip=&limit=
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := domain.PostQuery{Search: r.URL.Query().Get("search")}
	var err error
	if q.Skip, err = intQuery(r, "skip"); err != nil {
		respondError(w, r, err)
		return
	}
	if q.Limit, err = intQuery(r, "limit"); err != nil {
		respondError(w, r, err)
		return
	}

	posts, err := h.posts.List(r.Context(), q)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostOuts(posts))
}

// HandleMine returns the authenticated user's posts.
// GET /api/posts/my
func (h *PostHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	posts, err := h.posts.ListByAuthor(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostOuts(posts))
}

// HandleCreate creates a post owned by the authenticated user.
// POST /api/posts
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	post, err := h.posts.Create(r.Context(), UserFromContext(r.Context()), req.Title, req.Content)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPostOut(post))
}

// HandleGet returns a single post.
// GET /api/posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostOut(post))
}

// HandleUpdate replaces a post's title and content.
// PUT /api/posts/{id}
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req PostRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	post, err := h.posts.Update(r.Context(), UserFromContext(r.Context()), id, req.Title, req.Content)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostOut(post))
}

// HandleDelete removes a post.
// DELETE /api/posts/{id}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.posts.Delete(r.Context(), UserFromContext(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func postID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, domain.ValidationError("post id must be an integer")
	}
	return id, nil
}

func intQuery(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationError("%s must be an integer", key)
	}
	return n, nil
}
