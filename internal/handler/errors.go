package handler

import (
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/msomdec/blog-dashboard/internal/domain"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindStorage, domain.KindHashing, domain.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders err as a JSON error. Server-side failures are logged
// with their cause and reach the client only as a generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errRequestTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	kind := domain.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"kind", kind.String(),
			"error", err)
	}
	if kind == domain.KindAuth {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeError(w, status, domain.PublicMessage(err))
}
