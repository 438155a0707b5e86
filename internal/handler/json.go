package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/msomdec/blog-dashboard/internal/domain"
)

// errRequestTooLarge is returned by readJSON when the body exceeds the MaxBytes limit.
var errRequestTooLarge = errors.New("request body too large")

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// readJSON decodes the request body into dst and validates it.
// Malformed bodies become validation errors.
func readJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return errRequestTooLarge
		case errors.Is(err, io.EOF):
			return domain.ValidationError("request body is empty")
		default:
			return domain.ValidationError("malformed JSON body")
		}
	}
	return validate(dst)
}
