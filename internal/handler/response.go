// Package handler contains the HTTP layer: request parsing, viewer
// resolution, and the mapping from domain errors to status codes. No SQL,
// no business rules.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/photofeed/internal/apperror"
	"github.com/sakif/photofeed/internal/auth"
	"github.com/sakif/photofeed/internal/model"
	"github.com/sakif/photofeed/internal/service"
)

// ErrorResponse is the standard error body for every API endpoint:
// {"error": "<human-readable message>"}.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response. Headers and status must go out before the
// body — once Encode writes, they are locked in.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and sends the standard
// error body. The service layer returns apperror sentinels; this is the only
// place they meet status codes.
//
// Unknown errors become a generic 500 — raw messages can leak SQL or paths.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrTooLarge):
			status = http.StatusRequestEntityTooLarge
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}

		writeJSON(w, status, ErrorResponse{Error: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "an internal error occurred",
	})
}

// resolveViewer turns the verified external identity (set by the auth
// middleware) into the internal user row. Every API handler starts here.
func resolveViewer(r *http.Request, users *service.UserService) (*model.User, error) {
	githubID, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return nil, apperror.Unauthorized("authentication required")
	}
	return users.ResolveViewer(r.Context(), githubID)
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or not a number.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
