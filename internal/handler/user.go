package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/photofeed/internal/service"
)

// UserHandler serves profile views.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// HandleGetProfile returns an aggregated profile with stats.
//
// HTTP: GET /api/users/{userId}
// The path param may be an internal ID or an external (GitHub) identity —
// the service disambiguates.
// Response: {"data": UserWithStats}
func (h *UserHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	viewer, err := resolveViewer(r, h.users)
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.users.Profile(r.Context(), viewer, r.PathValue("userId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": profile})
}

// HandleMe returns the viewer's own aggregated profile.
//
// HTTP: GET /api/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	viewer, err := resolveViewer(r, h.users)
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.users.Profile(r.Context(), viewer, viewer.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": profile})
}
