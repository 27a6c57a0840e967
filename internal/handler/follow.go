package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/photofeed/internal/apperror"
	"github.com/sakif/photofeed/internal/service"
)

// FollowHandler serves the follow toggle.
type FollowHandler struct {
	follows *service.FollowService
	users   *service.UserService
	logger  *slog.Logger
}

func NewFollowHandler(follows *service.FollowService, users *service.UserService, logger *slog.Logger) *FollowHandler {
	return &FollowHandler{
		follows: follows,
		users:   users,
		logger:  logger,
	}
}

type followRequest struct {
	FollowingID string `json:"followingId"`
}

// HandleFollow creates a follow edge.
//
// HTTP: POST /api/follows — body {"followingId": "..."}
// Response: {"message": ..., "data": {"followersCount": n}}
// Following an already-followed user is 409.
func (h *FollowHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	viewer, err := resolveViewer(r, h.users)
	if err != nil {
		writeError(w, err)
		return
	}

	var req followRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	count, err := h.follows.Follow(r.Context(), viewer, req.FollowingID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "follow created",
		"data":    map[string]any{"followersCount": count},
	})
}

// HandleUnfollow removes a follow edge; 404 when no relation exists.
//
// HTTP: DELETE /api/follows — body {"followingId": "..."}
func (h *FollowHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	viewer, err := resolveViewer(r, h.users)
	if err != nil {
		writeError(w, err)
		return
	}

	var req followRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	count, err := h.follows.Unfollow(r.Context(), viewer, req.FollowingID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "follow removed",
		"data":    map[string]any{"followersCount": count},
	})
}
