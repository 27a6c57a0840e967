package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/photofeed/internal/apperror"
	"github.com/sakif/photofeed/internal/service"
)

// LikeHandler serves the like toggle. POST and DELETE mirror each other and
// both respond with the live count so the client's optimistic button state
// can reconcile.
type LikeHandler struct {
	likes  *service.LikeService
	users  *service.UserService
	logger *slog.Logger
}

func NewLikeHandler(likes *service.LikeService, users *service.UserService, logger *slog.Logger) *LikeHandler {
	return &LikeHandler{
		likes:  likes,
		users:  users,
		logger: logger,
	}
}

type likeRequest struct {
	PostID string `json:"postId"`
}

// HandleStatus returns the viewer's like state and the count for a post.
//
// HTTP: GET /api/likes?postId=xxx
// Response: {"data": {"likesCount": n, "isLiked": bool}}
func (h *LikeHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	viewer, err := resolveViewer(r, h.users)
	if err != nil {
		writeError(w, err)
		return
	}

	count, isLiked, err := h.likes.Status(r.Context(), viewer, r.URL.Query().Get("postId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"likesCount": count,
			"isLiked":    isLiked,
		},
	})
}

// HandleLike records a like, idempotently.
//
// HTTP: POST /api/likes — body {"postId": "..."}
// Response: {"data": {"likesCount": n}}
func (h *LikeHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	viewer, err := resolveViewer(r, h.users)
	if err != nil {
		writeError(w, err)
		return
	}

	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	count, err := h.likes.Like(r.Context(), viewer, req.PostID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"likesCount": count},
	})
}

// HandleUnlike removes a like. Unliking a post that was never liked still
// succeeds with the current count.
//
// HTTP: DELETE /api/likes — body {"postId": "..."}
func (h *LikeHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	viewer, err := resolveViewer(r, h.users)
	if err != nil {
		writeError(w, err)
		return
	}

	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	count, err := h.likes.Unlike(r.Context(), viewer, req.PostID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"likesCount": count},
	})
}
