package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/photofeed/internal/apperror"
	"github.com/sakif/photofeed/internal/service"
)

// CommentHandler serves comment listing, creation, and deletion.
type CommentHandler struct {
	comments *service.CommentService
	users    *service.UserService
	logger   *slog.Logger
}

func NewCommentHandler(comments *service.CommentService, users *service.UserService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		users:    users,
		logger:   logger,
	}
}

// HandleList returns a window of a post's comments.
//
// HTTP: GET /api/comments?postId=xxx&limit=50&offset=0
// Response: {"data": [CommentWithUser...], "hasMore": bool}
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if _, err := resolveViewer(r, h.users); err != nil {
		writeError(w, err)
		return
	}

	postID := r.URL.Query().Get("postId")
	limit := queryInt(r, "limit", service.DefaultCommentLimit)
	offset := queryInt(r, "offset", 0)

	comments, hasMore, err := h.comments.List(r.Context(), postID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":    comments,
		"hasMore": hasMore,
	})
}

// HandleCreate adds a comment to a post.
//
// HTTP: POST /api/comments
// Body: {"postId": "...", "content": "..."}
// Response: 201 {"data": CommentWithUser}
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	viewer, err := resolveViewer(r, h.users)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		PostID  string `json:"postId"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	comment, err := h.comments.Create(r.Context(), viewer, req.PostID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"data": comment})
}

// HandleDelete removes a comment the viewer authored.
//
// HTTP: DELETE /api/comments?commentId=xxx
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	viewer, err := resolveViewer(r, h.users)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.comments.Delete(r.Context(), viewer, r.URL.Query().Get("commentId")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "comment deleted"})
}
