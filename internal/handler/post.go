package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/photofeed/internal/apperror"
	"github.com/sakif/photofeed/internal/service"
)

// maxUploadBytes caps the whole multipart request body. It sits a little
// above the image limit so an oversized image reaches the service layer and
// gets the proper 413 instead of an opaque connection reset.
const maxUploadBytes = service.MaxImageSize + 1<<20

// PostHandler serves the feed and the post mutations.
type PostHandler struct {
	posts  *service.PostService
	users  *service.UserService
	logger *slog.Logger
}

func NewPostHandler(posts *service.PostService, users *service.UserService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		posts:  posts,
		users:  users,
		logger: logger,
	}
}

// HandleList returns a window of the feed.
//
// HTTP: GET /api/posts?limit=10&offset=0[&userId=xxx]
// Response: {"data": [PostWithStats...], "hasMore": bool}
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	viewer, err := resolveViewer(r, h.users)
	if err != nil {
		writeError(w, err)
		return
	}

	limit := queryInt(r, "limit", service.DefaultFeedLimit)
	offset := queryInt(r, "offset", 0)
	userID := r.URL.Query().Get("userId")

	items, hasMore, err := h.posts.Feed(r.Context(), viewer, limit, offset, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":    items,
		"hasMore": hasMore,
	})
}

// HandleGet returns one post with stats, for the post detail view.
//
// HTTP: GET /api/posts/{postId}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	viewer, err := resolveViewer(r, h.users)
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := h.posts.Get(r.Context(), viewer, r.PathValue("postId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": item})
}

// HandleCreate uploads a new post.
//
// HTTP: POST /api/posts
// Body: multipart form — "image" (file, required), "caption" (optional)
// Response: 201 {"data": {"post": Post, "imageUrl": string}}
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	viewer, err := resolveViewer(r, h.users)
	if err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, apperror.TooLarge("image", "image must be 5MB or smaller"))
			return
		}
		writeError(w, apperror.ValidationFailed("body", "invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperror.ValidationFailed("image", "an image is required"))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read upload", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	post, err := h.posts.Create(r.Context(), viewer, image, header.Filename, r.FormValue("caption"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{
			"post":     post,
			"imageUrl": post.ImageURL,
		},
	})
}

// HandleDelete removes a post the viewer owns.
//
// HTTP: DELETE /api/posts/{postId}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	viewer, err := resolveViewer(r, h.users)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.posts.Delete(r.Context(), viewer, r.PathValue("postId")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "post deleted"})
}
