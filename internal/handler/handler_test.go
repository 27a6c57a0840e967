package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/photofeed/internal/auth"
	"github.com/sakif/photofeed/internal/handler"
	"github.com/sakif/photofeed/internal/model"
	"github.com/sakif/photofeed/internal/repository/sqlite"
	"github.com/sakif/photofeed/internal/service"
	"github.com/sakif/photofeed/internal/storage"
)

// testEnv wires the full API stack against an in-memory database and a
// temp-dir media store, with the real auth middleware in front.
type testEnv struct {
	router *chi.Mux
	tokens *auth.TokenService
	db     *sqlite.DB
	store  *storage.DiskStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := storage.NewDiskStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	require.NoError(t, err)

	userService := service.NewUserService(db, db, logger)
	postService := service.NewPostService(db, db, db, store, logger)
	likeService := service.NewLikeService(db, db, logger)
	commentService := service.NewCommentService(db, db, logger)
	followService := service.NewFollowService(db, db, logger)

	userHandler := handler.NewUserHandler(userService, logger)
	postHandler := handler.NewPostHandler(postService, userService, logger)
	likeHandler := handler.NewLikeHandler(likeService, userService, logger)
	commentHandler := handler.NewCommentHandler(commentService, userService, logger)
	followHandler := handler.NewFollowHandler(followService, userService, logger)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/me", userHandler.HandleMe)
		r.Get("/users/{userId}", userHandler.HandleGetProfile)

		r.Get("/posts", postHandler.HandleList)
		r.Post("/posts", postHandler.HandleCreate)
		r.Get("/posts/{postId}", postHandler.HandleGet)
		r.Delete("/posts/{postId}", postHandler.HandleDelete)

		r.Get("/comments", commentHandler.HandleList)
		r.Post("/comments", commentHandler.HandleCreate)
		r.Delete("/comments", commentHandler.HandleDelete)

		r.Get("/likes", likeHandler.HandleStatus)
		r.Post("/likes", likeHandler.HandleLike)
		r.Delete("/likes", likeHandler.HandleUnlike)

		r.Post("/follows", followHandler.HandleFollow)
		r.Delete("/follows", followHandler.HandleUnfollow)
	})

	return &testEnv{
		router: router,
		tokens: tokens,
		db:     db,
		store:  store,
	}
}

// seedUser provisions a user row the way the OAuth callback would.
func (e *testEnv) seedUser(t *testing.T, githubID int64, login string) *model.User {
	t.Helper()
	user := &model.User{GitHubID: githubID, Login: login, Name: login}
	require.NoError(t, e.db.Upsert(context.Background(), user))
	return user
}

// seedPost inserts a post row directly, bypassing the upload path.
func (e *testEnv) seedPost(t *testing.T, userID, caption string) *model.Post {
	t.Helper()
	post := &model.Post{
		UserID:   userID,
		ImageURL: "http://localhost:8080/media/posts/1/seed.jpg",
		Caption:  caption,
	}
	require.NoError(t, e.db.CreatePost(context.Background(), post))
	return post
}

// request performs an API call as the given identity (0 = unauthenticated).
func (e *testEnv) request(t *testing.T, githubID int64, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if githubID != 0 {
		signed, err := e.tokens.Generate(githubID)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: signed})
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) getJSON(t *testing.T, githubID int64, target string) *httptest.ResponseRecorder {
	t.Helper()
	return e.request(t, githubID, http.MethodGet, target, nil, "")
}

func (e *testEnv) sendJSON(t *testing.T, githubID int64, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return e.request(t, githubID, method, target, bytes.NewReader(body), "application/json")
}

// decode unmarshals a response body into dst.
func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

// pngBytes returns a blob that sniffs as image/png.
func pngBytes(size int) []byte {
	img := make([]byte, size)
	copy(img, []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a})
	return img
}

// multipartUpload builds a multipart body with an image file and a caption.
func multipartUpload(t *testing.T, filename string, image []byte, caption string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(image)
	require.NoError(t, err)

	if caption != "" {
		require.NoError(t, mw.WriteField("caption", caption))
	}
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

// errorMessage pulls the message out of the standard error body.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, rec, &body)
	return body.Error
}
