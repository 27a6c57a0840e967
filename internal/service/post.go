package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/sakif/photofeed/internal/apperror"
	"github.com/sakif/photofeed/internal/model"
	"github.com/sakif/photofeed/internal/repository"
	"github.com/sakif/photofeed/internal/storage"
)

const (
	DefaultFeedLimit = 10
	MaxFeedLimit     = 100
	MaxCaptionLength = 2200
	MaxImageSize     = 5 * 1024 * 1024 // 5MB
)

// allowedImageTypes are the MIME types accepted for uploads. The type is
// sniffed from the file content, not taken from the client's headers.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// PostService owns the feed aggregation and the post mutations, including
// the coordination between the media store and the database.
type PostService struct {
	posts    repository.PostRepository
	likes    repository.LikeRepository
	comments repository.CommentRepository
	store    storage.Store
	logger   *slog.Logger
}

func NewPostService(
	posts repository.PostRepository,
	likes repository.LikeRepository,
	comments repository.CommentRepository,
	store storage.Store,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		posts:    posts,
		likes:    likes,
		comments: comments,
		store:    store,
		logger:   logger,
	}
}

// Feed returns a window of posts (all users, or one user's when userID is
// set) with derived stats attached, plus whether more rows exist past the
// window.
//
// Stats are computed with sequential per-post count queries. That is linear
// in page size with a constant number of lookups per row — acceptable at
// page sizes of 10–100 against indexed columns, and trivially correct. A
// grouped query would batch it if this ever shows up in a profile.
//
// hasMore comes from a separate total count: offset+limit < total. The two
// reads are not transactional; a writer racing between them can skew the
// flag by one page, which callers tolerate.
func (s *PostService) Feed(ctx context.Context, viewer *model.User, limit, offset int, userID string) ([]model.PostWithStats, bool, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := s.posts.ListPosts(ctx, repository.PostListOptions{
		ListOptions: repository.ListOptions{Limit: limit, Offset: offset},
		UserID:      userID,
	})
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, false, fmt.Errorf("listing posts: %w", err)
	}

	items := make([]model.PostWithStats, 0, len(posts))
	for _, post := range posts {
		item, err := s.aggregate(ctx, viewer, post)
		if err != nil {
			return nil, false, err
		}
		items = append(items, *item)
	}

	total, err := s.posts.CountAllPosts(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count posts", slog.String("error", err.Error()))
		return nil, false, fmt.Errorf("counting posts: %w", err)
	}

	return items, int64(offset+limit) < total, nil
}

// Get returns a single post with stats, for the post detail view.
func (s *PostService) Get(ctx context.Context, viewer *model.User, postID string) (*model.PostWithStats, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, apperror.ValidationFailed("postId", "post ID is required")
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	return s.aggregate(ctx, viewer, *post)
}

// aggregate attaches the derived fields to one post row: like count, comment
// count, and the viewer's like state.
func (s *PostService) aggregate(ctx context.Context, viewer *model.User, post model.Post) (*model.PostWithStats, error) {
	likesCount, err := s.likes.CountLikes(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("aggregating post %s: %w", post.ID, err)
	}
	commentsCount, err := s.comments.CountComments(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("aggregating post %s: %w", post.ID, err)
	}
	isLiked, err := s.likes.LikeExists(ctx, post.ID, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("aggregating post %s: %w", post.ID, err)
	}

	return &model.PostWithStats{
		Post:          post,
		LikesCount:    likesCount,
		CommentsCount: commentsCount,
		IsLiked:       isLiked,
	}, nil
}

// Create validates the upload, writes it to the media store, then inserts
// the post row.
//
// The two writes are ordered blob-first so a failed insert can compensate by
// deleting the blob. That cleanup is best-effort: if it also fails we log
// and accept an orphaned object rather than surfacing a second error on top
// of the first.
func (s *PostService) Create(ctx context.Context, viewer *model.User, image []byte, filename, caption string) (*model.Post, error) {
	if len(image) == 0 {
		return nil, apperror.ValidationFailed("image", "an image is required")
	}
	if len(image) > MaxImageSize {
		return nil, apperror.TooLarge("image", "image must be 5MB or smaller")
	}

	contentType := http.DetectContentType(image[:min(len(image), 512)])
	if !allowedImageTypes[contentType] {
		return nil, apperror.ValidationFailed("image",
			"unsupported image format (JPEG, PNG, WebP, GIF)")
	}

	caption = strings.TrimSpace(caption)
	if len(caption) > MaxCaptionLength {
		return nil, apperror.ValidationFailed("caption",
			fmt.Sprintf("caption must be %d characters or less", MaxCaptionLength))
	}

	// Blob path: keyed by external identity, timestamp-prefixed filename so
	// repeated uploads of "photo.jpg" never collide.
	blobPath := fmt.Sprintf("posts/%d/%d_%s",
		viewer.GitHubID, time.Now().UnixMilli(), sanitizeFilename(filename))

	imageURL, err := s.store.Save(ctx, blobPath, bytes.NewReader(image))
	if err != nil {
		s.logger.Error("failed to store image",
			slog.String("path", blobPath),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("storing image: %w", err)
	}

	post := &model.Post{
		UserID:   viewer.ID,
		ImageURL: imageURL,
		Caption:  caption,
		User:     viewer,
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		// Compensate for the already-written blob.
		if rmErr := s.store.Remove(ctx, imageURL); rmErr != nil {
			s.logger.Error("failed to clean up image after insert failure",
				slog.String("imageURL", imageURL),
				slog.String("error", rmErr.Error()),
			)
		}
		s.logger.Error("failed to create post",
			slog.String("userID", viewer.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("userID", viewer.ID),
	)

	return post, nil
}

// Delete removes a post the viewer owns.
//
// The blob is removed first, best-effort: a storage failure is logged and
// the row delete proceeds anyway — a dangling file is recoverable, a post
// that refuses to die is a support ticket. Dependent likes and comments go
// with the row via the database's cascade rules.
func (s *PostService) Delete(ctx context.Context, viewer *model.User, postID string) error {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return apperror.ValidationFailed("postId", "post ID is required")
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != viewer.ID {
		return apperror.Forbidden("you can only delete your own posts")
	}

	if post.ImageURL != "" {
		if err := s.store.Remove(ctx, post.ImageURL); err != nil {
			s.logger.Warn("failed to remove post image",
				slog.String("postID", postID),
				slog.String("imageURL", post.ImageURL),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return err
	}

	s.logger.Info("post deleted",
		slog.String("id", postID),
		slog.String("userID", viewer.ID),
	)
	return nil
}

// sanitizeFilename reduces an uploaded filename to a safe blob-path segment.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "image"
	}
	return cleaned
}
