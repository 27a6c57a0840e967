package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/photofeed/internal/apperror"
	"github.com/sakif/photofeed/internal/model"
	"github.com/sakif/photofeed/internal/repository"
)

const (
	DefaultCommentLimit = 50
	MaxCommentLimit     = 100
)

// CommentService owns comment listing and the author-gated mutations.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	logger   *slog.Logger
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, logger *slog.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		logger:   logger,
	}
}

// List returns a window of a post's comments (newest first, authors joined)
// and whether more exist past the window. The post must exist — a bad postId
// is 404, not an empty list.
func (s *CommentService) List(ctx context.Context, postID string, limit, offset int) ([]model.Comment, bool, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, false, apperror.ValidationFailed("postId", "postId is required")
	}

	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, false, err
	}

	if limit <= 0 {
		limit = DefaultCommentLimit
	}
	if limit > MaxCommentLimit {
		limit = MaxCommentLimit
	}
	if offset < 0 {
		offset = 0
	}

	comments, err := s.comments.ListComments(ctx, postID, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list comments",
			slog.String("postID", postID),
			slog.String("error", err.Error()),
		)
		return nil, false, fmt.Errorf("listing comments: %w", err)
	}

	total, err := s.comments.CountComments(ctx, postID)
	if err != nil {
		return nil, false, fmt.Errorf("counting comments: %w", err)
	}

	return comments, int64(offset+limit) < total, nil
}

// Create adds the viewer's comment to a post. Content is trimmed and must be
// non-empty afterwards.
func (s *CommentService) Create(ctx context.Context, viewer *model.User, postID, content string) (*model.Comment, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, apperror.ValidationFailed("postId", "postId is required")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "enter a comment")
	}

	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  viewer.ID,
		Content: content,
		User:    viewer,
	}

	if err := s.comments.CreateComment(ctx, comment); err != nil {
		s.logger.Error("failed to create comment",
			slog.String("postID", postID),
			slog.String("userID", viewer.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment created",
		slog.String("id", comment.ID),
		slog.String("postID", postID),
	)

	return comment, nil
}

// Delete removes a comment. Strict author equality — post owners cannot
// moderate other people's comments through this path.
func (s *CommentService) Delete(ctx context.Context, viewer *model.User, commentID string) error {
	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return apperror.ValidationFailed("commentId", "commentId is required")
	}

	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != viewer.ID {
		return apperror.Forbidden("you can only delete your own comments")
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return err
	}

	s.logger.Info("comment deleted",
		slog.String("id", commentID),
		slog.String("userID", viewer.ID),
	)
	return nil
}
