package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/photofeed/internal/apperror"
	"github.com/sakif/photofeed/internal/model"
	"github.com/sakif/photofeed/internal/repository"
)

// LikeService owns the like toggle. Both directions return the live count so
// clients can reconcile their optimistic UI on every round trip.
type LikeService struct {
	likes  repository.LikeRepository
	posts  repository.PostRepository
	logger *slog.Logger
}

func NewLikeService(likes repository.LikeRepository, posts repository.PostRepository, logger *slog.Logger) *LikeService {
	return &LikeService{
		likes:  likes,
		posts:  posts,
		logger: logger,
	}
}

// Like records the viewer's like on a post, idempotently.
//
// An existing like short-circuits to success with the current count. The
// exists/insert pair is not atomic, so two concurrent likes can both pass
// the check — the UNIQUE(post_id, user_id) index catches the loser and we
// fold that conflict into the same idempotent success.
func (s *LikeService) Like(ctx context.Context, viewer *model.User, postID string) (int64, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return 0, apperror.ValidationFailed("postId", "postId is required")
	}

	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return 0, err
	}

	exists, err := s.likes.LikeExists(ctx, postID, viewer.ID)
	if err != nil {
		return 0, fmt.Errorf("checking like: %w", err)
	}

	if !exists {
		like := &model.Like{PostID: postID, UserID: viewer.ID}
		if err := s.likes.CreateLike(ctx, like); err != nil {
			if !errors.Is(err, apperror.ErrConflict) {
				s.logger.Error("failed to create like",
					slog.String("postID", postID),
					slog.String("userID", viewer.ID),
					slog.String("error", err.Error()),
				)
				return 0, fmt.Errorf("creating like: %w", err)
			}
			// Lost the race — the like is there, which is what was asked.
		}
	}

	return s.likes.CountLikes(ctx, postID)
}

// Unlike removes the viewer's like. Unliking a post that was never liked is
// a silent no-op — the response is the current count either way.
func (s *LikeService) Unlike(ctx context.Context, viewer *model.User, postID string) (int64, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return 0, apperror.ValidationFailed("postId", "postId is required")
	}

	if _, err := s.likes.DeleteLike(ctx, postID, viewer.ID); err != nil {
		s.logger.Error("failed to delete like",
			slog.String("postID", postID),
			slog.String("userID", viewer.ID),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("deleting like: %w", err)
	}

	return s.likes.CountLikes(ctx, postID)
}

// Status returns the like count and the viewer's like state for a post.
func (s *LikeService) Status(ctx context.Context, viewer *model.User, postID string) (int64, bool, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return 0, false, apperror.ValidationFailed("postId", "postId is required")
	}

	count, err := s.likes.CountLikes(ctx, postID)
	if err != nil {
		return 0, false, fmt.Errorf("counting likes: %w", err)
	}
	isLiked, err := s.likes.LikeExists(ctx, postID, viewer.ID)
	if err != nil {
		return 0, false, fmt.Errorf("checking like: %w", err)
	}

	return count, isLiked, nil
}
