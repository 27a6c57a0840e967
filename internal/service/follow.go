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

// FollowService owns the follow toggle. Both directions return the target's
// live follower count.
type FollowService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
	logger  *slog.Logger
}

func NewFollowService(follows repository.FollowRepository, users repository.UserRepository, logger *slog.Logger) *FollowService {
	return &FollowService{
		follows: follows,
		users:   users,
		logger:  logger,
	}
}

// Follow creates the viewer → target edge.
//
// Self-follows are rejected regardless of prior state. A duplicate follow
// surfaces the repository's conflict as-is — unlike likes, following twice
// is a client error (409), not an idempotent success.
func (s *FollowService) Follow(ctx context.Context, viewer *model.User, followingID string) (int64, error) {
	followingID = strings.TrimSpace(followingID)
	if followingID == "" {
		return 0, apperror.ValidationFailed("followingId", "followingId is required")
	}
	if followingID == viewer.ID {
		return 0, apperror.ValidationFailed("followingId", "you cannot follow yourself")
	}

	if _, err := s.users.GetUserByID(ctx, followingID); err != nil {
		return 0, err
	}

	follow := &model.Follow{FollowerID: viewer.ID, FollowingID: followingID}
	if err := s.follows.CreateFollow(ctx, follow); err != nil {
		return 0, err
	}

	s.logger.Info("follow created",
		slog.String("followerID", viewer.ID),
		slog.String("followingID", followingID),
	)

	return s.follows.CountFollowers(ctx, followingID)
}

// Unfollow removes the viewer → target edge. A relation that never existed
// is 404, not a no-op — the follow button state was stale.
func (s *FollowService) Unfollow(ctx context.Context, viewer *model.User, followingID string) (int64, error) {
	followingID = strings.TrimSpace(followingID)
	if followingID == "" {
		return 0, apperror.ValidationFailed("followingId", "followingId is required")
	}

	if err := s.follows.DeleteFollow(ctx, viewer.ID, followingID); err != nil {
		return 0, err
	}

	s.logger.Info("follow removed",
		slog.String("followerID", viewer.ID),
		slog.String("followingID", followingID),
	)

	count, err := s.follows.CountFollowers(ctx, followingID)
	if err != nil {
		return 0, fmt.Errorf("counting followers: %w", err)
	}
	return count, nil
}
