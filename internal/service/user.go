// Package service contains the business logic layer: identity resolution,
// feed/profile aggregation, pagination, and the ownership-gated mutations.
//
// Handlers parse HTTP and delegate here; repositories do the SQL. Services
// accept primitives and models, return domain errors from apperror, and know
// nothing about status codes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sakif/photofeed/internal/apperror"
	"github.com/sakif/photofeed/internal/model"
	"github.com/sakif/photofeed/internal/repository"
)

// UserService resolves identities and assembles profile views.
type UserService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	logger  *slog.Logger
}

func NewUserService(users repository.UserRepository, follows repository.FollowRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:   users,
		follows: follows,
		logger:  logger,
	}
}

// ResolveViewer maps a verified external identity to the internal user row.
//
// The auth middleware guarantees the identity itself is genuine; what it
// cannot guarantee is that provisioning ever happened. A missing row comes
// back as ErrNotFound, which the API surfaces as 404 — the session is valid
// but points at nobody.
func (s *UserService) ResolveViewer(ctx context.Context, githubID int64) (*model.User, error) {
	if githubID == 0 {
		return nil, apperror.Unauthorized("authentication required")
	}
	return s.users.GetUserByGitHubID(ctx, githubID)
}

// Profile assembles the aggregated profile view for a user identified by
// either their internal ID or their external identity.
//
// Dual-ID dereferencing: GitHub IDs are numeric and internal xids are not,
// so a param that parses as an int64 tries the external lookup first and
// falls back to the internal one. Anything non-numeric can only be internal.
func (s *UserService) Profile(ctx context.Context, viewer *model.User, userID string) (*model.UserWithStats, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	target, err := s.resolveTarget(ctx, userID)
	if err != nil {
		return nil, err
	}

	postsCount, err := s.users.CountPosts(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("profile stats: %w", err)
	}
	followersCount, err := s.follows.CountFollowers(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("profile stats: %w", err)
	}
	followingCount, err := s.follows.CountFollowing(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("profile stats: %w", err)
	}

	isMe := target.ID == viewer.ID
	isFollowing := false
	if !isMe {
		isFollowing, err = s.follows.FollowExists(ctx, viewer.ID, target.ID)
		if err != nil {
			return nil, fmt.Errorf("profile stats: %w", err)
		}
	}

	return &model.UserWithStats{
		User:           *target,
		PostsCount:     postsCount,
		FollowersCount: followersCount,
		FollowingCount: followingCount,
		IsFollowing:    isFollowing,
		IsMe:           isMe,
	}, nil
}

func (s *UserService) resolveTarget(ctx context.Context, userID string) (*model.User, error) {
	if githubID, err := strconv.ParseInt(userID, 10, 64); err == nil {
		if user, err := s.users.GetUserByGitHubID(ctx, githubID); err == nil {
			return user, nil
		}
		// Numeric but not a known external identity — fall through and
		// treat it as an internal ID.
	}
	return s.users.GetUserByID(ctx, userID)
}
