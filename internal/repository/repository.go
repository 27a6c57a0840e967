// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage is the concrete implementation; tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/photofeed/internal/model"
)

// ListOptions is the offset/limit window for list queries. Callers are
// expected to clamp values before passing them down; the implementations
// apply defensive defaults anyway.
type ListOptions struct {
	Limit  int
	Offset int
}

// PostListOptions extends ListOptions with an optional owner filter
// (profile grids fetch a single user's posts).
type PostListOptions struct {
	ListOptions
	UserID string // empty = all users
}

type UserRepository interface {
	// Upsert inserts a user keyed by their GitHub ID, or refreshes the
	// mutable profile fields if the account already exists.
	Upsert(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
	CountPosts(ctx context.Context, userID string) (int64, error)
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	// GetPostByID returns the post with its owning user joined.
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	// ListPosts returns posts newest-first with their owning users joined.
	ListPosts(ctx context.Context, opts PostListOptions) ([]model.Post, error)
	// CountPosts counts all posts, or one user's when opts.UserID is set.
	// Used for the hasMore pagination probe.
	CountAllPosts(ctx context.Context, userID string) (int64, error)
	DeletePost(ctx context.Context, id string) error
}

type LikeRepository interface {
	CreateLike(ctx context.Context, like *model.Like) error
	// DeleteLike removes the (post, user) like if present. Deleting a
	// nonexistent like is a silent no-op; it reports rows affected so
	// callers that care can tell.
	DeleteLike(ctx context.Context, postID, userID string) (int64, error)
	LikeExists(ctx context.Context, postID, userID string) (bool, error)
	CountLikes(ctx context.Context, postID string) (int64, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id string) (*model.Comment, error)
	// ListComments returns a post's comments newest-first with authors joined.
	ListComments(ctx context.Context, postID string, opts ListOptions) ([]model.Comment, error)
	CountComments(ctx context.Context, postID string) (int64, error)
	DeleteComment(ctx context.Context, id string) error
}

type FollowRepository interface {
	// CreateFollow inserts a follow edge. A duplicate pair surfaces as
	// apperror.ErrConflict (mapped from the UNIQUE violation).
	CreateFollow(ctx context.Context, follow *model.Follow) error
	// DeleteFollow removes the edge, returning apperror.ErrNotFound when
	// no relation existed.
	DeleteFollow(ctx context.Context, followerID, followingID string) error
	FollowExists(ctx context.Context, followerID, followingID string) (bool, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}
