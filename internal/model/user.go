// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents an account provisioned from the identity provider.
//
// We use GitHub OAuth as the identity provider, so the external identity
// reference is the GitHub user ID (an integer). We still generate our own
// internal string ID (xid) for consistency with the other entities and to
// avoid tying our primary keys to a third-party's numbering scheme. The
// UNIQUE constraint on github_id in the DB ensures one GitHub account maps
// to exactly one app account.
type User struct {
	ID        string    `json:"id"         db:"id"`
	GitHubID  int64     `json:"github_id"  db:"github_id"`  // GitHub's numeric user ID
	Login     string    `json:"login"      db:"login"`      // GitHub username, e.g. "sakif"
	Name      string    `json:"name"       db:"name"`       // Display name (may equal Login)
	AvatarURL string    `json:"avatar_url" db:"avatar_url"` // Profile picture URL
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserWithStats is a profile view: the user row plus derived counters and
// the viewer's relation to it. Nothing here is stored — every field below
// User is computed per request.
type UserWithStats struct {
	User
	PostsCount     int64 `json:"posts_count"`
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    bool  `json:"is_following"` // viewer → profile user; always false for self
	IsMe           bool  `json:"is_me"`
}
