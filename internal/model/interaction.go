package model

import "time"

// Like marks that a user liked a post. At most one row exists per
// (post, user) pair — enforced by a UNIQUE index in the database.
type Like struct {
	ID        string    `json:"id"         db:"id"`
	PostID    string    `json:"post_id"    db:"post_id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Follow is a directed edge: FollowerID follows FollowingID.
// Self-follows are rejected before insert; duplicates are blocked by a
// UNIQUE index on (follower_id, following_id).
type Follow struct {
	ID          string    `json:"id"           db:"id"`
	FollowerID  string    `json:"follower_id"  db:"follower_id"`
	FollowingID string    `json:"following_id" db:"following_id"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
}
