package model

import "time"

// Post is an uploaded image with an optional caption. ImageURL points into
// the media store; the row never embeds image bytes.
type Post struct {
	ID        string    `json:"id"         db:"id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	ImageURL  string    `json:"image_url"  db:"image_url"`
	Caption   string    `json:"caption"    db:"caption"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// User is the owning user, populated by list/get queries via a join.
	User *User `json:"user,omitempty"`
}

// PostWithStats is a feed item: the post plus derived counts and the
// viewer's like state. Computed per request, never stored.
type PostWithStats struct {
	Post
	LikesCount    int64 `json:"likes_count"`
	CommentsCount int64 `json:"comments_count"`
	IsLiked       bool  `json:"is_liked"`
}
