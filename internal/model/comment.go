package model

import "time"

// Comment is a user's remark on a post. Content is stored already trimmed;
// the service layer rejects whitespace-only input before it gets here.
type Comment struct {
	ID        string    `json:"id"         db:"id"`
	PostID    string    `json:"post_id"    db:"post_id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	Content   string    `json:"content"    db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// User is the author, populated by list queries via a join.
	User *User `json:"user,omitempty"`
}
