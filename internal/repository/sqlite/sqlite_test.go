package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/sakif/photofeed/internal/model"
)

// newTestDB creates a fresh in-memory database per test. Fast, isolated,
// destroyed when the connection closes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser provisions a user with a unique GitHub ID.
func createTestUser(t *testing.T, db *DB, githubID int64, login string) *model.User {
	t.Helper()
	user := &model.User{
		GitHubID:  githubID,
		Login:     login,
		Name:      login,
		AvatarURL: fmt.Sprintf("https://example.com/%s.png", login),
	}
	if err := db.Upsert(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestPost inserts a post owned by the given user.
func createTestPost(t *testing.T, db *DB, userID, caption string) *model.Post {
	t.Helper()
	post := &model.Post{
		UserID:   userID,
		ImageURL: "http://localhost:8080/media/posts/1/img.jpg",
		Caption:  caption,
	}
	if err := db.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}
