package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/photofeed/internal/apperror"
	"github.com/sakif/photofeed/internal/model"
)

func TestCreateLike(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, 1, "alice")
	post := createTestPost(t, db, user.ID, "likeable")

	like := &model.Like{PostID: post.ID, UserID: user.ID}
	if err := db.CreateLike(context.Background(), like); err != nil {
		t.Fatalf("CreateLike() error = %v", err)
	}
	if like.ID == "" {
		t.Error("CreateLike() did not set like.ID")
	}

	exists, err := db.LikeExists(context.Background(), post.ID, user.ID)
	if err != nil {
		t.Fatalf("LikeExists() error = %v", err)
	}
	if !exists {
		t.Error("LikeExists() = false after create")
	}
}

func TestCreateLike_DuplicateIsConflict(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, 1, "alice")
	post := createTestPost(t, db, user.ID, "likeable")

	first := &model.Like{PostID: post.ID, UserID: user.ID}
	if err := db.CreateLike(context.Background(), first); err != nil {
		t.Fatalf("CreateLike() error = %v", err)
	}

	second := &model.Like{PostID: post.ID, UserID: user.ID}
	err := db.CreateLike(context.Background(), second)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate like error = %v, want ErrConflict", err)
	}
}

func TestDeleteLike(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, 1, "alice")
	post := createTestPost(t, db, user.ID, "likeable")

	like := &model.Like{PostID: post.ID, UserID: user.ID}
	if err := db.CreateLike(context.Background(), like); err != nil {
		t.Fatalf("CreateLike() error = %v", err)
	}

	affected, err := db.DeleteLike(context.Background(), post.ID, user.ID)
	if err != nil {
		t.Fatalf("DeleteLike() error = %v", err)
	}
	if affected != 1 {
		t.Errorf("DeleteLike() affected = %d, want 1", affected)
	}

	exists, err := db.LikeExists(context.Background(), post.ID, user.ID)
	if err != nil {
		t.Fatalf("LikeExists() error = %v", err)
	}
	if exists {
		t.Error("LikeExists() = true after delete")
	}
}

func TestDeleteLike_MissingIsNoOp(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, 1, "alice")
	post := createTestPost(t, db, user.ID, "likeable")

	affected, err := db.DeleteLike(context.Background(), post.ID, user.ID)
	if err != nil {
		t.Fatalf("DeleteLike() error = %v, want nil for missing like", err)
	}
	if affected != 0 {
		t.Errorf("DeleteLike() affected = %d, want 0", affected)
	}
}

func TestCountLikes(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, 1, "alice")
	bob := createTestUser(t, db, 2, "bob")
	post := createTestPost(t, db, alice.ID, "popular")

	for _, u := range []*model.User{alice, bob} {
		like := &model.Like{PostID: post.ID, UserID: u.ID}
		if err := db.CreateLike(context.Background(), like); err != nil {
			t.Fatalf("CreateLike() error = %v", err)
		}
	}

	count, err := db.CountLikes(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("CountLikes() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountLikes() = %d, want 2", count)
	}
}
