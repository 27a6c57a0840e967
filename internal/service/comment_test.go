package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sakif/photofeed/internal/apperror"
)

func TestCommentCreate(t *testing.T) {
	repo := newMockRepo()
	viewer := addUser(t, repo, 1, "alice")
	post := addPost(t, repo, viewer.ID, "commentable")
	svc := NewCommentService(repo, repo, testLogger())

	comment, err := svc.Create(context.Background(), viewer, post.ID, "  great shot  ")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if comment.Content != "great shot" {
		t.Errorf("Content = %q, want trimmed %q", comment.Content, "great shot")
	}
	if comment.User == nil || comment.User.ID != viewer.ID {
		t.Error("Create() did not attach the author")
	}
}

func TestCommentCreate_WhitespaceOnlyIsRejected(t *testing.T) {
	repo := newMockRepo()
	viewer := addUser(t, repo, 1, "alice")
	post := addPost(t, repo, viewer.ID, "commentable")
	svc := NewCommentService(repo, repo, testLogger())

	_, err := svc.Create(context.Background(), viewer, post.ID, "   \n\t  ")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestCommentCreate_MissingPostIsNotFound(t *testing.T) {
	repo := newMockRepo()
	viewer := addUser(t, repo, 1, "alice")
	svc := NewCommentService(repo, repo, testLogger())

	_, err := svc.Create(context.Background(), viewer, "missing", "hello")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCommentList_HasMore(t *testing.T) {
	repo := newMockRepo()
	viewer := addUser(t, repo, 1, "alice")
	post := addPost(t, repo, viewer.ID, "commentable")
	svc := NewCommentService(repo, repo, testLogger())

	for i := 0; i < 7; i++ {
		if _, err := svc.Create(context.Background(), viewer, post.ID, fmt.Sprintf("comment %d", i)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	comments, hasMore, err := svc.List(context.Background(), post.ID, 5, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(comments) != 5 {
		t.Errorf("len(comments) = %d, want 5", len(comments))
	}
	if !hasMore {
		t.Error("hasMore = false with 2 comments remaining")
	}

	comments, hasMore, err = svc.List(context.Background(), post.ID, 5, 5)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(comments) != 2 {
		t.Errorf("len(comments) = %d, want 2", len(comments))
	}
	if hasMore {
		t.Error("hasMore = true on the last page")
	}
}

func TestCommentList_DefaultLimit(t *testing.T) {
	repo := newMockRepo()
	viewer := addUser(t, repo, 1, "alice")
	post := addPost(t, repo, viewer.ID, "commentable")
	svc := NewCommentService(repo, repo, testLogger())

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), viewer, post.ID, "hi"); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	comments, hasMore, err := svc.List(context.Background(), post.ID, 0, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(comments) != 3 {
		t.Errorf("len(comments) = %d with limit=0, want 3", len(comments))
	}
	if hasMore {
		t.Error("hasMore = true, want false")
	}
}

func TestCommentList_MissingPostIsNotFound(t *testing.T) {
	repo := newMockRepo()
	svc := NewCommentService(repo, repo, testLogger())

	_, _, err := svc.List(context.Background(), "missing", 10, 0)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCommentDelete(t *testing.T) {
	repo := newMockRepo()
	viewer := addUser(t, repo, 1, "alice")
	post := addPost(t, repo, viewer.ID, "commentable")
	svc := NewCommentService(repo, repo, testLogger())

	comment, err := svc.Create(context.Background(), viewer, post.ID, "gone soon")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(context.Background(), viewer, comment.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err = repo.GetCommentByID(context.Background(), comment.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Error("comment still present after delete")
	}
}

func TestCommentDelete_NonAuthorIsForbidden(t *testing.T) {
	repo := newMockRepo()
	alice := addUser(t, repo, 1, "alice")
	bob := addUser(t, repo, 2, "bob")
	// Alice owns the post; bob comments on it. Owning the post does not
	// grant delete rights over the comment.
	post := addPost(t, repo, alice.ID, "my post")
	svc := NewCommentService(repo, repo, testLogger())

	comment, err := svc.Create(context.Background(), bob, post.ID, "bob's words")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err = svc.Delete(context.Background(), alice, comment.ID)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestCommentDelete_MissingIsNotFound(t *testing.T) {
	repo := newMockRepo()
	viewer := addUser(t, repo, 1, "alice")
	svc := NewCommentService(repo, repo, testLogger())

	err := svc.Delete(context.Background(), viewer, "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
