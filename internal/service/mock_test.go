package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/xid"

	"github.com/sakif/photofeed/internal/apperror"
	"github.com/sakif/photofeed/internal/model"
	"github.com/sakif/photofeed/internal/repository"
)

// mockRepo is an in-memory implementation of every repository interface,
// shared by the service tests. Error fields inject failures per method.
type mockRepo struct {
	users    map[string]*model.User    // internal ID -> user
	posts    map[string]*model.Post    // post ID -> post
	postIDs  []string                  // insertion order
	likes    map[string]bool           // "postID|userID"
	comments map[string]*model.Comment // comment ID -> comment
	commIDs  []string                  // insertion order
	follows  map[string]bool           // "followerID|followingID"

	createPostErr    error
	createLikeErr    error
	createCommentErr error
	createFollowErr  error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		users:    make(map[string]*model.User),
		posts:    make(map[string]*model.Post),
		likes:    make(map[string]bool),
		comments: make(map[string]*model.Comment),
		follows:  make(map[string]bool),
	}
}

// ==== UserRepository ====

func (m *mockRepo) Upsert(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.GitHubID == user.GitHubID {
			user.ID = u.ID
			m.users[u.ID] = user
			return nil
		}
	}
	if user.ID == "" {
		user.ID = xid.New().String()
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return user, nil
}

func (m *mockRepo) GetUserByGitHubID(_ context.Context, githubID int64) (*model.User, error) {
	for _, u := range m.users {
		if u.GitHubID == githubID {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user", fmt.Sprintf("github:%d", githubID))
}

func (m *mockRepo) CountPosts(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, p := range m.posts {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

// ==== PostRepository ====

func (m *mockRepo) CreatePost(_ context.Context, post *model.Post) error {
	if m.createPostErr != nil {
		return m.createPostErr
	}
	post.ID = xid.New().String()
	m.posts[post.ID] = post
	m.postIDs = append(m.postIDs, post.ID)
	return nil
}

func (m *mockRepo) GetPostByID(_ context.Context, id string) (*model.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	return post, nil
}

func (m *mockRepo) ListPosts(_ context.Context, opts repository.PostListOptions) ([]model.Post, error) {
	var all []model.Post
	for i := len(m.postIDs) - 1; i >= 0; i-- { // newest first
		p, ok := m.posts[m.postIDs[i]]
		if !ok { // deleted
			continue
		}
		if opts.UserID != "" && p.UserID != opts.UserID {
			continue
		}
		all = append(all, *p)
	}
	if opts.Offset >= len(all) {
		return nil, nil
	}
	all = all[opts.Offset:]
	if opts.Limit > 0 && len(all) > opts.Limit {
		all = all[:opts.Limit]
	}
	return all, nil
}

func (m *mockRepo) CountAllPosts(_ context.Context, userID string) (int64, error) {
	if userID == "" {
		return int64(len(m.posts)), nil
	}
	return m.CountPosts(context.Background(), userID)
}

func (m *mockRepo) DeletePost(_ context.Context, id string) error {
	if _, ok := m.posts[id]; !ok {
		return apperror.NotFound("post", id)
	}
	delete(m.posts, id)
	for pid := range m.likes {
		if strings.HasPrefix(pid, id+"|") {
			delete(m.likes, pid)
		}
	}
	return nil
}

// ==== LikeRepository ====

func likeKey(postID, userID string) string { return postID + "|" + userID }

func (m *mockRepo) CreateLike(_ context.Context, like *model.Like) error {
	if m.createLikeErr != nil {
		return m.createLikeErr
	}
	key := likeKey(like.PostID, like.UserID)
	if m.likes[key] {
		return apperror.Conflict("already liked")
	}
	like.ID = xid.New().String()
	m.likes[key] = true
	return nil
}

func (m *mockRepo) DeleteLike(_ context.Context, postID, userID string) (int64, error) {
	key := likeKey(postID, userID)
	if !m.likes[key] {
		return 0, nil
	}
	delete(m.likes, key)
	return 1, nil
}

func (m *mockRepo) LikeExists(_ context.Context, postID, userID string) (bool, error) {
	return m.likes[likeKey(postID, userID)], nil
}

func (m *mockRepo) CountLikes(_ context.Context, postID string) (int64, error) {
	var n int64
	for key := range m.likes {
		if strings.HasPrefix(key, postID+"|") {
			n++
		}
	}
	return n, nil
}

// ==== CommentRepository ====

func (m *mockRepo) CreateComment(_ context.Context, comment *model.Comment) error {
	if m.createCommentErr != nil {
		return m.createCommentErr
	}
	comment.ID = xid.New().String()
	m.comments[comment.ID] = comment
	m.commIDs = append(m.commIDs, comment.ID)
	return nil
}

func (m *mockRepo) GetCommentByID(_ context.Context, id string) (*model.Comment, error) {
	comment, ok := m.comments[id]
	if !ok {
		return nil, apperror.NotFound("comment", id)
	}
	return comment, nil
}

func (m *mockRepo) ListComments(_ context.Context, postID string, opts repository.ListOptions) ([]model.Comment, error) {
	var all []model.Comment
	for i := len(m.commIDs) - 1; i >= 0; i-- {
		c, ok := m.comments[m.commIDs[i]]
		if !ok { // deleted
			continue
		}
		if c.PostID == postID {
			all = append(all, *c)
		}
	}
	if opts.Offset >= len(all) {
		return nil, nil
	}
	all = all[opts.Offset:]
	if opts.Limit > 0 && len(all) > opts.Limit {
		all = all[:opts.Limit]
	}
	return all, nil
}

func (m *mockRepo) CountComments(_ context.Context, postID string) (int64, error) {
	var n int64
	for _, c := range m.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (m *mockRepo) DeleteComment(_ context.Context, id string) error {
	if _, ok := m.comments[id]; !ok {
		return apperror.NotFound("comment", id)
	}
	delete(m.comments, id)
	return nil
}

// ==== FollowRepository ====

func followKey(followerID, followingID string) string { return followerID + "|" + followingID }

func (m *mockRepo) CreateFollow(_ context.Context, follow *model.Follow) error {
	if m.createFollowErr != nil {
		return m.createFollowErr
	}
	key := followKey(follow.FollowerID, follow.FollowingID)
	if m.follows[key] {
		return apperror.Conflict("already following")
	}
	follow.ID = xid.New().String()
	m.follows[key] = true
	return nil
}

func (m *mockRepo) DeleteFollow(_ context.Context, followerID, followingID string) error {
	key := followKey(followerID, followingID)
	if !m.follows[key] {
		return apperror.NotFound("follow relation", followingID)
	}
	delete(m.follows, key)
	return nil
}

func (m *mockRepo) FollowExists(_ context.Context, followerID, followingID string) (bool, error) {
	return m.follows[followKey(followerID, followingID)], nil
}

func (m *mockRepo) CountFollowers(_ context.Context, userID string) (int64, error) {
	var n int64
	for key := range m.follows {
		if strings.HasSuffix(key, "|"+userID) {
			n++
		}
	}
	return n, nil
}

func (m *mockRepo) CountFollowing(_ context.Context, userID string) (int64, error) {
	var n int64
	for key := range m.follows {
		if strings.HasPrefix(key, userID+"|") {
			n++
		}
	}
	return n, nil
}

// ==== storage.Store mock ====

type mockStore struct {
	saved     []string // blob paths passed to Save
	removed   []string // public URLs passed to Remove
	saveErr   error
	removeErr error
}

func (m *mockStore) Save(_ context.Context, path string, r io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	m.saved = append(m.saved, path)
	return "http://localhost:8080/media/" + path, nil
}

func (m *mockStore) Remove(_ context.Context, publicURL string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, publicURL)
	return nil
}

// ==== shared helpers ====

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func addUser(t *testing.T, repo *mockRepo, githubID int64, login string) *model.User {
	t.Helper()
	user := &model.User{GitHubID: githubID, Login: login, Name: login}
	if err := repo.Upsert(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func addPost(t *testing.T, repo *mockRepo, userID, caption string) *model.Post {
	t.Helper()
	post := &model.Post{
		UserID:   userID,
		ImageURL: "http://localhost:8080/media/posts/1/img.jpg",
		Caption:  caption,
	}
	if err := repo.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return post
}
