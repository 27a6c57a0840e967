package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/photofeed/internal/apperror"
	"github.com/sakif/photofeed/internal/model"
	"github.com/sakif/photofeed/internal/repository"
)

// compile-time check that *DB implements repository.PostRepository
var _ repository.PostRepository = (*DB)(nil)

// postColumns is the join projection shared by GetPostByID and ListPosts.
// Column order must match scanPost.
const postColumns = `
	p.id, p.user_id, p.image_url, p.caption, p.created_at, p.updated_at,
	u.id, u.github_id, u.login, u.name, u.avatar_url, u.created_at, u.updated_at`

// CreatePost inserts a new post. The ID and timestamps are set here and
// written back through the pointer, same as the rest of the Create methods.
func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, image_url, caption, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		post.ImageURL,
		post.Caption,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	return nil
}

// GetPostByID retrieves a single post with its owning user joined.
func (db *DB) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.id = ?`,
		id,
	)

	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	return post, nil
}

// ListPosts retrieves posts newest-first with owners joined.
//
// Ordering is created_at DESC with the id as tie-break — xid values are
// time-ordered, so two posts created in the same timestamp tick still come
// back in a stable order.
func (db *DB) ListPosts(ctx context.Context, opts repository.PostListOptions) ([]model.Post, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + postColumns + `
		 FROM posts p
		 JOIN users u ON u.id = p.user_id`
	args := []any{}
	if opts.UserID != "" {
		query += ` WHERE p.user_id = ?`
		args = append(args, opts.UserID)
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0, limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// CountAllPosts counts posts, optionally filtered to one owner. This is the
// total the pagination probe compares offset+limit against.
func (db *DB) CountAllPosts(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COUNT(*) FROM posts`
	args := []any{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}

	var count int64
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: counting posts: %w", err)
	}
	return count, nil
}

// DeletePost removes a post. Dependent likes and comments go with it via
// the ON DELETE CASCADE rules — nothing here touches those tables.
func (db *DB) DeletePost(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*model.Post, error) {
	var p model.Post
	var u model.User
	err := s.Scan(
		&p.ID, &p.UserID, &p.ImageURL, &p.Caption, &p.CreatedAt, &p.UpdatedAt,
		&u.ID, &u.GitHubID, &u.Login, &u.Name, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.User = &u
	return &p, nil
}
