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

// compile-time check that *DB implements repository.CommentRepository
var _ repository.CommentRepository = (*DB)(nil)

const commentColumns = `
	c.id, c.post_id, c.user_id, c.content, c.created_at, c.updated_at,
	u.id, u.github_id, u.login, u.name, u.avatar_url, u.created_at, u.updated_at`

// CreateComment inserts a comment and reads the author back so the response
// can carry the joined user without a second round trip from the caller.
func (db *DB) CreateComment(ctx context.Context, comment *model.Comment) error {
	comment.ID = xid.New().String()

	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, user_id, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		comment.ID,
		comment.PostID,
		comment.UserID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating comment: %w", err)
	}

	if comment.User == nil {
		user, err := db.GetUserByID(ctx, comment.UserID)
		if err != nil {
			return fmt.Errorf("sqlite: loading comment author: %w", err)
		}
		comment.User = user
	}

	return nil
}

// GetCommentByID retrieves a single comment with its author joined.
func (db *DB) GetCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+commentColumns+`
		 FROM comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.id = ?`,
		id,
	)

	comment, err := scanComment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", id, err)
	}

	return comment, nil
}

// ListComments retrieves a post's comments newest-first with authors joined.
func (db *DB) ListComments(ctx context.Context, postID string, opts repository.ListOptions) ([]model.Comment, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+commentColumns+`
		 FROM comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.post_id = ?
		 ORDER BY c.created_at DESC, c.id DESC
		 LIMIT ? OFFSET ?`,
		postID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments: %w", err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0, limit)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return comments, nil
}

// CountComments returns the live comment count for a post.
func (db *DB) CountComments(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting comments for post %s: %w", postID, err)
	}
	return count, nil
}

// DeleteComment removes a comment by ID. Ownership is checked in the service
// layer before this is called.
func (db *DB) DeleteComment(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM comments WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comment %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("comment", id)
	}

	return nil
}

func scanComment(s scanner) (*model.Comment, error) {
	var c model.Comment
	var u model.User
	err := s.Scan(
		&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
		&u.ID, &u.GitHubID, &u.Login, &u.Name, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.User = &u
	return &c, nil
}
