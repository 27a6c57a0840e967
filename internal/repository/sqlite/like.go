package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/photofeed/internal/apperror"
	"github.com/sakif/photofeed/internal/model"
	"github.com/sakif/photofeed/internal/repository"
)

// compile-time check that *DB implements repository.LikeRepository
var _ repository.LikeRepository = (*DB)(nil)

// CreateLike inserts a like row. A duplicate (post, user) pair trips the
// UNIQUE index and comes back as apperror.ErrConflict — the service treats
// that as idempotent success, so the mapping here just has to be
// distinguishable from a real database failure.
func (db *DB) CreateLike(ctx context.Context, like *model.Like) error {
	like.ID = xid.New().String()
	like.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO likes (id, post_id, user_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		like.ID,
		like.PostID,
		like.UserID,
		like.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("already liked")
		}
		return fmt.Errorf("sqlite: creating like: %w", err)
	}

	return nil
}

// DeleteLike removes the viewer's like from a post. No rows matching is not
// an error — unliking something never liked is a no-op by design of the API.
func (db *DB) DeleteLike(ctx context.Context, postID, userID string) (int64, error) {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM likes WHERE post_id = ? AND user_id = ?`,
		postID, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting like: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return rowsAffected, nil
}

// LikeExists reports whether the user has liked the post.
func (db *DB) LikeExists(ctx context.Context, postID, userID string) (bool, error) {
	var count int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE post_id = ? AND user_id = ?`,
		postID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking like existence: %w", err)
	}
	return count > 0, nil
}

// CountLikes returns the live like count for a post.
func (db *DB) CountLikes(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting likes for post %s: %w", postID, err)
	}
	return count, nil
}
