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

// compile-time check that *DB implements repository.FollowRepository
var _ repository.FollowRepository = (*DB)(nil)

// CreateFollow inserts a follow edge. The UNIQUE(follower_id, following_id)
// index is the only duplicate guard — a violation maps to ErrConflict, which
// the API surfaces as 409 "already following".
func (db *DB) CreateFollow(ctx context.Context, follow *model.Follow) error {
	follow.ID = xid.New().String()
	follow.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO follows (id, follower_id, following_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		follow.ID,
		follow.FollowerID,
		follow.FollowingID,
		follow.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("already following")
		}
		return fmt.Errorf("sqlite: creating follow: %w", err)
	}

	return nil
}

// DeleteFollow removes a follow edge. Unlike DeleteLike, zero rows affected
// is an error here: unfollowing someone you never followed is 404.
func (db *DB) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting follow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("follow relation", followingID)
	}

	return nil
}

// FollowExists reports whether follower → following edge is present.
func (db *DB) FollowExists(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking follow existence: %w", err)
	}
	return count > 0, nil
}

// CountFollowers counts edges pointing at userID (people following them).
func (db *DB) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE following_id = ?`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting followers for user %s: %w", userID, err)
	}
	return count, nil
}

// CountFollowing counts edges leaving userID (people they follow).
func (db *DB) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ?`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting following for user %s: %w", userID, err)
	}
	return count, nil
}
