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

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Upsert inserts or updates a user keyed by their GitHub ID.
//
// We first look up any existing row so a returning user keeps their internal
// ID — the GitHub profile fields (login, name, avatar) are refreshed on every
// login in case they changed upstream.
func (db *DB) Upsert(ctx context.Context, user *model.User) error {
	var existingID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE github_id = ?`, user.GitHubID,
	).Scan(&existingID)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user by github_id %d: %w", user.GitHubID, err)
	}

	if existingID != "" {
		user.ID = existingID
		user.UpdatedAt = time.Now()
		_, err = db.conn.ExecContext(ctx,
			`UPDATE users SET login = ?, name = ?, avatar_url = ?, updated_at = ?
			 WHERE id = ?`,
			user.Login,
			user.Name,
			user.AvatarURL,
			user.UpdatedAt,
			user.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}
	} else {
		now := time.Now()
		user.ID = xid.New().String()
		user.CreatedAt = now
		user.UpdatedAt = now

		_, err = db.conn.ExecContext(ctx,
			`INSERT INTO users (id, github_id, login, name, avatar_url, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			user.ID,
			user.GitHubID,
			user.Login,
			user.Name,
			user.AvatarURL,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting user (githubID=%d): %w", user.GitHubID, err)
		}
	}

	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByGitHubID retrieves a user by their external identity reference.
// Returns apperror.ErrNotFound when the identity has never been provisioned.
func (db *DB) GetUserByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	return db.getUser(ctx, `WHERE github_id = ?`, githubID)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, github_id, login, name, avatar_url, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.GitHubID,
		&u.Login,
		&u.Name,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user %v: %w", arg, err)
	}

	return &u, nil
}

// CountPosts counts the posts owned by a user, for profile stats.
func (db *DB) CountPosts(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE user_id = ?`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting posts for user %s: %w", userID, err)
	}
	return count, nil
}
