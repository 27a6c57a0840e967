// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// We use modernc.org/sqlite rather than mattn/go-sqlite3 so there is no CGo
// dependency — the driver is a pure Go translation of the SQLite C code,
// which keeps cross-compilation trivial and lets tests run against
// ":memory:" databases with zero setup.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
// The server owns the lifecycle: New creates it, Close releases it on
// shutdown.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath (":memory:" for tests), configures it,
// and runs migrations.
//
// WAL mode lets reads proceed while a write is in flight, which matters for
// a web server; foreign keys are off by default in SQLite and we rely on
// them for cascading deletes (posts → likes/comments), so they are switched
// on explicitly.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Surface a bad path or permissions problem now rather than on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this safe to
// run on every start; anything more elaborate (column additions, data
// rewrites) would move to a real migration tool.
//
// Referential integrity lives here, not in application code: deleting a post
// cascades to its likes and comments, deleting a user takes everything they
// authored and every edge touching them. The UNIQUE indexes on likes and
// follows are load-bearing — the service layer treats their violation as
// "already liked" / "already following".
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			github_id  INTEGER NOT NULL UNIQUE,
			login      TEXT NOT NULL,
			name       TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS posts (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			image_url  TEXT NOT NULL,
			caption    TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_posts_user_id    ON posts(user_id);
		CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);

		CREATE TABLE IF NOT EXISTS likes (
			id         TEXT PRIMARY KEY,
			post_id    TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (post_id, user_id)
		);
		CREATE INDEX IF NOT EXISTS idx_likes_post_id ON likes(post_id);

		CREATE TABLE IF NOT EXISTS comments (
			id         TEXT PRIMARY KEY,
			post_id    TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content    TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id);

		CREATE TABLE IF NOT EXISTS follows (
			id           TEXT PRIMARY KEY,
			follower_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			following_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (follower_id, following_id)
		);
		CREATE INDEX IF NOT EXISTS idx_follows_follower_id  ON follows(follower_id);
		CREATE INDEX IF NOT EXISTS idx_follows_following_id ON follows(following_id);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// The driver is blank-imported, so we match on its error text rather than
// its error type; the message is stable across modernc.org/sqlite releases.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
