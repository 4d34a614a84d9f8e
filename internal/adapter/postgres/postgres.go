// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// ChangesChannel is the LISTEN/NOTIFY channel written on every change. The
// payload is the user id.
const ChangesChannel = "fitreport_changes"

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS users (id TEXT PRIMARY KEY, username TEXT UNIQUE NOT NULL, password_hash TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS sessions (token TEXT PRIMARY KEY, user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE, user_agent TEXT NOT NULL DEFAULT '', ip TEXT NOT NULL DEFAULT '', expires_at TIMESTAMPTZ NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
		// Keys are raw day keys and values raw text: imported data may hold
		// keys or weights the engine has to reject on read.
		"CREATE TABLE IF NOT EXISTS weights (user_id TEXT NOT NULL, day TEXT NOT NULL, value TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL, PRIMARY KEY (user_id, day));",
		"CREATE INDEX IF NOT EXISTS idx_weights_created_at ON weights(user_id, created_at);",
		"CREATE TABLE IF NOT EXISTS nutrition_days (user_id TEXT NOT NULL, day TEXT NOT NULL, totals JSONB, exercises JSONB, updated_at TIMESTAMPTZ NOT NULL, PRIMARY KEY (user_id, day));",
		"CREATE TABLE IF NOT EXISTS profiles (user_id TEXT PRIMARY KEY, data JSONB NOT NULL, updated_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS reviews (user_id TEXT NOT NULL, day TEXT NOT NULL, text TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL, PRIMARY KEY (user_id, day));",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// notify queues a change notification for userID. Inside a transaction it is
// delivered on commit.
func notify(ctx context.Context, ex execer, userID string) error {
	if _, err := ex.ExecContext(ctx, "SELECT pg_notify($1, $2);", ChangesChannel, userID); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

// inTx runs fn in a transaction followed by a change notification for
// userID.
func (d *DB) inTx(ctx context.Context, userID string, fn func(tx *sql.Tx) error) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := notify(ctx, tx, userID); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
