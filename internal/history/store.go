// Package history provides an optional embedded store that records every
// answered question for later inspection from the CLI.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS asks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	question TEXT NOT NULL,
	locale TEXT NOT NULL,
	answer TEXT NOT NULL,
	source TEXT NOT NULL,
	degraded INTEGER NOT NULL DEFAULT 0,
	cached INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_asks_created_at ON asks (created_at);
`

// Entry is one recorded question/answer pair.
type Entry struct {
	ID         int64     `db:"id"`
	Question   string    `db:"question"`
	Locale     string    `db:"locale"`
	Answer     string    `db:"answer"`
	Source     string    `db:"source"`
	Degraded   bool      `db:"degraded"`
	Cached     bool      `db:"cached"`
	DurationMs int64     `db:"duration_ms"`
	CreatedAt  time.Time `db:"created_at"`
}

type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the sqlite database at path and bootstraps the
// schema.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open > %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent inserts.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Exec schema > %w", err)
	}
	return &Store{db: db}, nil
}

func (store *Store) Close() error {
	return store.db.Close()
}

// Record inserts one answered question.
func (store *Store) Record(ctx context.Context, entry Entry) error {
	_, err := store.db.NamedExecContext(ctx, `
		INSERT INTO asks (question, locale, answer, source, degraded, cached, duration_ms)
		VALUES (:question, :locale, :answer, :source, :degraded, :cached, :duration_ms)`,
		entry,
	)
	if err != nil {
		return fmt.Errorf("db.NamedExecContext > %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (store *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []Entry
	if err := store.db.SelectContext(ctx, &entries, `
		SELECT id, question, locale, answer, source, degraded, cached, duration_ms, created_at
		FROM asks ORDER BY created_at DESC, id DESC LIMIT ?`, limit,
	); err != nil {
		return nil, fmt.Errorf("db.SelectContext > %w", err)
	}
	return entries, nil
}
