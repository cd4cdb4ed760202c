package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// Schema for the on-device cache. Executed at startup; idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	venue TEXT NOT NULL DEFAULT '',
	date TEXT NOT NULL,
	time TEXT NOT NULL DEFAULT '',
	seat TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL DEFAULT 0,
	image_url TEXT,
	user_images TEXT NOT NULL DEFAULT '[]',
	shared_images TEXT NOT NULL DEFAULT '[]',
	notes TEXT NOT NULL DEFAULT '',
	listing_id TEXT,
	public INTEGER NOT NULL DEFAULT 0,
	liked_by TEXT NOT NULL DEFAULT '[]',
	owner_id TEXT NOT NULL DEFAULT '',
	owner_name TEXT NOT NULL DEFAULT '',
	owner_avatar TEXT
);

CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);

CREATE TABLE IF NOT EXISTS experiences (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	event_id TEXT NOT NULL,
	note TEXT,
	photo TEXT
);

CREATE INDEX IF NOT EXISTS idx_experiences_event_id ON experiences(event_id);
`

// Store is the local on-device cache backed by SQLite. It performs no
// validation; callers are responsible for well-formed input.
type Store struct {
	db      *sql.DB
	log     zerolog.Logger
	watcher *watcher
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{
		db:      db,
		log:     log,
		watcher: newWatcher(),
	}
}

// Init creates the schema if it does not exist yet.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
