package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vovakirdan/hangrelay/internal/store"
)

// Schema creates the activity table if it does not exist.
const Schema = `
CREATE TABLE IF NOT EXISTS activity (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	scope      TEXT NOT NULL,
	room       TEXT NOT NULL,
	client_id  TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	kind       TEXT NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activity_room ON activity(room, id DESC);
`

const defaultListLimit = 50

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(Schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; also keeps :memory: shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordActivity appends an activity entry.
func (s *SQLiteStore) RecordActivity(ctx context.Context, a *store.Activity) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO activity (scope, room, client_id, name, kind, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		a.Scope, a.Room, a.ClientID, a.Name, string(a.Kind), a.Reason, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	a.ID = id
	return nil
}

// ListActivity returns the newest entries first.
func (s *SQLiteStore) ListActivity(ctx context.Context, room string, limit int) ([]*store.Activity, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT id, scope, room, client_id, name, kind, reason, created_at
		FROM activity
		WHERE (? = '' OR room = ?)
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, room, room, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	out := make([]*store.Activity, 0, limit)
	for rows.Next() {
		var (
			a    store.Activity
			kind string
		)
		if err := rows.Scan(&a.ID, &a.Scope, &a.Room, &a.ClientID, &a.Name, &kind, &a.Reason, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Kind = store.ActivityKind(kind)
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}
	return out, nil
}
