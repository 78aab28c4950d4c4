// Package store keeps the local SQLite ledger of records a run created on
// the appliance, so leftovers can be cleaned up after an aborted run.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Entry is one record created on the appliance.
type Entry struct {
	Kind      string
	Name      string
	Href      string
	CreatedAt time.Time
}

// Ledger records created entities in SQLite.
type Ledger struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
	log    *zap.Logger
}

// OpenLedger opens (creating if needed) the ledger database at path.
func OpenLedger(path string, logger *zap.Logger) (*Ledger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: an in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	l := &Ledger{db: db, dbPath: path, log: logger}
	if err := l.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Ledger) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS created_entities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		href TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(kind, name)
	);
	CREATE INDEX IF NOT EXISTS idx_created_kind ON created_entities(kind);
	`
	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create ledger schema: %w", err)
	}
	return nil
}

// Record notes that kind/name now exists on the appliance.
func (l *Ledger) Record(ctx context.Context, kind, name, href string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO created_entities (kind, name, href, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(kind, name) DO UPDATE SET href = excluded.href, created_at = excluded.created_at`,
		kind, name, href, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record %s %s: %w", kind, name, err)
	}
	l.log.Debug("ledger record", zap.String("kind", kind), zap.String("name", name))
	return nil
}

// Forget removes kind/name, typically after it was deleted.
func (l *Ledger) Forget(ctx context.Context, kind, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.db.ExecContext(ctx, `DELETE FROM created_entities WHERE kind = ? AND name = ?`, kind, name); err != nil {
		return fmt.Errorf("forget %s %s: %w", kind, name, err)
	}
	return nil
}

// List returns the recorded entries of kind, oldest first. An empty kind lists all.
func (l *Ledger) List(ctx context.Context, kind string) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	query := `SELECT kind, name, href, created_at FROM created_entities`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at, id`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Kind, &e.Name, &e.Href, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Path returns the database path.
func (l *Ledger) Path() string { return l.dbPath }

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}
