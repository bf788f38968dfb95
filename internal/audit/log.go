// Package audit keeps a persistent log of security-relevant vault events.
// Recording is best-effort: an audit failure is logged but never fails
// the operation that triggered it.
package audit

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"mediavault/internal/events"
)

// Event kinds.
const (
	EventSetup              = "setup"
	EventAuthSuccess        = "auth_success"
	EventAuthFailure        = "auth_failure"
	EventImport             = "import"
	EventDelete             = "delete"
	EventFolderCreate       = "folder_create"
	EventFolderDelete       = "folder_delete"
	EventRelocate           = "relocate"
	EventWipe               = "wipe"
	EventLogout             = "logout"
	EventMetadataUnreadable = "metadata_unreadable"
)

// Event is one recorded security event. Detail never contains payload
// content or original filenames, only counts and identifiers.
type Event struct {
	ID        string
	Kind      string
	ItemID    string
	Detail    string
	CreatedAt time.Time
}

// Log is a SQLite-backed event log.
type Log struct {
	db     *sql.DB
	logger *events.Logger
}

// NewLog opens (or creates) the event database.
func NewLog(path string, logger *events.Logger) (*Log, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	log := &Log{
		db:     db,
		logger: logger.WithField("component", "audit"),
	}

	if err := log.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize audit database: %w", err)
	}

	return log, nil
}

// initialize creates the schema.
func (l *Log) initialize() error {
	schema := `
    CREATE TABLE IF NOT EXISTS security_events (
        id TEXT PRIMARY KEY,
        kind TEXT NOT NULL,
        item_id TEXT NOT NULL DEFAULT '',
        detail TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_security_events_kind
        ON security_events(kind);
    CREATE INDEX IF NOT EXISTS idx_security_events_created_at
        ON security_events(created_at);
    `

	_, err := l.db.Exec(schema)
	return err
}

// Record stores one event, best-effort.
func (l *Log) Record(kind, itemID, detail string) {
	_, err := l.db.Exec(
		`INSERT INTO security_events (id, kind, item_id, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), kind, itemID, detail, time.Now().UTC(),
	)
	if err != nil {
		l.logger.WithError(err).WithField("kind", kind).Warn("Failed to record audit event")
	}
}

// Recent returns up to limit events, newest first.
func (l *Log) Recent(limit int) ([]Event, error) {
	rows, err := l.db.Query(
		`SELECT id, kind, item_id, detail, created_at
         FROM security_events ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Kind, &ev.ItemID, &ev.Detail, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		out = append(out, ev)
	}

	return out, rows.Err()
}

// Close releases the database handle.
func (l *Log) Close() error {
	return l.db.Close()
}
