package state

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	errs "github.com/oitsjustjose/MC-Docker/internal/errors"
	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
)

// Manager journals lifecycle operations and remembers the options each server
// was created with, so backups and recreations can reuse them. Backed by a
// single SQLite file.
type Manager struct {
	db *sql.DB
}

var _ interfaces.StateManager = (*Manager)(nil)

// NewManager opens the journal database at dbPath, creating the file and
// schema as needed.
func NewManager(dbPath string) (*Manager, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errs.NewGenericError("failed to open state database", err)
	}

	// Ping early to surface a missing parent directory or permission problem
	// before the first write.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errs.NewGenericError("state database is inaccessible", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS server_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		server TEXT NOT NULL,
		operation TEXT NOT NULL,
		outcome TEXT NOT NULL,
		detail TEXT,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS server_options (
		server TEXT PRIMARY KEY,
		options TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		if isCorruptionError(err) {
			return nil, errs.NewGenericError("state database is corrupted and cannot be initialized", err)
		}
		return nil, errs.NewGenericError("failed to create state schema", err)
	}

	return &Manager{db: db}, nil
}

// isCorruptionError checks if an error indicates database corruption
func isCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database disk image is malformed") ||
		strings.Contains(msg, "file is not a database") ||
		strings.Contains(msg, "database corruption")
}

// RecordEvent appends one journal row for a lifecycle operation.
func (m *Manager) RecordEvent(server, operation, outcome, detail string) error {
	if m.db == nil {
		return errs.NewGenericError("state database not initialized", nil)
	}

	if _, err := m.db.Exec(
		"INSERT INTO server_events (server, operation, outcome, detail, created_at) VALUES (?, ?, ?, ?, ?)",
		server, operation, outcome, detail, time.Now(),
	); err != nil {
		return errs.NewGenericError("failed to record server event", err)
	}
	return nil
}

// Events returns journal rows newest first, optionally filtered to one server.
// A non-positive limit returns every row.
func (m *Manager) Events(server string, limit int) ([]interfaces.ServerEvent, error) {
	if m.db == nil {
		return nil, errs.NewGenericError("state database not initialized", nil)
	}

	query := "SELECT id, server, operation, outcome, detail, created_at FROM server_events"
	args := []interface{}{}
	if server != "" {
		query += " WHERE server = ?"
		args = append(args, server)
	}
	query += " ORDER BY id DESC LIMIT ?"
	if limit <= 0 {
		// A negative LIMIT tells SQLite to return every row.
		limit = -1
	}
	args = append(args, limit)

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, errs.NewGenericError("failed to query server events", err)
	}
	defer rows.Close()

	var events []interfaces.ServerEvent
	for rows.Next() {
		var ev interfaces.ServerEvent
		var detail sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Server, &ev.Operation, &ev.Outcome, &detail, &ev.CreatedAt); err != nil {
			return nil, errs.NewGenericError("failed to scan server event row", err)
		}
		ev.Detail = detail.String
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewGenericError("failed to iterate server events", err)
	}

	return events, nil
}

// SaveOptions stores the full option set for a server, replacing any previous
// set for the same name.
func (m *Manager) SaveOptions(opts interfaces.ServerOptions) error {
	if m.db == nil {
		return errs.NewGenericError("state database not initialized", nil)
	}
	if opts.Name == "" {
		return errs.NewValidationError("server name is required")
	}

	payload, err := json.Marshal(opts)
	if err != nil {
		return errs.NewGenericError("failed to encode server options", err)
	}

	if _, err := m.db.Exec(
		"INSERT OR REPLACE INTO server_options (server, options, updated_at) VALUES (?, ?, ?)",
		opts.Name, string(payload), time.Now(),
	); err != nil {
		return errs.NewGenericError("failed to save server options", err)
	}
	return nil
}

// LoadOptions retrieves the stored option set for a server.
func (m *Manager) LoadOptions(server string) (*interfaces.ServerOptions, error) {
	if m.db == nil {
		return nil, errs.NewGenericError("state database not initialized", nil)
	}

	var payload string
	err := m.db.QueryRow("SELECT options FROM server_options WHERE server = ?", server).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errs.NewNotFoundError("no saved options for server " + server)
	}
	if err != nil {
		return nil, errs.NewGenericError("failed to load server options", err)
	}

	var opts interfaces.ServerOptions
	if err := json.Unmarshal([]byte(payload), &opts); err != nil {
		return nil, errs.NewGenericError("failed to decode server options", err)
	}
	return &opts, nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}

	if err := m.db.Close(); err != nil {
		return errs.NewGenericError("failed to close state database", err)
	}

	m.db = nil
	return nil
}
