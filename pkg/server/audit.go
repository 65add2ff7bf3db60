package server

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS logins (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	at     INTEGER NOT NULL,
	name   TEXT NOT NULL,
	host   TEXT NOT NULL,
	result TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS logins_name ON logins(name);
CREATE TABLE IF NOT EXISTS commands (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	at      INTEGER NOT NULL,
	name    TEXT NOT NULL,
	command TEXT NOT NULL,
	arg     TEXT NOT NULL
);`

// AuditLog records login attempts and immortal command use in SQLite.
// A nil *AuditLog records nothing.
type AuditLog struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// LoginRecord is one row of the login history.
type LoginRecord struct {
	At     time.Time
	Name   string
	Host   string
	Result string
}

// OpenAuditLog opens a SQLite3 database, sets WAL mode and busy timeout,
// and creates the audit tables.
func OpenAuditLog(path string) (*AuditLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	// WAL lets the `last` command read while logins write
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: set busy timeout: %w", err)
	}
	if _, err := db.Exec(auditSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: create schema: %w", err)
	}
	return &AuditLog{db: db, path: path}, nil
}

// Close closes the SQLite3 database connection.
func (a *AuditLog) Close() error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.db.Close()
}

// Path returns the filesystem path of the SQLite database.
func (a *AuditLog) Path() string { return a.path }

// RecordLogin stores one login attempt.
func (a *AuditLog) RecordLogin(name, host, result string) error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.db.Exec(`INSERT INTO logins (at, name, host, result) VALUES (?, ?, ?, ?)`,
		time.Now().UnixNano(), strings.ToLower(name), host, result)
	if err != nil {
		return fmt.Errorf("audit: record login: %w", err)
	}
	return nil
}

// RecordCommand stores one use of a privileged command.
func (a *AuditLog) RecordCommand(name, command, arg string) error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.db.Exec(`INSERT INTO commands (at, name, command, arg) VALUES (?, ?, ?, ?)`,
		time.Now().UnixNano(), name, command, arg)
	if err != nil {
		return fmt.Errorf("audit: record command: %w", err)
	}
	return nil
}

// LastLogins returns up to limit login attempts, newest first. An empty
// name returns attempts for everyone.
func (a *AuditLog) LastLogins(name string, limit int) ([]LoginRecord, error) {
	if a == nil {
		return nil, nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	query := `SELECT at, name, host, result FROM logins`
	args := []any{}
	if name != "" {
		query += ` WHERE name = ?`
		args = append(args, strings.ToLower(name))
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := a.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: query logins: %w", err)
	}
	defer rows.Close()

	var out []LoginRecord
	for rows.Next() {
		var r LoginRecord
		var at int64
		if err := rows.Scan(&at, &r.Name, &r.Host, &r.Result); err != nil {
			return nil, fmt.Errorf("audit: scan login: %w", err)
		}
		r.At = time.Unix(0, at)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: read logins: %w", err)
	}
	return out, nil
}

// CommandCount returns how many privileged commands name has used.
func (a *AuditLog) CommandCount(name string) (int, error) {
	if a == nil {
		return 0, nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	var n int
	if err := a.db.QueryRow(`SELECT COUNT(*) FROM commands WHERE name = ?`, name).Scan(&n); err != nil {
		return 0, fmt.Errorf("audit: count commands: %w", err)
	}
	return n, nil
}
