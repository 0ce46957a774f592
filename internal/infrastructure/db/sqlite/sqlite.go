// Package sqlite provides the relational store behind the API: connection
// setup, idempotent schema initialization, and one repository per aggregate.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to open the database.
type Config struct {
	// Path is the database file. Use ":memory:" for tests.
	Path    string
	Timeout time.Duration
}

// Open opens the SQLite database, enables foreign key enforcement and WAL,
// verifies connectivity with a ping, and ensures the schema exists. Any
// failure here is fatal to application startup.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sql.Open("sqlite", cfg.Path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	if err := InitSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// schema holds the DDL executed on every startup. Every statement is
// idempotent, so re-running the whole set is safe.
//
// Primary keys are externally supplied identifiers; rows are soft-deleted
// by clearing is_active, never removed.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		document TEXT,
		address TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL DEFAULT 'user',
		password_hash TEXT,
		client_id TEXT REFERENCES clients(id),
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES clients(id),
		name TEXT NOT NULL,
		asset_type TEXT,
		location TEXT,
		status TEXT NOT NULL DEFAULT 'operating',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS work_orders (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES clients(id),
		asset_id TEXT REFERENCES assets(id),
		title TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'open',
		opened_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		closed_at DATETIME,
		created_by TEXT REFERENCES users(id),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_clients_document ON clients(document)`,
	`CREATE INDEX IF NOT EXISTS idx_assets_client ON assets(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_orders_client ON work_orders(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_orders_status ON work_orders(status)`,

	`CREATE TABLE IF NOT EXISTS import_jobs (
		id TEXT PRIMARY KEY,
		entity TEXT NOT NULL,
		mode TEXT NOT NULL DEFAULT 'upsert',
		status TEXT NOT NULL DEFAULT 'queued',
		file_url TEXT NOT NULL,
		file_name TEXT NOT NULL,
		file_size INTEGER NOT NULL DEFAULT 0,
		file_hash TEXT NOT NULL,
		created_by TEXT REFERENCES users(id),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		started_at DATETIME,
		finished_at DATETIME,
		summary_json TEXT,
		UNIQUE (entity, file_hash)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_import_jobs_entity ON import_jobs(entity)`,
	`CREATE INDEX IF NOT EXISTS idx_import_jobs_status ON import_jobs(status)`,
	`CREATE TABLE IF NOT EXISTS import_row_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		import_job_id TEXT NOT NULL REFERENCES import_jobs(id),
		row_number INTEGER NOT NULL,
		field TEXT,
		message TEXT NOT NULL,
		severity TEXT NOT NULL DEFAULT 'error',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_import_row_errors_job ON import_row_errors(import_job_id)`,
	`CREATE TABLE IF NOT EXISTS export_jobs (
		id TEXT PRIMARY KEY,
		entity TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'queued',
		file_url TEXT,
		file_name TEXT,
		file_size INTEGER,
		created_by TEXT REFERENCES users(id),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		started_at DATETIME,
		finished_at DATETIME,
		exported INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_export_jobs_entity ON export_jobs(entity)`,
	`CREATE INDEX IF NOT EXISTS idx_export_jobs_status ON export_jobs(status)`,
}

// InitSchema executes the DDL set. Safe to call on every startup.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return nil
}
