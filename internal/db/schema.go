package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete modern schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository
// tests load it via GetSchemaSQL() so that a column referenced by adapter
// code but missing here fails immediately with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `go test ./internal/adapters/sqlite/...` to verify alignment
const SchemaSQL = `
-- Serial counters (one row per template series; count is the next number to issue)
CREATE TABLE IF NOT EXISTS serial_counters (
	prefix TEXT PRIMARY KEY,
	count INTEGER NOT NULL DEFAULT 1 CHECK(count >= 1),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Voided serials (reserved numbers whose certificate was never issued)
CREATE TABLE IF NOT EXISTS voided_serials (
	prefix TEXT NOT NULL,
	count INTEGER NOT NULL,
	serial_number TEXT NOT NULL UNIQUE,
	reason TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (prefix, count),
	FOREIGN KEY (prefix) REFERENCES serial_counters(prefix)
);

-- Certificates (append-only audit records)
CREATE TABLE IF NOT EXISTS certificates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL,
	serial_number TEXT NOT NULL UNIQUE,
	template_source TEXT NOT NULL,
	destination_reference TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	template_id TEXT NOT NULL DEFAULT '',
	artifact_reference TEXT,
	batch_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_certificates_email ON certificates(email);
CREATE INDEX IF NOT EXISTS idx_certificates_batch ON certificates(batch_id);
`

// InitSchema creates the schema on a fresh database, or runs pending
// migrations on an existing one.
func InitSchema(database *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}
	if tableCount > 0 {
		return RunMigrations(database)
	}

	// Pre-versioning databases already carry the original tables
	var oldTableCount int
	err = database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('serial_counters', 'certificates')").Scan(&oldTableCount)
	if err != nil {
		return err
	}
	if oldTableCount > 0 {
		return RunMigrations(database)
	}

	// Completely fresh install - create modern schema directly and mark
	// every migration as applied
	if _, err := database.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := ensureVersionTable(database); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
