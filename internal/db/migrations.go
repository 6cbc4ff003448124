package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_serial_counters_and_certificates",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_voided_serials_ledger",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_template_artifact_and_batch_to_certificates",
		Up:      migrationV3,
	},
}

func ensureVersionTable(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(database *sql.DB) error {
	if err := ensureVersionTable(database); err != nil {
		return err
	}

	// Get current schema version
	var currentVersion int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("running migration", "version", migration.Version, "name", migration.Name)

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the original counter and certificate tables.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS serial_counters (
			prefix TEXT PRIMARY KEY,
			count INTEGER NOT NULL DEFAULT 1 CHECK(count >= 1),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create serial_counters table: %w", err)
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS certificates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL,
			serial_number TEXT NOT NULL UNIQUE,
			template_name TEXT NOT NULL,
			url TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create certificates table: %w", err)
	}
	return nil
}

// migrationV2 adds the voided serial ledger.
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS voided_serials (
			prefix TEXT NOT NULL,
			count INTEGER NOT NULL,
			serial_number TEXT NOT NULL UNIQUE,
			reason TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (prefix, count),
			FOREIGN KEY (prefix) REFERENCES serial_counters(prefix)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create voided_serials table: %w", err)
	}
	return nil
}

// migrationV3 renames the original certificate columns and adds template,
// artifact and batch tracking.
func migrationV3(tx *sql.Tx) error {
	statements := []string{
		"ALTER TABLE certificates RENAME COLUMN template_name TO template_source",
		"ALTER TABLE certificates RENAME COLUMN url TO destination_reference",
		"ALTER TABLE certificates ADD COLUMN template_id TEXT NOT NULL DEFAULT ''",
		"ALTER TABLE certificates ADD COLUMN artifact_reference TEXT",
		"ALTER TABLE certificates ADD COLUMN batch_id TEXT",
		"CREATE INDEX IF NOT EXISTS idx_certificates_email ON certificates(email)",
		"CREATE INDEX IF NOT EXISTS idx_certificates_batch ON certificates(batch_id)",
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}
	return nil
}
