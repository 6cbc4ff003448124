// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/certbatch/internal/ports/secondary"
)

// SerialCounterRepository implements secondary.SerialCounterRepository with SQLite.
type SerialCounterRepository struct {
	db *sql.DB
}

// NewSerialCounterRepository creates a new SQLite serial counter repository.
func NewSerialCounterRepository(db *sql.DB) *SerialCounterRepository {
	return &SerialCounterRepository{db: db}
}

// Reserve atomically consumes the next number for prefix. The counter row is
// created on first use; the stored count always names the next number to issue.
func (r *SerialCounterRepository) Reserve(ctx context.Context, prefix string) (int, error) {
	var reserved int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO serial_counters (prefix, count) VALUES (?, 2)
		ON CONFLICT(prefix) DO UPDATE SET count = count + 1, updated_at = CURRENT_TIMESTAMP
		RETURNING count - 1`,
		prefix,
	).Scan(&reserved)
	if err != nil {
		return 0, fmt.Errorf("failed to reserve serial for %q: %w", prefix, err)
	}

	return reserved, nil
}

// Get retrieves the counter for prefix (nil if never used).
func (r *SerialCounterRepository) Get(ctx context.Context, prefix string) (*secondary.SerialCounterRecord, error) {
	var (
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.SerialCounterRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT prefix, count, created_at, updated_at FROM serial_counters WHERE prefix = ?",
		prefix,
	).Scan(&record.Prefix, &record.Count, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get serial counter: %w", err)
	}

	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// List retrieves all counters ordered by prefix.
func (r *SerialCounterRepository) List(ctx context.Context) ([]*secondary.SerialCounterRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT prefix, count, created_at, updated_at FROM serial_counters ORDER BY prefix ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list serial counters: %w", err)
	}
	defer rows.Close()

	var counters []*secondary.SerialCounterRecord
	for rows.Next() {
		var (
			createdAt time.Time
			updatedAt time.Time
		)

		record := &secondary.SerialCounterRecord{}
		if err := rows.Scan(&record.Prefix, &record.Count, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan serial counter: %w", err)
		}

		record.CreatedAt = createdAt.Format(time.RFC3339)
		record.UpdatedAt = updatedAt.Format(time.RFC3339)

		counters = append(counters, record)
	}

	return counters, rows.Err()
}

// Void records a reserved number as permanently unused.
func (r *SerialCounterRepository) Void(ctx context.Context, record *secondary.VoidedSerialRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO voided_serials (prefix, count, serial_number, reason) VALUES (?, ?, ?, ?)",
		record.Prefix, record.Count, record.SerialNumber, record.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to void serial %s: %w", record.SerialNumber, err)
	}

	return nil
}

// ListVoided retrieves voided numbers, optionally restricted to one prefix.
func (r *SerialCounterRepository) ListVoided(ctx context.Context, prefix string) ([]*secondary.VoidedSerialRecord, error) {
	query := "SELECT prefix, count, serial_number, reason, created_at FROM voided_serials WHERE 1=1"
	args := []any{}

	if prefix != "" {
		query += " AND prefix = ?"
		args = append(args, prefix)
	}

	query += " ORDER BY prefix ASC, count ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list voided serials: %w", err)
	}
	defer rows.Close()

	var voided []*secondary.VoidedSerialRecord
	for rows.Next() {
		var createdAt time.Time

		record := &secondary.VoidedSerialRecord{}
		if err := rows.Scan(&record.Prefix, &record.Count, &record.SerialNumber, &record.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan voided serial: %w", err)
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)

		voided = append(voided, record)
	}

	return voided, rows.Err()
}

// Ensure SerialCounterRepository implements the interface.
var _ secondary.SerialCounterRepository = (*SerialCounterRepository)(nil)
