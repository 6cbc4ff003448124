package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/certbatch/internal/ports/secondary"
)

// CertificateRepository implements secondary.CertificateRepository with SQLite.
type CertificateRepository struct {
	db *sql.DB
}

// NewCertificateRepository creates a new SQLite certificate repository.
func NewCertificateRepository(db *sql.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

const certificateColumns = "id, full_name, email, serial_number, template_id, template_source, destination_reference, artifact_reference, batch_id, created_at"

// Create persists a new certificate and sets its ID.
func (r *CertificateRepository) Create(ctx context.Context, cert *secondary.CertificateRecord) error {
	var artifact, batchID sql.NullString
	if cert.ArtifactReference != "" {
		artifact = sql.NullString{String: cert.ArtifactReference, Valid: true}
	}
	if cert.BatchID != "" {
		batchID = sql.NullString{String: cert.BatchID, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO certificates (full_name, email, serial_number, template_id, template_source, destination_reference, artifact_reference, batch_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		cert.FullName, cert.Email, cert.SerialNumber, cert.TemplateID, cert.TemplateSource,
		cert.DestinationReference, artifact, batchID,
	)
	if err != nil {
		return fmt.Errorf("failed to create certificate: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read certificate id: %w", err)
	}
	cert.ID = id

	return nil
}

// GetBySerial retrieves a certificate by serial number.
func (r *CertificateRepository) GetBySerial(ctx context.Context, serialNumber string) (*secondary.CertificateRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+certificateColumns+" FROM certificates WHERE serial_number = ?",
		serialNumber,
	)

	record, err := scanCertificate(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("certificate %s not found", serialNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}

	return record, nil
}

// List retrieves certificates matching the given filters, newest first.
func (r *CertificateRepository) List(ctx context.Context, filters secondary.CertificateFilters) ([]*secondary.CertificateRecord, error) {
	query := "SELECT " + certificateColumns + " FROM certificates WHERE 1=1"
	args := []any{}

	if filters.Email != "" {
		query += " AND email = ?"
		args = append(args, filters.Email)
	}

	if filters.TemplateID != "" {
		query += " AND template_id = ?"
		args = append(args, filters.TemplateID)
	}

	if filters.BatchID != "" {
		query += " AND batch_id = ?"
		args = append(args, filters.BatchID)
	}

	query += " ORDER BY id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	defer rows.Close()

	var certs []*secondary.CertificateRecord
	for rows.Next() {
		record, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certs = append(certs, record)
	}

	return certs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCertificate(s scanner) (*secondary.CertificateRecord, error) {
	var (
		artifact  sql.NullString
		batchID   sql.NullString
		createdAt time.Time
	)

	record := &secondary.CertificateRecord{}
	err := s.Scan(&record.ID, &record.FullName, &record.Email, &record.SerialNumber, &record.TemplateID,
		&record.TemplateSource, &record.DestinationReference, &artifact, &batchID, &createdAt)
	if err != nil {
		return nil, err
	}

	record.ArtifactReference = artifact.String
	record.BatchID = batchID.String
	record.CreatedAt = createdAt.Format(time.RFC3339)

	return record, nil
}

// Ensure CertificateRepository implements the interface.
var _ secondary.CertificateRepository = (*CertificateRepository)(nil)
