// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// SerialCounterRecord represents a per-prefix counter as stored in persistence.
// Count is the next number the series will issue.
type SerialCounterRecord struct {
	Prefix    string
	Count     int
	CreatedAt string
	UpdatedAt string
}

// VoidedSerialRecord represents a reserved serial number that was never issued.
type VoidedSerialRecord struct {
	Prefix       string
	Count        int
	SerialNumber string
	Reason       string
	CreatedAt    string
}

// SerialCounterRepository defines the secondary port for serial counter persistence.
type SerialCounterRepository interface {
	// Reserve atomically consumes and returns the next number for prefix,
	// creating the counter at 1 on first use.
	Reserve(ctx context.Context, prefix string) (int, error)

	// Get retrieves the counter for prefix (nil if it was never used).
	Get(ctx context.Context, prefix string) (*SerialCounterRecord, error)

	// List retrieves all counters ordered by prefix.
	List(ctx context.Context) ([]*SerialCounterRecord, error)

	// Void records a reserved number as permanently unused.
	Void(ctx context.Context, record *VoidedSerialRecord) error

	// ListVoided retrieves voided numbers, optionally for one prefix.
	ListVoided(ctx context.Context, prefix string) ([]*VoidedSerialRecord, error)
}

// CertificateRecord represents one issued certificate (audit record).
type CertificateRecord struct {
	ID                   int64
	FullName             string
	Email                string
	SerialNumber         string
	TemplateID           string
	TemplateSource       string
	DestinationReference string
	ArtifactReference    string // Empty string means null
	BatchID              string // Empty string means null
	CreatedAt            string
}

// CertificateFilters contains filter options for querying certificates.
type CertificateFilters struct {
	Email      string
	TemplateID string
	BatchID    string
	Limit      int
}

// CertificateRepository defines the secondary port for audit record persistence.
// Records are append-only.
type CertificateRepository interface {
	// Create persists a new certificate and sets its ID.
	Create(ctx context.Context, cert *CertificateRecord) error

	// GetBySerial retrieves a certificate by serial number.
	GetBySerial(ctx context.Context, serialNumber string) (*CertificateRecord, error)

	// List retrieves certificates matching the given filters, newest first.
	List(ctx context.Context, filters CertificateFilters) ([]*CertificateRecord, error)
}
