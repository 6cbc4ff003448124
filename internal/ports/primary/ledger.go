package primary

import "context"

// LedgerService defines the primary port for inspecting serial counters and
// issued certificates.
type LedgerService interface {
	// ListCounters retrieves every serial counter.
	ListCounters(ctx context.Context) ([]*SerialCounter, error)

	// ListVoided retrieves voided serial numbers, optionally for one prefix.
	ListVoided(ctx context.Context, prefix string) ([]*VoidedSerial, error)

	// ListCertificates retrieves issued certificates matching the filters.
	ListCertificates(ctx context.Context, filters CertificateFilters) ([]*Certificate, error)

	// GetCertificate retrieves one certificate by serial number.
	GetCertificate(ctx context.Context, serialNumber string) (*Certificate, error)
}

// SerialCounter represents a serial counter at the port boundary.
type SerialCounter struct {
	Prefix     string
	NextSerial string
	Count      int
	UpdatedAt  string
}

// VoidedSerial represents a voided serial number at the port boundary.
type VoidedSerial struct {
	SerialNumber string
	Reason       string
	CreatedAt    string
}

// CertificateFilters contains filter options for listing certificates.
type CertificateFilters struct {
	Email      string
	TemplateID string
	BatchID    string
	Limit      int
}

// Certificate represents an issued certificate at the port boundary.
type Certificate struct {
	FullName             string
	Email                string
	SerialNumber         string
	TemplateID           string
	DestinationReference string
	ArtifactReference    string
	BatchID              string
	CreatedAt            string
}
