// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the CLI and HTTP surfaces drive the application.
package primary

import "context"

// IssuanceService defines the primary port for certificate batch issuance.
type IssuanceService interface {
	// IssueBatch validates the request and runs the pipeline for every recipient.
	// A non-nil error means the batch was rejected before any recipient started.
	IssueBatch(ctx context.Context, req IssueBatchRequest) (*BatchOutcome, error)

	// ValidateBatch runs only the batch-level checks of IssueBatch.
	// Recipients need only be non-nil.
	ValidateBatch(ctx context.Context, req IssueBatchRequest) error

	// ListTemplates returns the template catalog in registry order.
	ListTemplates(ctx context.Context) []*Template
}

// IssueBatchRequest contains parameters for issuing a batch.
type IssueBatchRequest struct {
	Recipients     []Recipient
	TemplatesJSON  string // JSON array of template ids
	DestinationURL string // ".../folders/<id>"
}

// Recipient is one input row at the port boundary.
type Recipient struct {
	FullName string
	Email    string
}

// BatchOutcome summarizes a completed batch.
type BatchOutcome struct {
	BatchID   string            `json:"batchId,omitempty"`
	Processed int               `json:"processed"`
	Successes int               `json:"successes"`
	Failures  int               `json:"failures"`
	Details   []RecipientResult `json:"details"`
}

// RecipientResult is the outcome for one recipient.
type RecipientResult struct {
	Success bool   `json:"success"`
	Email   string `json:"email"`
	Error   string `json:"error,omitempty"`
}

// Template represents a certificate template at the port boundary.
type Template struct {
	ID               string `json:"id"`
	BackgroundSource string `json:"backgroundSource"`
	SerialPrefix     string `json:"serialPrefix"`
}
