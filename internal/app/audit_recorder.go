package app

import (
	"context"
	"fmt"

	"github.com/example/certbatch/internal/core/batch"
	"github.com/example/certbatch/internal/core/template"
	"github.com/example/certbatch/internal/ctxutil"
	"github.com/example/certbatch/internal/ports/secondary"
)

// AuditRecorder persists one record per issued certificate.
type AuditRecorder struct {
	certRepo secondary.CertificateRepository
}

// NewAuditRecorder creates an AuditRecorder with injected dependencies.
func NewAuditRecorder(certRepo secondary.CertificateRepository) *AuditRecorder {
	return &AuditRecorder{certRepo: certRepo}
}

// Record appends the audit record for a published certificate.
func (a *AuditRecorder) Record(ctx context.Context, recipient batch.Recipient, tmpl template.Descriptor, alloc *Allocation, dest *Destination, artifact *PublishedArtifact) error {
	record := &secondary.CertificateRecord{
		FullName:             recipient.FullName,
		Email:                recipient.Email,
		SerialNumber:         alloc.SerialNumber,
		TemplateID:           tmpl.ID,
		TemplateSource:       tmpl.BackgroundSource,
		DestinationReference: dest.ShareableReference,
		ArtifactReference:    artifact.Reference,
		BatchID:              ctxutil.BatchIDFromContext(ctx),
	}

	if err := a.certRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to record certificate %s: %w", alloc.SerialNumber, err)
	}
	return nil
}
