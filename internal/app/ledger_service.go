package app

import (
	"context"
	"fmt"

	"github.com/example/certbatch/internal/core/serial"
	"github.com/example/certbatch/internal/ports/primary"
	"github.com/example/certbatch/internal/ports/secondary"
)

// LedgerServiceImpl implements the LedgerService interface.
type LedgerServiceImpl struct {
	counterRepo secondary.SerialCounterRepository
	certRepo    secondary.CertificateRepository
}

// NewLedgerService creates a new LedgerService with injected dependencies.
func NewLedgerService(counterRepo secondary.SerialCounterRepository, certRepo secondary.CertificateRepository) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		counterRepo: counterRepo,
		certRepo:    certRepo,
	}
}

// ListCounters retrieves every serial counter with the number it will issue next.
func (s *LedgerServiceImpl) ListCounters(ctx context.Context) ([]*primary.SerialCounter, error) {
	records, err := s.counterRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list serial counters: %w", err)
	}

	counters := make([]*primary.SerialCounter, len(records))
	for i, r := range records {
		counters[i] = &primary.SerialCounter{
			Prefix:     r.Prefix,
			NextSerial: serial.Format(r.Prefix, r.Count),
			Count:      r.Count,
			UpdatedAt:  r.UpdatedAt,
		}
	}
	return counters, nil
}

// ListVoided retrieves voided serial numbers.
func (s *LedgerServiceImpl) ListVoided(ctx context.Context, prefix string) ([]*primary.VoidedSerial, error) {
	records, err := s.counterRepo.ListVoided(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list voided serials: %w", err)
	}

	voided := make([]*primary.VoidedSerial, len(records))
	for i, r := range records {
		voided[i] = &primary.VoidedSerial{
			SerialNumber: r.SerialNumber,
			Reason:       r.Reason,
			CreatedAt:    r.CreatedAt,
		}
	}
	return voided, nil
}

// ListCertificates retrieves issued certificates matching the given filters.
func (s *LedgerServiceImpl) ListCertificates(ctx context.Context, filters primary.CertificateFilters) ([]*primary.Certificate, error) {
	records, err := s.certRepo.List(ctx, secondary.CertificateFilters{
		Email:      filters.Email,
		TemplateID: filters.TemplateID,
		BatchID:    filters.BatchID,
		Limit:      filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}

	certs := make([]*primary.Certificate, len(records))
	for i, r := range records {
		certs[i] = s.recordToCertificate(r)
	}
	return certs, nil
}

// GetCertificate retrieves a single certificate by serial number.
func (s *LedgerServiceImpl) GetCertificate(ctx context.Context, serialNumber string) (*primary.Certificate, error) {
	record, err := s.certRepo.GetBySerial(ctx, serialNumber)
	if err != nil {
		return nil, err
	}
	return s.recordToCertificate(record), nil
}

// Helper methods

func (s *LedgerServiceImpl) recordToCertificate(r *secondary.CertificateRecord) *primary.Certificate {
	return &primary.Certificate{
		FullName:             r.FullName,
		Email:                r.Email,
		SerialNumber:         r.SerialNumber,
		TemplateID:           r.TemplateID,
		DestinationReference: r.DestinationReference,
		ArtifactReference:    r.ArtifactReference,
		BatchID:              r.BatchID,
		CreatedAt:            r.CreatedAt,
	}
}

// Ensure LedgerServiceImpl implements the interface.
var _ primary.LedgerService = (*LedgerServiceImpl)(nil)
