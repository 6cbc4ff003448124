package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/certbatch/internal/ports/primary"
)

// LedgerAdapter translates CLI operations to LedgerService calls.
type LedgerAdapter struct {
	service primary.LedgerService
	out     io.Writer
}

// NewLedgerAdapter creates a new LedgerAdapter with the given service.
func NewLedgerAdapter(service primary.LedgerService, out io.Writer) *LedgerAdapter {
	return &LedgerAdapter{
		service: service,
		out:     out,
	}
}

// Counters lists every serial series and the number it will issue next.
func (a *LedgerAdapter) Counters(ctx context.Context) ([]*primary.SerialCounter, error) {
	counters, err := a.service.ListCounters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list counters: %w", err)
	}

	if len(counters) == 0 {
		fmt.Fprintln(a.out, "No serial numbers issued yet.")
		return counters, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PREFIX\tNEXT\tUPDATED")
	fmt.Fprintln(w, "------\t----\t-------")
	for _, c := range counters {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Prefix, c.NextSerial, c.UpdatedAt)
	}
	w.Flush()
	return counters, nil
}

// Voided lists serial numbers that were reserved but never issued.
func (a *LedgerAdapter) Voided(ctx context.Context, prefix string) ([]*primary.VoidedSerial, error) {
	voided, err := a.service.ListVoided(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list voided serials: %w", err)
	}

	if len(voided) == 0 {
		fmt.Fprintln(a.out, "No voided serial numbers.")
		return voided, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "SERIAL\tREASON\tVOIDED")
	fmt.Fprintln(w, "------\t------\t------")
	for _, v := range voided {
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.SerialNumber, v.Reason, v.CreatedAt)
	}
	w.Flush()
	return voided, nil
}

// Certificates lists issued certificates matching filters.
func (a *LedgerAdapter) Certificates(ctx context.Context, filters primary.CertificateFilters) ([]*primary.Certificate, error) {
	certs, err := a.service.ListCertificates(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}

	if len(certs) == 0 {
		fmt.Fprintln(a.out, "No certificates found.")
		return certs, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "SERIAL\tNAME\tEMAIL\tTEMPLATE\tISSUED")
	fmt.Fprintln(w, "------\t----\t-----\t--------\t------")
	for _, c := range certs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.SerialNumber, c.FullName, c.Email, c.TemplateID, c.CreatedAt)
	}
	w.Flush()
	return certs, nil
}

// Show displays one certificate.
func (a *LedgerAdapter) Show(ctx context.Context, serialNumber string) (*primary.Certificate, error) {
	cert, err := a.service.GetCertificate(ctx, serialNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}

	fmt.Fprintf(a.out, "\nCertificate: %s\n", cert.SerialNumber)
	fmt.Fprintf(a.out, "Name:        %s\n", cert.FullName)
	fmt.Fprintf(a.out, "Email:       %s\n", cert.Email)
	fmt.Fprintf(a.out, "Template:    %s\n", cert.TemplateID)
	fmt.Fprintf(a.out, "Folder:      %s\n", cert.DestinationReference)
	if cert.ArtifactReference != "" {
		fmt.Fprintf(a.out, "File:        %s\n", cert.ArtifactReference)
	}
	if cert.BatchID != "" {
		fmt.Fprintf(a.out, "Batch:       %s\n", cert.BatchID)
	}
	fmt.Fprintf(a.out, "Issued:      %s\n", cert.CreatedAt)
	fmt.Fprintln(a.out)
	return cert, nil
}
