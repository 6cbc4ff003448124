package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/certbatch/internal/ports/primary"
)

// IssuanceAdapter is a thin adapter that translates CLI operations to IssuanceService calls.
// It depends only on the IssuanceService interface, enabling easy testing with mocks.
type IssuanceAdapter struct {
	service primary.IssuanceService
	out     io.Writer
}

// NewIssuanceAdapter creates a new IssuanceAdapter with the given service.
func NewIssuanceAdapter(service primary.IssuanceService, out io.Writer) *IssuanceAdapter {
	return &IssuanceAdapter{
		service: service,
		out:     out,
	}
}

// Issue runs a batch and prints one line per recipient followed by totals.
func (a *IssuanceAdapter) Issue(ctx context.Context, req primary.IssueBatchRequest) (*primary.BatchOutcome, error) {
	outcome, err := a.service.IssueBatch(ctx, req)
	if err != nil {
		return nil, err
	}

	for _, d := range outcome.Details {
		if d.Success {
			fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgGreen).Sprint("✓"), d.Email)
			continue
		}
		fmt.Fprintf(a.out, "%s %s: %s\n", color.New(color.FgRed).Sprint("✗"), d.Email, d.Error)
	}

	fmt.Fprintln(a.out)
	if outcome.BatchID != "" {
		fmt.Fprintf(a.out, "Batch:     %s\n", outcome.BatchID)
	}
	fmt.Fprintf(a.out, "Processed: %d\n", outcome.Processed)
	fmt.Fprintf(a.out, "Successes: %s\n", color.New(color.FgGreen).Sprint(outcome.Successes))
	failures := fmt.Sprint(outcome.Failures)
	if outcome.Failures > 0 {
		failures = color.New(color.FgRed).Sprint(outcome.Failures)
	}
	fmt.Fprintf(a.out, "Failures:  %s\n", failures)

	return outcome, nil
}

// Validate runs the batch-level checks only.
func (a *IssuanceAdapter) Validate(ctx context.Context, req primary.IssueBatchRequest) error {
	if err := a.service.ValidateBatch(ctx, req); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %d recipient(s) ready\n", color.New(color.FgGreen).Sprint("✓"), len(req.Recipients))
	return nil
}

// Templates lists the template catalog.
func (a *IssuanceAdapter) Templates(ctx context.Context) []*primary.Template {
	templates := a.service.ListTemplates(ctx)

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tPREFIX\tBACKGROUND")
	fmt.Fprintln(w, "--\t------\t----------")
	for _, t := range templates {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.SerialPrefix, t.BackgroundSource)
	}
	w.Flush()

	return templates
}
