package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/certbatch/internal/adapters/cli"
	"github.com/example/certbatch/internal/adapters/csvinput"
	"github.com/example/certbatch/internal/ports/primary"
	"github.com/example/certbatch/internal/wire"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue certificates for every row of a recipient CSV",
	Long: `Issue certificates for every row of a recipient CSV.

The CSV needs a header row with fullName and email columns. Each recipient
gets one certificate per selected template, a folder under --folder-url,
and an email with the folder link and a ZIP of the PDFs.

Examples:
  certbatch issue --csv people.csv --template template1 --folder-url https://drive.google.com/drive/folders/abc
  certbatch issue --csv people.csv --templates '["template1","template3"]' --folder-url ... --json
  certbatch issue --csv people.csv --template template2 --folder-url ... --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runIssue(ctx, cmd, wire.CatalogService(), wire.IssuanceService, os.Stdout)
	},
}

// runIssue checks the request against the catalog before issuer is called,
// so validation and --dry-run need no storage or mail credentials.
func runIssue(ctx context.Context, cmd *cobra.Command, catalog primary.IssuanceService, issuer func() primary.IssuanceService, out io.Writer) error {
	csvPath, _ := cmd.Flags().GetString("csv")
	folderURL, _ := cmd.Flags().GetString("folder-url")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	asJSON, _ := cmd.Flags().GetBool("json")

	templatesJSON, err := templateSelection(cmd)
	if err != nil {
		return err
	}

	req := primary.IssueBatchRequest{
		TemplatesJSON:  templatesJSON,
		DestinationURL: folderURL,
	}
	if csvPath != "" {
		req.Recipients = []primary.Recipient{}
	}

	if err := catalog.ValidateBatch(ctx, req); err != nil {
		return err
	}

	req.Recipients, err = readRecipientsFile(csvPath)
	if err != nil {
		return err
	}

	if dryRun {
		return cliadapter.NewIssuanceAdapter(catalog, out).Validate(ctx, req)
	}

	if asJSON {
		outcome, err := issuer().IssueBatch(ctx, req)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}

	outcome, err := cliadapter.NewIssuanceAdapter(issuer(), out).Issue(ctx, req)
	if err != nil {
		return err
	}
	if outcome.Failures > 0 {
		return fmt.Errorf("%d of %d recipient(s) failed", outcome.Failures, outcome.Processed)
	}
	return nil
}

// templateSelection returns the selection as a JSON array. --templates is
// passed through verbatim so it meets the same checks as the HTTP form.
func templateSelection(cmd *cobra.Command) (string, error) {
	raw, _ := cmd.Flags().GetString("templates")
	ids, _ := cmd.Flags().GetStringSlice("template")

	if raw != "" && len(ids) > 0 {
		return "", fmt.Errorf("use either --templates or --template, not both")
	}
	if len(ids) == 0 {
		return raw, nil
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readRecipientsFile(path string) ([]primary.Recipient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()
	return csvinput.ReadRecipients(f)
}

func init() {
	addIssueFlags(issueCmd)
}

func addIssueFlags(cmd *cobra.Command) {
	cmd.Flags().String("csv", "", "Recipient CSV file (fullName,email)")
	cmd.Flags().String("templates", "", `Template ids as a JSON array, e.g. '["template1"]'`)
	cmd.Flags().StringSliceP("template", "t", nil, "Template id (repeatable)")
	cmd.Flags().String("folder-url", "", "Destination folder URL")
	cmd.Flags().Bool("dry-run", false, "Validate the request and CSV without issuing")
	cmd.Flags().Bool("json", false, "Print the batch outcome as JSON")
}

// IssueCmd returns the issue command
func IssueCmd() *cobra.Command {
	return issueCmd
}
