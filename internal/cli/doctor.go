package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/certbatch/internal/config"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Validate certbatch configuration before issuing",
	Long: `Offline health check for certbatch.

Validates:
- Configuration loads and passes validation
- Ledger database directory is writable
- Template catalog and local background files
- Destination storage credentials for the selected backend
- Mail settings

Examples:
  certbatch doctor              # Run full health check
  certbatch doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(configPath)
		results := []CheckResult{checkConfig(err)}
		if err == nil {
			results = append(results, runChecks(cfg)...)
		}

		out := io.Writer(os.Stdout)
		if quiet {
			out = io.Discard
		}
		if !printResults(out, results) {
			return fmt.Errorf("environment validation failed")
		}
		return nil
	},
}

func runChecks(cfg *config.Config) []CheckResult {
	return []CheckResult{
		checkDatabase(cfg),
		checkTemplates(cfg),
		checkStorage(cfg),
		checkMail(cfg),
	}
}

// printResults renders the table and reports whether every check passed.
func printResults(w io.Writer, results []CheckResult) bool {
	healthy := true
	for _, r := range results {
		if r.Status == "✗" {
			healthy = false
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check              Status")
	fmt.Fprintln(w, "─────────────────────────")
	for _, r := range results {
		fmt.Fprintf(w, "%-18s %s\n", r.Name, r.Status)
	}
	fmt.Fprintln(w)

	hasDetails := false
	for _, r := range results {
		if r.Status != "✓" && r.Details != "" {
			if !hasDetails {
				fmt.Fprintln(w, "Details:")
				hasDetails = true
			}
			fmt.Fprintf(w, "\n%s:\n%s\n", r.Name, r.Details)
		}
	}

	if healthy {
		fmt.Fprintln(w, "All checks passed.")
	} else {
		fmt.Fprintln(w, "\n⚠ Issues found. Run 'certbatch config show' to inspect settings.")
	}
	return healthy
}

func checkConfig(loadErr error) CheckResult {
	if loadErr != nil {
		return CheckResult{Name: "Config", Status: "✗", Details: "  " + loadErr.Error()}
	}
	return CheckResult{Name: "Config", Status: "✓"}
}

// checkDatabase verifies the ledger directory exists or can be created.
func checkDatabase(cfg *config.Config) CheckResult {
	dir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: fmt.Sprintf("  Cannot create %s: %v", dir, err)}
	}
	tmp, err := os.CreateTemp(dir, ".certbatch-doctor-*")
	if err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: fmt.Sprintf("  %s is not writable: %v", dir, err)}
	}
	tmp.Close()
	os.Remove(tmp.Name())
	return CheckResult{Name: "Database", Status: "✓"}
}

// checkTemplates verifies local backgrounds exist. Remote backgrounds are
// only fetched during a batch.
func checkTemplates(cfg *config.Config) CheckResult {
	registry, err := cfg.TemplateRegistry()
	if err != nil {
		return CheckResult{Name: "Templates", Status: "✗", Details: "  " + err.Error()}
	}

	missing := []string{}
	for _, d := range registry.All() {
		src := d.BackgroundSource
		if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
			continue
		}
		if _, err := os.Stat(strings.TrimPrefix(src, "file://")); err != nil {
			missing = append(missing, fmt.Sprintf("%s (%s)", d.ID, src))
		}
	}
	if len(missing) > 0 {
		return CheckResult{Name: "Templates", Status: "✗", Details: "  Missing backgrounds: " + strings.Join(missing, ", ")}
	}
	return CheckResult{Name: "Templates", Status: "✓"}
}

func checkStorage(cfg *config.Config) CheckResult {
	var missing []string
	switch cfg.Storage.Backend {
	case config.BackendObjectStore:
		o := cfg.Storage.ObjectStore
		missing = missingFields(map[string]string{
			"storage.objectstore.endpoint": o.Endpoint,
			"storage.objectstore.bucket":   o.Bucket,
		})
	default:
		d := cfg.Storage.Drive
		missing = missingFields(map[string]string{
			"storage.drive.client_id":     d.ClientID,
			"storage.drive.client_secret": d.ClientSecret,
			"storage.drive.refresh_token": d.RefreshToken,
		})
	}
	if len(missing) > 0 {
		return CheckResult{Name: "Storage", Status: "✗", Details: "  Not set: " + strings.Join(missing, ", ")}
	}
	return CheckResult{Name: "Storage", Status: "✓"}
}

func checkMail(cfg *config.Config) CheckResult {
	missing := missingFields(map[string]string{
		"mail.host":         cfg.Mail.Host,
		"mail.from_address": cfg.Mail.FromAddress,
	})
	if len(missing) > 0 {
		return CheckResult{Name: "Mail", Status: "✗", Details: "  Not set: " + strings.Join(missing, ", ")}
	}
	if cfg.Mail.Username == "" || cfg.Mail.Password == "" {
		return CheckResult{Name: "Mail", Status: "⚠", Details: "  No SMTP credentials; sending unauthenticated"}
	}
	return CheckResult{Name: "Mail", Status: "✓"}
}

// missingFields returns the sorted names of empty values.
func missingFields(fields map[string]string) []string {
	var missing []string
	for name, value := range fields {
		if value == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func init() {
	doctorCmd.Flags().BoolP("quiet", "q", false, "Quiet mode - exit code only")
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	return doctorCmd
}
