package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/certbatch/internal/ports/primary"
	"github.com/example/certbatch/internal/wire"
)

var certificateCmd = &cobra.Command{
	Use:     "certificate",
	Aliases: []string{"cert"},
	Short:   "Query issued certificates",
}

var certificateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List issued certificates, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		templateID, _ := cmd.Flags().GetString("template")
		batchID, _ := cmd.Flags().GetString("batch")
		limit, _ := cmd.Flags().GetInt("limit")

		_, err := wire.LedgerAdapter(os.Stdout).Certificates(context.Background(), primary.CertificateFilters{
			Email:      email,
			TemplateID: templateID,
			BatchID:    batchID,
			Limit:      limit,
		})
		return err
	},
}

var certificateShowCmd = &cobra.Command{
	Use:   "show [serial-number]",
	Short: "Show one certificate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.LedgerAdapter(os.Stdout).Show(context.Background(), args[0])
		return err
	},
}

func init() {
	certificateListCmd.Flags().String("email", "", "Filter by recipient email")
	certificateListCmd.Flags().String("template", "", "Filter by template id")
	certificateListCmd.Flags().String("batch", "", "Filter by batch id")
	certificateListCmd.Flags().Int("limit", 50, "Maximum rows (0 = all)")

	certificateCmd.AddCommand(certificateListCmd)
	certificateCmd.AddCommand(certificateShowCmd)
}

// CertificateCmd returns the certificate command
func CertificateCmd() *cobra.Command {
	return certificateCmd
}
