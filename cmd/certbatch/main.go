package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/certbatch/internal/cli"
	"github.com/example/certbatch/internal/version"
	"github.com/example/certbatch/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "certbatch",
		Short:   "certbatch - batch certificate issuance",
		Version: version.String(),
		Long: `certbatch issues PDF certificates for every recipient in a CSV file.
Each certificate gets a sequential serial number, is stored in a per-recipient
folder and is emailed to the recipient together with a ZIP archive.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			path, _ := cmd.Flags().GetString("config")
			wire.SetConfigPath(path)
		},
	}
	rootCmd.PersistentFlags().String("config", "", "Config file (overrides ~/.certbatch and ./.certbatch)")

	// Issuance
	rootCmd.AddCommand(cli.IssueCmd())
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.TemplateCmd())

	// Ledger and uploads
	rootCmd.AddCommand(cli.SerialCmd())
	rootCmd.AddCommand(cli.CertificateCmd())
	rootCmd.AddCommand(cli.BlobCmd())

	// Setup
	rootCmd.AddCommand(cli.ConfigCmd())
	rootCmd.AddCommand(cli.DoctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
