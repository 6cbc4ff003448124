package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/certbatch/internal/wire"
)

var serialCmd = &cobra.Command{
	Use:   "serial",
	Short: "Inspect serial number series",
	Long:  "Show the next serial number of each series and the numbers that were voided",
}

var serialListCmd = &cobra.Command{
	Use:   "list",
	Short: "List serial series and their next number",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.LedgerAdapter(os.Stdout).Counters(context.Background())
		return err
	},
}

var serialVoidedCmd = &cobra.Command{
	Use:   "voided [prefix]",
	Short: "List serial numbers reserved by failed issuances",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		_, err := wire.LedgerAdapter(os.Stdout).Voided(context.Background(), prefix)
		return err
	},
}

func init() {
	serialCmd.AddCommand(serialListCmd)
	serialCmd.AddCommand(serialVoidedCmd)
}

// SerialCmd returns the serial command
func SerialCmd() *cobra.Command {
	return serialCmd
}
