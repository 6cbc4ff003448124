package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/certbatch/internal/wire"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Inspect the certificate template catalog",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates in registry order",
	RunE: func(cmd *cobra.Command, args []string) error {
		wire.CatalogAdapter(os.Stdout).Templates(context.Background())
		return nil
	},
}

func init() {
	templateCmd.AddCommand(templateListCmd)
}

// TemplateCmd returns the template command
func TemplateCmd() *cobra.Command {
	return templateCmd
}
