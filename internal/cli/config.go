package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/certbatch/internal/config"
	"github.com/example/certbatch/internal/wire"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage certbatch configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		project, _ := cmd.Flags().GetBool("project")
		force, _ := cmd.Flags().GetBool("force")

		path := config.GlobalConfigPath()
		if project {
			path = config.ProjectConfigPath()
		}

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists\nHint: Use --force to overwrite", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Printf("✓ Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with credentials masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(wire.Config().Redacted())
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("project", false, "Write ./.certbatch/config.yaml instead of the global file")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	return configCmd
}
