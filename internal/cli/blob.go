package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/example/certbatch/internal/ports/primary"
	"github.com/example/certbatch/internal/wire"
)

var blobCmd = &cobra.Command{
	Use:   "blob",
	Short: "Manage the transient upload store",
}

var blobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored uploads",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.BlobAdapter(os.Stdout).List(context.Background())
		return err
	},
}

var blobUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a file under a timestamped public name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		_, err = wire.BlobAdapter(os.Stdout).Upload(context.Background(), primary.UploadBlobRequest{
			FileName:    filepath.Base(args[0]),
			ContentType: mimetype.Detect(content).String(),
			Content:     content,
		})
		return err
	},
}

var blobDeleteCmd = &cobra.Command{
	Use:   "delete [url-or-pathname]",
	Short: "Delete one upload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.BlobAdapter(os.Stdout).Delete(context.Background(), args[0])
	},
}

var blobPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete uploads older than --days",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		_, err := wire.BlobAdapter(os.Stdout).Purge(context.Background(), days)
		return err
	},
}

func init() {
	blobPurgeCmd.Flags().Int("days", primary.DefaultPurgeDays, "Age threshold in days")

	blobCmd.AddCommand(blobListCmd)
	blobCmd.AddCommand(blobUploadCmd)
	blobCmd.AddCommand(blobDeleteCmd)
	blobCmd.AddCommand(blobPurgeCmd)
}

// BlobCmd returns the blob command
func BlobCmd() *cobra.Command {
	return blobCmd
}
