package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/certbatch/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the issuance and upload HTTP API",
	Long: `Serve the HTTP API:

  POST   /api                 multipart form: csv, templates, driveFolderUrl
  GET    /api/templates       template catalog
  POST   /api/uploads         store a CSV in the transient upload store
  GET    /api/admin/blobs     list stored uploads
  DELETE /api/admin/blobs     ?url=<url|pathname> or ?cleanup=<days>

The upload routes are only served when blobs.bucket is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = wire.Config().HTTP.Addr
		}

		return wire.HTTPServer().Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from http.addr)")
}

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return serveCmd
}
