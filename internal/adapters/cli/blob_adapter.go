package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/certbatch/internal/ports/primary"
)

// BlobAdapter translates CLI operations to BlobService calls.
type BlobAdapter struct {
	service primary.BlobService
	out     io.Writer
}

// NewBlobAdapter creates a new BlobAdapter with the given service.
func NewBlobAdapter(service primary.BlobService, out io.Writer) *BlobAdapter {
	return &BlobAdapter{
		service: service,
		out:     out,
	}
}

// List prints every stored upload.
func (a *BlobAdapter) List(ctx context.Context) ([]*primary.Blob, error) {
	blobs, err := a.service.ListBlobs(ctx)
	if err != nil {
		return nil, err
	}

	if len(blobs) == 0 {
		fmt.Fprintln(a.out, "No uploads stored.")
		return blobs, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PATHNAME\tSIZE\tUPLOADED")
	fmt.Fprintln(w, "--------\t----\t--------")
	for _, b := range blobs {
		fmt.Fprintf(w, "%s\t%d\t%s\n", b.Pathname, b.Size, b.UploadedAt)
	}
	w.Flush()
	return blobs, nil
}

// Upload stores one file and prints its public URL.
func (a *BlobAdapter) Upload(ctx context.Context, req primary.UploadBlobRequest) (*primary.Blob, error) {
	blob, err := a.service.Upload(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Uploaded %s\n", blob.Pathname)
	fmt.Fprintf(a.out, "  URL: %s\n", blob.URL)
	return blob, nil
}

// Delete removes one upload.
func (a *BlobAdapter) Delete(ctx context.Context, target string) error {
	if err := a.service.DeleteBlob(ctx, target); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Deleted %s\n", target)
	return nil
}

// Purge removes uploads older than days.
func (a *BlobAdapter) Purge(ctx context.Context, days int) (*primary.PurgeResult, error) {
	result, err := a.service.PurgeOlderThan(ctx, days)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Deleted %d upload(s)\n", result.DeletedCount)
	for _, p := range result.DeletedBlobs {
		fmt.Fprintf(a.out, "  %s\n", p)
	}
	return result, nil
}
