package primary

import "context"

// BlobService defines the primary port for the transient upload store.
type BlobService interface {
	// Upload stores a file under a timestamped, publicly readable name.
	Upload(ctx context.Context, req UploadBlobRequest) (*Blob, error)

	// ListBlobs retrieves every stored file.
	ListBlobs(ctx context.Context) ([]*Blob, error)

	// DeleteBlob removes one file by URL or pathname.
	DeleteBlob(ctx context.Context, urlOrPathname string) error

	// PurgeOlderThan removes every file uploaded more than days ago.
	// Non-positive days fall back to DefaultPurgeDays.
	PurgeOlderThan(ctx context.Context, days int) (*PurgeResult, error)
}

// DefaultPurgeDays is the retention applied when no threshold is given.
const DefaultPurgeDays = 7

// UploadBlobRequest contains parameters for uploading a file.
type UploadBlobRequest struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Blob represents a stored file at the port boundary.
type Blob struct {
	URL        string `json:"url"`
	Pathname   string `json:"pathname"`
	Size       int64  `json:"size"`
	UploadedAt string `json:"uploadedAt"`
}

// PurgeResult reports what a purge removed.
type PurgeResult struct {
	DeletedCount int      `json:"deletedCount"`
	DeletedBlobs []string `json:"deletedBlobs"`
}
