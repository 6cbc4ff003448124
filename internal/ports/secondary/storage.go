package secondary

import (
	"context"
	"time"
)

// FolderStore defines the secondary port for the external storage provider
// that holds each recipient's destination folder and published artifacts.
type FolderStore interface {
	// FindFolder looks up a folder named name directly under parentID.
	// Returns found=false (and no error) when it does not exist.
	FindFolder(ctx context.Context, parentID, name string) (id string, found bool, err error)

	// CreateFolder creates a folder named name under parentID.
	CreateFolder(ctx context.Context, parentID, name string) (string, error)

	// Upload stores content as fileName inside folderID.
	// The provider's response is not trusted to identify the file.
	Upload(ctx context.Context, folderID, fileName, contentType string, content []byte) error

	// FindFile looks up a file by name inside folderID.
	FindFile(ctx context.Context, folderID, fileName string) (id string, found bool, err error)

	// MakePublic grants anonymous read access to a file.
	MakePublic(ctx context.Context, fileID string) error

	// FolderURL returns the shareable reference for a folder.
	FolderURL(folderID string) string

	// FileURL returns the shareable reference for a file.
	FileURL(fileID string) string
}

// BlobRecord describes one transient uploaded file.
type BlobRecord struct {
	URL        string
	Pathname   string
	Size       int64
	UploadedAt time.Time
}

// BlobStore defines the secondary port for the transient upload store:
// a flat namespace unrelated to published certificates.
type BlobStore interface {
	// Put stores content publicly under pathname.
	Put(ctx context.Context, pathname, contentType string, content []byte) (*BlobRecord, error)

	// List returns every stored blob.
	List(ctx context.Context) ([]*BlobRecord, error)

	// Delete removes a blob by URL or pathname.
	Delete(ctx context.Context, urlOrPathname string) error
}
