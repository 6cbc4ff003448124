package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/example/certbatch/internal/ports/primary"
	"github.com/example/certbatch/internal/ports/secondary"
)

// ErrMissingFile rejects an upload without content.
var ErrMissingFile = errors.New("No file provided")

// BlobServiceImpl implements the BlobService interface over the transient
// upload store.
type BlobServiceImpl struct {
	store  secondary.BlobStore
	logger *slog.Logger
	now    func() time.Time
}

// NewBlobService creates a new BlobService with injected dependencies.
func NewBlobService(store secondary.BlobStore, logger *slog.Logger) *BlobServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlobServiceImpl{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Upload stores a file as "<unix-millis>-<name>".
func (s *BlobServiceImpl) Upload(ctx context.Context, req primary.UploadBlobRequest) (*primary.Blob, error) {
	if len(req.Content) == 0 || req.FileName == "" {
		return nil, NewValidationError(ErrMissingFile)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	pathname := fmt.Sprintf("%d-%s", s.now().UnixMilli(), path.Base(req.FileName))
	record, err := s.store.Put(ctx, pathname, contentType, req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", req.FileName, err)
	}

	s.logger.Info("blob uploaded", "pathname", record.Pathname, "size", record.Size)
	return s.recordToBlob(record), nil
}

// ListBlobs retrieves every stored file.
func (s *BlobServiceImpl) ListBlobs(ctx context.Context) ([]*primary.Blob, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}

	blobs := make([]*primary.Blob, len(records))
	for i, r := range records {
		blobs[i] = s.recordToBlob(r)
	}
	return blobs, nil
}

// DeleteBlob removes one file.
func (s *BlobServiceImpl) DeleteBlob(ctx context.Context, urlOrPathname string) error {
	if urlOrPathname == "" {
		return NewValidationError(errors.New("URL parameter is required"))
	}
	if err := s.store.Delete(ctx, urlOrPathname); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	s.logger.Info("blob deleted", "target", urlOrPathname)
	return nil
}

// PurgeOlderThan deletes every file uploaded before now minus days. On a
// delete failure it stops and returns what was deleted so far.
func (s *BlobServiceImpl) PurgeOlderThan(ctx context.Context, days int) (*primary.PurgeResult, error) {
	if days <= 0 {
		days = primary.DefaultPurgeDays
	}
	cutoff := s.now().Add(-time.Duration(days) * 24 * time.Hour)

	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}

	result := &primary.PurgeResult{DeletedBlobs: []string{}}
	for _, r := range records {
		if !r.UploadedAt.Before(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, r.URL); err != nil {
			result.DeletedCount = len(result.DeletedBlobs)
			return result, fmt.Errorf("failed to delete %s: %w", r.Pathname, err)
		}
		result.DeletedBlobs = append(result.DeletedBlobs, r.Pathname)
	}
	result.DeletedCount = len(result.DeletedBlobs)

	s.logger.Info("blobs purged", "days", days, "deleted", result.DeletedCount)
	return result, nil
}

// Helper methods

func (s *BlobServiceImpl) recordToBlob(r *secondary.BlobRecord) *primary.Blob {
	return &primary.Blob{
		URL:        r.URL,
		Pathname:   r.Pathname,
		Size:       r.Size,
		UploadedAt: r.UploadedAt.UTC().Format(time.RFC3339),
	}
}

// Ensure BlobServiceImpl implements the interface.
var _ primary.BlobService = (*BlobServiceImpl)(nil)
