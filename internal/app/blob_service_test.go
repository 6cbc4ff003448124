package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/certbatch/internal/logging"
	"github.com/example/certbatch/internal/ports/primary"
	"github.com/example/certbatch/internal/ports/secondary"
)

func newTestBlobService(now time.Time) (*BlobServiceImpl, *mockBlobStore) {
	store := newMockBlobStore()
	service := NewBlobService(store, logging.Discard())
	service.now = func() time.Time { return now }
	return service, store
}

func TestBlobService_UploadPrefixesTimestamp(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	service, store := newTestBlobService(now)

	blob, err := service.Upload(context.Background(), primary.UploadBlobRequest{
		FileName:    "recipients.csv",
		ContentType: "text/csv",
		Content:     []byte("fullName,email\n"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := "1768046400000-recipients.csv"
	if blob.Pathname != want {
		t.Errorf("expected pathname %q, got %q", want, blob.Pathname)
	}
	if blob.Size != 15 {
		t.Errorf("expected size 15, got %d", blob.Size)
	}
	if _, ok := store.blobs[want]; !ok {
		t.Error("expected blob to be stored")
	}
}

func TestBlobService_UploadRejectsEmpty(t *testing.T) {
	service, _ := newTestBlobService(time.Now())

	_, err := service.Upload(context.Background(), primary.UploadBlobRequest{FileName: "a.csv"})
	if !errors.Is(err, ErrMissingFile) {
		t.Fatalf("expected ErrMissingFile, got %v", err)
	}
	if !IsValidationError(err) {
		t.Error("expected validation error")
	}
}

func TestBlobService_DeleteRequiresTarget(t *testing.T) {
	service, _ := newTestBlobService(time.Now())

	if err := service.DeleteBlob(context.Background(), ""); !IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestBlobService_DeleteByURL(t *testing.T) {
	service, store := newTestBlobService(time.Now())
	ctx := context.Background()

	rec, _ := store.Put(ctx, "1-a.csv", "text/csv", []byte("x"))

	if err := service.DeleteBlob(ctx, rec.URL); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(store.blobs) != 0 {
		t.Error("expected blob to be deleted")
	}
}

func TestBlobService_PurgeOlderThan(t *testing.T) {
	now := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	service, store := newTestBlobService(now)
	ctx := context.Background()

	store.blobs["old.csv"] = &secondary.BlobRecord{URL: "u/old.csv", Pathname: "old.csv", UploadedAt: now.AddDate(0, 0, -8)}
	store.blobs["recent.csv"] = &secondary.BlobRecord{URL: "u/recent.csv", Pathname: "recent.csv", UploadedAt: now.AddDate(0, 0, -2)}

	tests := []struct {
		name string
		days int
		want int
	}{
		{"default threshold", 0, 1},
		{"explicit threshold", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.PurgeOlderThan(ctx, tt.days)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result.DeletedCount != tt.want {
				t.Errorf("expected %d deleted, got %d (%v)", tt.want, result.DeletedCount, result.DeletedBlobs)
			}
		})
	}

	if len(store.blobs) != 0 {
		t.Errorf("expected both blobs purged across runs, %d remain", len(store.blobs))
	}
}

func TestBlobService_PurgeStopsOnDeleteError(t *testing.T) {
	now := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	service, store := newTestBlobService(now)

	store.blobs["a.csv"] = &secondary.BlobRecord{URL: "u/a.csv", Pathname: "a.csv", UploadedAt: now.AddDate(0, 0, -9)}
	store.blobs["b.csv"] = &secondary.BlobRecord{URL: "u/b.csv", Pathname: "b.csv", UploadedAt: now.AddDate(0, 0, -9)}
	store.failOn = "u/b.csv"

	result, err := service.PurgeOlderThan(context.Background(), 7)
	if err == nil {
		t.Fatal("expected error")
	}
	if result == nil {
		t.Fatal("expected partial result")
	}
	if result.DeletedCount != 1 || len(result.DeletedBlobs) != 1 || result.DeletedBlobs[0] != "a.csv" {
		t.Errorf("expected a.csv counted as deleted, got %+v", result)
	}
}

func TestBlobService_PurgeNothingToDelete(t *testing.T) {
	service, _ := newTestBlobService(time.Now())

	result, err := service.PurgeOlderThan(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.DeletedCount != 0 || result.DeletedBlobs == nil {
		t.Errorf("expected empty non-nil result, got %+v", result)
	}
}

func TestBlobService_ListError(t *testing.T) {
	service, store := newTestBlobService(time.Now())
	store.listErr = errors.New("access denied")

	if _, err := service.ListBlobs(context.Background()); err == nil {
		t.Error("expected error")
	}
	if _, err := service.PurgeOlderThan(context.Background(), 7); err == nil {
		t.Error("expected error")
	}
}
