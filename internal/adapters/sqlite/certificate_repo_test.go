package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/certbatch/internal/adapters/sqlite"
	"github.com/example/certbatch/internal/ports/secondary"
)

func createTestCertificate(t *testing.T, repo *sqlite.CertificateRepository, ctx context.Context, email, serialNumber, templateID, batchID string) *secondary.CertificateRecord {
	t.Helper()

	cert := &secondary.CertificateRecord{
		FullName:             "Ada Lovelace",
		Email:                email,
		SerialNumber:         serialNumber,
		TemplateID:           templateID,
		TemplateSource:       "https://example.com/bg.png",
		DestinationReference: "https://drive.google.com/drive/folders/F1",
		BatchID:              batchID,
	}
	if err := repo.Create(ctx, cert); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return cert
}

func TestCertificateRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCertificateRepository(db)
	ctx := context.Background()

	cert := createTestCertificate(t, repo, ctx, "ada@example.com", "PMPP B# c0001", "template1", "batch-1")
	if cert.ID == 0 {
		t.Error("expected ID to be set")
	}

	got, err := repo.GetBySerial(ctx, "PMPP B# c0001")
	if err != nil {
		t.Fatalf("GetBySerial failed: %v", err)
	}
	if got.Email != "ada@example.com" || got.TemplateID != "template1" || got.BatchID != "batch-1" {
		t.Errorf("unexpected certificate %+v", got)
	}
	if got.ArtifactReference != "" {
		t.Errorf("expected empty artifact reference, got %q", got.ArtifactReference)
	}
	if got.CreatedAt == "" {
		t.Error("expected CreatedAt to be set")
	}
}

func TestCertificateRepository_SerialIsUnique(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCertificateRepository(db)
	ctx := context.Background()

	createTestCertificate(t, repo, ctx, "ada@example.com", "PMPP B# c0001", "template1", "")

	err := repo.Create(ctx, &secondary.CertificateRecord{
		FullName:             "Someone Else",
		Email:                "else@example.com",
		SerialNumber:         "PMPP B# c0001",
		TemplateID:           "template1",
		TemplateSource:       "x",
		DestinationReference: "y",
	})
	if err == nil {
		t.Error("expected error for duplicate serial number")
	}
}

func TestCertificateRepository_GetBySerialNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCertificateRepository(db)

	if _, err := repo.GetBySerial(context.Background(), "nope"); err == nil {
		t.Error("expected error for missing certificate")
	}
}

func TestCertificateRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCertificateRepository(db)
	ctx := context.Background()

	createTestCertificate(t, repo, ctx, "ada@example.com", "PMPP B# c0001", "template1", "batch-1")
	createTestCertificate(t, repo, ctx, "ada@example.com", "SS B# c0001", "template3", "batch-1")
	createTestCertificate(t, repo, ctx, "bob@example.com", "PMPP B# c0002", "template1", "batch-2")

	all, err := repo.List(ctx, secondary.CertificateFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 certificates, got %d", len(all))
	}
	if all[0].SerialNumber != "PMPP B# c0002" {
		t.Errorf("expected newest first, got %s", all[0].SerialNumber)
	}

	byEmail, _ := repo.List(ctx, secondary.CertificateFilters{Email: "ada@example.com"})
	if len(byEmail) != 2 {
		t.Errorf("expected 2 certificates for ada, got %d", len(byEmail))
	}

	byTemplate, _ := repo.List(ctx, secondary.CertificateFilters{TemplateID: "template1"})
	if len(byTemplate) != 2 {
		t.Errorf("expected 2 template1 certificates, got %d", len(byTemplate))
	}

	byBatch, _ := repo.List(ctx, secondary.CertificateFilters{BatchID: "batch-2"})
	if len(byBatch) != 1 || byBatch[0].Email != "bob@example.com" {
		t.Errorf("expected bob's certificate for batch-2, got %+v", byBatch)
	}

	limited, _ := repo.List(ctx, secondary.CertificateFilters{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d", len(limited))
	}
}
