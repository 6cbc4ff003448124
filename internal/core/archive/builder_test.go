package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestBuilder_Finalize(t *testing.T) {
	b := NewBuilder()
	if err := b.Add("PMPP_B#_Ada_Lovelace.pdf", []byte("%PDF-one")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := b.Add("nested/dir/SS_B#_Ada_Lovelace.pdf", []byte("%PDF-two")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	data, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(zr.File))
	}

	want := map[string]string{
		"PMPP_B#_Ada_Lovelace.pdf": "%PDF-one",
		"SS_B#_Ada_Lovelace.pdf":   "%PDF-two",
	}
	for _, f := range zr.File {
		content, ok := want[f.Name]
		if !ok {
			t.Errorf("unexpected entry %q", f.Name)
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		got, _ := io.ReadAll(rc)
		rc.Close()
		if string(got) != content {
			t.Errorf("entry %s: expected %q, got %q", f.Name, content, got)
		}
	}
}

func TestBuilder_RejectsDuplicates(t *testing.T) {
	b := NewBuilder()
	if err := b.Add("a.pdf", nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := b.Add("x/a.pdf", nil); err == nil {
		t.Error("expected error for duplicate base name")
	}
	if b.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", b.Len())
	}
}

func TestBuilder_EmptyArchive(t *testing.T) {
	data, err := NewBuilder().Finalize()
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	if len(zr.File) != 0 {
		t.Errorf("expected empty archive, got %d entries", len(zr.File))
	}
}
