// Package archive bundles a recipient's rendered certificates into one ZIP.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"time"
)

// Builder accumulates files for exactly one recipient. Not safe for
// concurrent use; create a fresh Builder per recipient.
type Builder struct {
	entries []entry
	names   map[string]bool
	now     func() time.Time
}

type entry struct {
	name string
	data []byte
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		names: make(map[string]bool),
		now:   time.Now,
	}
}

// Add appends a file. Names are flattened to their base name; adding the
// same name twice is an error.
func (b *Builder) Add(name string, data []byte) error {
	base := path.Base(name)
	if base == "." || base == "/" || base == "" {
		return fmt.Errorf("invalid archive entry name %q", name)
	}
	if b.names[base] {
		return fmt.Errorf("duplicate archive entry %q", base)
	}
	b.names[base] = true
	b.entries = append(b.entries, entry{name: base, data: data})
	return nil
}

// Len returns the number of accumulated entries.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Finalize writes every entry into a deflate-compressed ZIP.
func (b *Builder) Finalize() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := b.now()

	for _, e := range b.entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, fmt.Errorf("failed to write %s to archive: %w", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
