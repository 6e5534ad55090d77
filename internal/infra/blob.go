package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore persists opaque binary snapshots (quote PDFs) on the local
// filesystem under a configured directory. The returned reference is the
// bare filename; it is what gets written into Presupuesto.PdfRef.
type BlobStore struct {
	dir string
}

func NewBlobStore(dir string) *BlobStore { return &BlobStore{dir: dir} }

// Store writes data under nombre and returns the blob reference.
func (b *BlobStore) Store(nombre string, data []byte) (string, error) {
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return "", fmt.Errorf("blob: create storage dir: %w", err)
	}
	nombre = filepath.Base(nombre)
	if err := os.WriteFile(filepath.Join(b.dir, nombre), data, 0644); err != nil {
		return "", fmt.Errorf("blob: write %s: %w", nombre, err)
	}
	return nombre, nil
}

// Fetch reads a previously stored blob by reference.
func (b *BlobStore) Fetch(ref string) ([]byte, error) {
	// Guard against path traversal — refs are always bare filenames.
	if ref == "" || strings.Contains(ref, "..") {
		return nil, fmt.Errorf("blob: referencia invalida %q", ref)
	}
	data, err := os.ReadFile(filepath.Join(b.dir, filepath.Base(ref)))
	if err != nil {
		return nil, fmt.Errorf("blob: read %s: %w", ref, err)
	}
	return data, nil
}
