package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/wcagcatalog/internal/model"
)

// CatalogWriter commits catalogs to disk.
type CatalogWriter struct {
	perm   os.FileMode
	logger *slog.Logger
}

// CatalogWriterOption configures a CatalogWriter.
type CatalogWriterOption func(*CatalogWriter)

// WithFileMode sets the permission bits of the written catalog.
func WithFileMode(perm os.FileMode) CatalogWriterOption {
	return func(w *CatalogWriter) {
		w.perm = perm
	}
}

// WithCatalogLogger sets a custom logger.
func WithCatalogLogger(logger *slog.Logger) CatalogWriterOption {
	return func(w *CatalogWriter) {
		w.logger = logger
	}
}

// NewCatalogWriter creates a CatalogWriter. Catalogs are written with mode
// 0644 unless configured otherwise.
func NewCatalogWriter(opts ...CatalogWriterOption) *CatalogWriter {
	w := &CatalogWriter{
		perm:   0o644,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteFile encodes c and atomically replaces path with it.
// On failure the previous file at path, if any, is left untouched.
func (w *CatalogWriter) WriteFile(path string, c *model.Catalog) error {
	data, err := EncodeCatalog(c)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync catalog: %w", err)
	}
	if err := tmp.Chmod(w.perm); err != nil {
		return fmt.Errorf("failed to set catalog permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close catalog: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		committed = true
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	committed = true

	w.logger.Debug("catalog written", "path", path, "bytes", len(data))
	return nil
}
