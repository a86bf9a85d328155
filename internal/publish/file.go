package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/groblegark/depgraph/internal/idgen"
)

// FileDestination writes the graph document to a local file path.
type FileDestination struct {
	path string
}

// NewFileDestination creates a destination that writes to path, creating
// parent directories as needed.
func NewFileDestination(path string) *FileDestination {
	return &FileDestination{path: path}
}

// Path returns the destination file path.
func (d *FileDestination) Path() string {
	return d.path
}

// Write replaces the file contents atomically, so a reader never observes a
// partially written document.
func (d *FileDestination) Write(ctx context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	suffix, err := idgen.Suffix()
	if err != nil {
		return fmt.Errorf("generating temp file name: %w", err)
	}
	tmp := d.path + ".tmp-" + suffix

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", d.path, err)
	}
	return nil
}
