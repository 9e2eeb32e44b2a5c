// Package storage holds the I/O collaborators around templates and images:
// template sources on disk, a Redis cache in front of them, and the S3
// image bucket.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSource reads template sources from a directory.
type FileSource struct {
	root string
}

// NewFileSource creates a reader rooted at root.
func NewFileSource(root string) *FileSource {
	return &FileSource{root: root}
}

// Read returns the contents of path, resolved under the root. Paths cannot
// escape the root.
func (f *FileSource) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("empty template path")
	}

	full := filepath.Join(f.root, filepath.Clean("/"+path))
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read template source %s: %w", path, err)
	}
	return string(data), nil
}
