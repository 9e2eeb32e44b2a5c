package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSourceRead(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "weekly"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "weekly", "index.html"), []byte("<html/>"), 0o644))

	src := NewFileSource(root)

	body, err := src.Read(context.Background(), "weekly/index.html")
	require.NoError(t, err)
	assert.Equal(t, "<html/>", body)

	_, err = src.Read(context.Background(), "missing.html")
	assert.Error(t, err)

	_, err = src.Read(context.Background(), "")
	assert.Error(t, err)
}

func TestFileSourceStaysUnderRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "templates")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("nope"), 0o644))

	_, err := NewFileSource(root).Read(context.Background(), "../secret.txt")
	assert.Error(t, err)
}
