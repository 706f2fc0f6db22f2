package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestDiscoverFiles_FiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.pdf"))
	touch(t, filepath.Join(root, "a.PNG"))
	touch(t, filepath.Join(root, "vendor", "c.jpeg"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "contract.doc"))
	touch(t, filepath.Join(root, "photo.bmp"))
	touch(t, filepath.Join(root, "scan.tiff"))

	got := DiscoverFiles(root, nil)

	want := []string{
		filepath.Join(root, "a.PNG"),
		filepath.Join(root, "b.pdf"),
		filepath.Join(root, "photo.bmp"),
		filepath.Join(root, "scan.tiff"),
		filepath.Join(root, "vendor", "c.jpeg"),
	}
	assert.Equal(t, want, got)
}

func TestDiscoverFiles_MissingRoot(t *testing.T) {
	got := DiscoverFiles(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	assert.Empty(t, got)
}

func TestDiscoverFiles_EmptyRoot(t *testing.T) {
	got := DiscoverFiles(t.TempDir(), nil)
	assert.Empty(t, got)
}

func TestDiscoverFiles_SkipsDirectoriesNamedLikeFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "folder.pdf"), 0o755))
	touch(t, filepath.Join(root, "folder.pdf", "inner.png"))

	got := DiscoverFiles(root, nil)
	assert.Equal(t, []string{filepath.Join(root, "folder.pdf", "inner.png")}, got)
}
