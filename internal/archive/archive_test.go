package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestArchive_PreservesRelativeStructure(t *testing.T) {
	input := t.TempDir()
	archiveRoot := t.TempDir()
	src := filepath.Join(input, "vendor_x", "inv-001.pdf")
	writeFile(t, src, "pdf bytes")

	dest, err := NewArchiver(nil).Archive(src, archiveRoot, input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(archiveRoot, "vendor_x", "inv-001.pdf"), dest)

	moved, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(moved))

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestArchive_OutsideInputFallsBackToBaseName(t *testing.T) {
	input := t.TempDir()
	other := t.TempDir()
	archiveRoot := t.TempDir()
	src := filepath.Join(other, "stray.pdf")
	writeFile(t, src, "x")

	dest, err := NewArchiver(nil).Archive(src, archiveRoot, input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(archiveRoot, "stray.pdf"), dest)
}

func TestArchive_CollisionSuffixes(t *testing.T) {
	input := t.TempDir()
	archiveRoot := t.TempDir()

	for i, want := range []string{"inv.pdf", "inv_1.pdf", "inv_2.pdf"} {
		src := filepath.Join(input, "inv.pdf")
		writeFile(t, src, "copy")

		dest, err := NewArchiver(nil).Archive(src, archiveRoot, input)
		require.NoError(t, err, "round %d", i)
		assert.Equal(t, filepath.Join(archiveRoot, want), dest)
	}
}

func TestArchive_MissingSourceFails(t *testing.T) {
	input := t.TempDir()
	archiveRoot := t.TempDir()

	_, err := NewArchiver(nil).Archive(filepath.Join(input, "gone.pdf"), archiveRoot, input)
	assert.Error(t, err)
}
