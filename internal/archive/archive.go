package archive

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Archiver relocates processed source files into an archive tree that mirrors
// the input directory layout. Unlike the extraction stages, archival errors
// propagate: the batch loop decides how to handle them.
type Archiver struct {
	logger *slog.Logger
}

func NewArchiver(logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{logger: logger}
}

// Archive moves sourceFile under archiveRoot, preserving its path relative to
// inputRoot when the file lives inside it, and falling back to the base name
// otherwise. Name collisions get monotonically increasing _1, _2, ... suffixes.
// Returns the destination path.
func (a *Archiver) Archive(sourceFile, archiveRoot, inputRoot string) (string, error) {
	dest := filepath.Join(archiveRoot, filepath.Base(sourceFile))
	if rel, err := filepath.Rel(inputRoot, sourceFile); err == nil && !strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel) {
		dest = filepath.Join(archiveRoot, rel)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	dest, err := resolveCollision(dest)
	if err != nil {
		return "", err
	}

	if err := os.Rename(sourceFile, dest); err != nil {
		return "", fmt.Errorf("move %s: %w", sourceFile, err)
	}
	a.logger.Info("archive.moved", "from", sourceFile, "to", dest)
	return dest, nil
}

// resolveCollision finds the first free destination path, always starting the
// suffix search at 1 and incrementing by 1.
func resolveCollision(dest string) (string, error) {
	if _, err := os.Stat(dest); os.IsNotExist(err) {
		return dest, nil
	} else if err != nil {
		return "", fmt.Errorf("stat %s: %w", dest, err)
	}

	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(dest, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		} else if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
	}
}
