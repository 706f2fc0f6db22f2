package ingest

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
)

// DiscoverFiles walks root and returns every supported invoice file,
// deduplicated and sorted by full path for a reproducible processing order.
// A missing or unreadable root is treated as zero files found, not an error.
func DiscoverFiles(root string, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(root); err != nil {
		logger.Error("ingest.directory_missing", "dir", root, "error", err)
		return nil
	}

	seen := map[string]struct{}{}
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn("ingest.walk_error", "path", path, "error", walkErr)
			return nil // continue walking
		}
		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			return nil
		}
		if _, dup := seen[path]; dup {
			return nil
		}
		seen[path] = struct{}{}
		files = append(files, path)
		return nil
	})
	if err != nil {
		logger.Warn("ingest.walk_aborted", "dir", root, "error", err)
	}

	sort.Strings(files)
	logger.Info("ingest.discovered", "dir", root, "files", len(files))
	logDirectoryBreakdown(root, files, logger)
	return files
}

func logDirectoryBreakdown(root string, files []string, logger *slog.Logger) {
	if len(files) == 0 {
		return
	}
	counts := map[string]int{}
	for _, f := range files {
		rel, err := filepath.Rel(root, filepath.Dir(f))
		if err != nil || rel == "." {
			rel = "root"
		}
		counts[rel]++
	}
	dirs := make([]string, 0, len(counts))
	for d := range counts {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	for _, d := range dirs {
		logger.Info("ingest.directory_breakdown", "dir", d, "files", counts[d])
	}
}
