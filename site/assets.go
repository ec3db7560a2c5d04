package site

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// CopyAssets recursively copies srcDir into dstDir, fully replacing any
// previous copy. A missing source directory logs a warning and skips
// the copy; the page itself is still usable without assets.
func CopyAssets(srcDir, dstDir string) error {
	info, err := os.Stat(srcDir)
	if err != nil || !info.IsDir() {
		slog.Warn("static assets directory missing, skipping copy", "dir", srcDir)
		return nil
	}

	if err := os.RemoveAll(dstDir); err != nil {
		return fmt.Errorf("failed to clear asset directory: %w", err)
	}

	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dstDir, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read asset %s: %w", path, err)
		}
		return os.WriteFile(target, data, 0o644)
	})
}
