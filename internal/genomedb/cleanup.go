package genomedb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vk/genhub/internal/ctxlog"
)

// Cleanup deletes intermediate files from the genome directory. Files whose
// base name matches a keep pattern survive. Raw downloads survive unless
// full is set. Data used in place from outside the directory is never
// touched.
func (db *DB) Cleanup(ctx context.Context, keep []string, full bool) error {
	logger := ctxlog.FromContext(ctx)

	for _, pattern := range keep {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid keep pattern %q: %w", pattern, err)
		}
	}

	entries, err := os.ReadDir(db.Dir())
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("Nothing to clean up.", "dir", db.Dir())
		return nil
	}
	if err != nil {
		return err
	}

	raw := db.rawNames()
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || kept(name, keep) || (raw[name] && !full) {
			continue
		}
		if err := os.Remove(filepath.Join(db.Dir(), name)); err != nil {
			return fmt.Errorf("cleanup: %w", err)
		}
		removed++
	}
	logger.Info(fmt.Sprintf("[GenHub: %s] cleanup", db.Species()), "removed", removed, "full", full)
	return nil
}

func kept(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
