package genomedb

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/genhub/internal/config"
	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/fsutil"
	"github.com/vk/genhub/internal/handlers"
)

var dataTypeNames = map[string]string{
	config.GDNA: "genome sequence",
	config.GFF3: "genome annotation",
	config.Prot: "protein sequences",
}

// Download fetches every raw data file. Files already present with content
// are not fetched again, so repeating the stage is harmless.
func (db *DB) Download(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if err := os.MkdirAll(db.Dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create genome directory: %w", err)
	}

	for _, dt := range config.DataTypes {
		dest := db.RawPath(dt)
		if !db.cfg.IsLocal() {
			done, err := fsutil.NonEmpty(dest)
			if err != nil {
				return err
			}
			if done {
				logger.Info("Raw file already present, skipping download.", "dataType", dt, "path", dest)
				continue
			}
		}

		logger.Info(fmt.Sprintf("[GenHub: %s] download %s", db.Species(), dataTypeNames[dt]), "source", db.cfg.Source)
		req := &handlers.Request{
			Location: db.cfg.Location(dt),
			Dest:     dest,
			Compress: db.cfg.Compressed(dt),
			Endpoint: db.cfg.Endpoint,
		}
		if err := db.fetcher.Fetch(ctx, req); err != nil {
			return fmt.Errorf("download %s: %w", dt, err)
		}
	}
	return nil
}
