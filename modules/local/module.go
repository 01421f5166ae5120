// Package local provides the fetcher for genome data that already lives on
// the local filesystem. Local genomes use their files in place; any other
// genome whose location is a path gets a copy in its own directory.
package local

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/fsutil"
	"github.com/vk/genhub/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Register registers the fetcher for plain paths and file:// URLs.
func (m *Module) Register(h *handlers.Handlers) {
	h.Register(handlers.SchemeFile, handlers.FetcherFunc(Fetch))
}

// Fetch verifies that the configured file exists and has content, then
// copies it to req.Dest unless the destination is the file itself.
func Fetch(ctx context.Context, req *handlers.Request) error {
	logger := ctxlog.FromContext(ctx)
	path := Path(req.Location)
	ok, err := fsutil.NonEmpty(path)
	if err != nil {
		return fmt.Errorf("failed to inspect local file %s: %w", path, err)
	}
	if !ok {
		return fmt.Errorf("local file %s is missing or empty", path)
	}

	if req.Dest == "" || filepath.Clean(req.Dest) == filepath.Clean(path) {
		logger.Debug("Using local file in place.", "path", path)
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open local file %s: %w", path, err)
	}
	defer f.Close()
	if err := handlers.WriteFile(req.Dest, req.Compress, f); err != nil {
		return err
	}
	logger.Debug("Copied local file.", "path", path, "dest", req.Dest, "compress", req.Compress)
	return nil
}

// Path strips a file:// prefix from a location.
func Path(location string) string {
	if handlers.Scheme(location) != handlers.SchemeFile {
		return location
	}
	if u, err := url.Parse(location); err == nil && u.Scheme == handlers.SchemeFile {
		return u.Path
	}
	return location
}
