// Package http_client provides the fetcher for genome data served over HTTP
// and HTTPS, built on a shared resty client.
package http_client

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/handlers"
	"resty.dev/v3"
)

// Module implements the handlers.Module interface for this package.
type Module struct {
	// Timeout bounds a whole transfer. Zero means no limit.
	Timeout time.Duration
	// Retries is the number of extra attempts after a failed request.
	Retries int
}

// Register registers one shared fetcher for both http and https.
func (m *Module) Register(h *handlers.Handlers) {
	f := &Fetcher{client: m.newClient()}
	h.Register("http", f)
	h.Register("https", f)
}

func (m *Module) newClient() *resty.Client {
	client := resty.New().
		SetRetryCount(m.Retries).
		SetHeader("User-Agent", "genhub")
	if m.Timeout > 0 {
		client.SetTimeout(m.Timeout)
	}
	return client
}

// Fetcher downloads one URL per request.
type Fetcher struct {
	client *resty.Client
}

// Fetch streams the response body into req.Dest.
func (f *Fetcher) Fetch(ctx context.Context, req *handlers.Request) error {
	logger := ctxlog.FromContext(ctx).With("url", req.Location)
	logger.Info("Downloading.", "dest", req.Dest, "compress", req.Compress)

	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(req.Location)
	if err != nil {
		return fmt.Errorf("failed to execute request for %s: %w", req.Location, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("download of %s failed with status: %s", req.Location, resp.Status())
	}

	if err := handlers.WriteFile(req.Dest, req.Compress, resp.Body); err != nil {
		return err
	}
	logger.Debug("Download complete.", "status", resp.Status())
	return nil
}
