// Package s3 provides the fetcher for genome data kept in S3-compatible
// object stores (AWS S3, MinIO).
package s3

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/handlers"
)

// DefaultEndpoint is used when neither the genome record nor the
// environment names an endpoint.
const DefaultEndpoint = "s3.amazonaws.com"

// EndpointEnv overrides DefaultEndpoint.
const EndpointEnv = "GENHUB_S3_ENDPOINT"

// Module implements the handlers.Module interface for this package.
type Module struct {
	// Region skips bucket-location lookups when set.
	Region string
}

// Register registers the fetcher for s3:// locations.
func (m *Module) Register(h *handlers.Handlers) {
	h.Register("s3", &Fetcher{region: m.Region, clients: make(map[string]*minio.Client)})
}

// Fetcher downloads objects, reusing one client per endpoint.
type Fetcher struct {
	region string

	mu      sync.Mutex
	clients map[string]*minio.Client
}

// Fetch streams the object named by req.Location into req.Dest.
func (f *Fetcher) Fetch(ctx context.Context, req *handlers.Request) error {
	bucket, key, err := ParseLocation(req.Location)
	if err != nil {
		return err
	}
	endpoint, secure := ResolveEndpoint(req.Endpoint)

	logger := ctxlog.FromContext(ctx).With("endpoint", endpoint, "bucket", bucket, "key", key)
	logger.Info("Downloading object.", "dest", req.Dest, "compress", req.Compress)

	client, err := f.client(endpoint, secure)
	if err != nil {
		return err
	}

	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to open s3 object %s: %w", req.Location, err)
	}
	defer obj.Close()

	if err := handlers.WriteFile(req.Dest, req.Compress, obj); err != nil {
		return fmt.Errorf("failed to download s3 object %s: %w", req.Location, err)
	}
	return nil
}

func (f *Fetcher) client(endpoint string, secure bool) (*minio.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cacheKey := fmt.Sprintf("%s|%t", endpoint, secure)
	if c, ok := f.clients[cacheKey]; ok {
		return c, nil
	}

	c, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.EnvMinio{},
		}),
		Secure: secure,
		Region: f.region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client for %s: %w", endpoint, err)
	}
	f.clients[cacheKey] = c
	return c, nil
}

// ParseLocation splits s3://bucket/path/to/key into bucket and key.
func ParseLocation(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 location %q: %w", location, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid s3 location %q: want s3://bucket/key", location)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("invalid s3 location %q: object key is required", location)
	}
	return u.Host, key, nil
}

// ResolveEndpoint picks the endpoint host and whether to use TLS. An explicit
// http:// prefix disables TLS.
func ResolveEndpoint(configured string) (host string, secure bool) {
	endpoint := configured
	if endpoint == "" {
		endpoint = os.Getenv(EndpointEnv)
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	secure = true
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		secure = u.Scheme != "http"
		endpoint = u.Host
	}
	return endpoint, secure
}
