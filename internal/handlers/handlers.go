// Package handlers maps location schemes to the fetchers that download genome
// data from them. Fetchers are contributed by the packages under modules/.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
)

// SchemeFile is the scheme of plain filesystem paths.
const SchemeFile = "file"

// Request describes one raw data file to obtain.
type Request struct {
	// Location is the configured source: a path or a URL.
	Location string
	// Dest is where the raw file must end up. It equals Location for data
	// that is used in place.
	Dest string
	// Compress asks for the raw file to be stored gzip-compressed.
	Compress bool
	// Endpoint overrides the object-store endpoint for s3 locations.
	Endpoint string
}

// Fetcher obtains raw data for one location scheme.
type Fetcher interface {
	Fetch(ctx context.Context, req *Request) error
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, req *Request) error

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, req *Request) error {
	return f(ctx, req)
}

// Module is the interface that all fetcher modules implement to be registered.
type Module interface {
	Register(h *Handlers)
}

// Handlers holds all the registered fetchers keyed by scheme.
type Handlers struct {
	all map[string]Fetcher
}

// New creates an empty handler set and registers every given module.
func New(modules ...Module) *Handlers {
	h := &Handlers{
		all: make(map[string]Fetcher),
	}
	for _, m := range modules {
		m.Register(h)
	}
	return h
}

// Register registers a fetcher for a scheme.
func (h *Handlers) Register(scheme string, f Fetcher) {
	scheme = strings.ToLower(scheme)
	if _, exists := h.all[scheme]; exists {
		panic(fmt.Sprintf("fetcher for scheme '%s' already registered", scheme))
	}
	slog.Debug("Registering fetcher.", "scheme", scheme)
	h.all[scheme] = f
}

// Schemes lists the registered schemes.
func (h *Handlers) Schemes() []string {
	out := make([]string, 0, len(h.all))
	for s := range h.all {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Fetch dispatches req to the fetcher that owns its location's scheme.
func (h *Handlers) Fetch(ctx context.Context, req *Request) error {
	scheme := Scheme(req.Location)
	f, ok := h.all[scheme]
	if !ok {
		return fmt.Errorf("no fetcher for scheme %q (location %s); known: %s", scheme, req.Location, strings.Join(h.Schemes(), ","))
	}
	return f.Fetch(ctx, req)
}

// Scheme returns the lower-cased scheme of a location, SchemeFile for paths.
func Scheme(location string) string {
	u, err := url.Parse(location)
	if err != nil || len(u.Scheme) < 2 {
		return SchemeFile
	}
	return strings.ToLower(u.Scheme)
}
