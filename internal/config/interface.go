package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Extensions lists the file extensions (including the dot) the loader
	// understands.
	Extensions() []string

	// Load reads every given file, translates the records it finds into the
	// format-agnostic model and returns them.
	Load(ctx context.Context, files ...string) (*Model, error)
}
