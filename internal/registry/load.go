package registry

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/vk/genhub/internal/config"
	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/fsutil"
	"github.com/vk/genhub/internal/yaml_adapter"
)

//go:embed genomes/*.yml
var builtinFS embed.FS

// Builtin decodes the embedded genome set.
func Builtin() (*config.Model, error) {
	files, err := fs.Glob(builtinFS, "genomes/*.yml")
	if err != nil {
		return nil, err
	}

	model := config.NewModel()
	for _, file := range files {
		data, err := builtinFS.ReadFile(file)
		if err != nil {
			return nil, err
		}
		part, err := yaml_adapter.Decode("builtin:"+path.Base(file), data)
		if err != nil {
			return nil, err
		}
		if err := model.Merge(part); err != nil {
			return nil, err
		}
	}
	return model, nil
}

// LoadUser walks each configuration directory and hands every file to the
// loader that claims its extension. Records from all loaders are merged into
// one model; a label defined twice across user files is an error.
func LoadUser(ctx context.Context, dirs []string, loaders ...config.Loader) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := config.NewModel()

	for _, dir := range dirs {
		for _, loader := range loaders {
			files, err := fsutil.FindFilesByExtension(dir, loader.Extensions()...)
			if err != nil {
				return nil, fmt.Errorf("%w: configuration directory %s: %w", config.ErrInvalid, dir, err)
			}
			if len(files) == 0 {
				continue
			}
			part, err := loader.Load(ctx, files...)
			if err != nil {
				return nil, err
			}
			if err := model.Merge(part); err != nil {
				return nil, err
			}
		}
		logger.Debug("Loaded configuration directory.", "dir", dir)
	}

	logger.Debug("User configuration loaded.", "genomes", len(model.Genomes), "batches", len(model.Batches))
	return model, nil
}

// Load builds the full registry: built-ins plus every record found in dirs.
func Load(ctx context.Context, dirs []string, loaders ...config.Loader) (*Registry, error) {
	builtin, err := Builtin()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in genomes: %w", err)
	}
	user, err := LoadUser(ctx, dirs, loaders...)
	if err != nil {
		return nil, err
	}
	reg, err := New(builtin, user)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Info("Registry loaded successfully.", "genomes", len(reg.genomes), "batches", len(reg.batches))
	return reg, nil
}
