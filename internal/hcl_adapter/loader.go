package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/genhub/internal/config"
	"github.com/vk/genhub/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	workdir string
}

// NewLoader creates a new HCL configuration loader. The workdir is exposed
// to attribute expressions as the `workdir` variable.
func NewLoader(workdir string) *Loader {
	return &Loader{workdir: workdir}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".hcl"}
}

// Load parses every given HCL file and translates its genome and batch
// blocks into the agnostic model.
func (l *Loader) Load(ctx context.Context, files ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "file_count", len(files))

	model := config.NewModel()
	evalCtx := l.evalContext()

	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%w: failed to parse HCL file %s: %w", config.ErrInvalid, file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%w: failed to decode HCL file %s: %w", config.ErrInvalid, file, diags)
		}

		for _, block := range root.Genomes {
			if err := model.AddGenome(l.translateGenome(ctx, block, file)); err != nil {
				return nil, err
			}
		}
		for _, block := range root.Batches {
			if err := model.AddBatch(l.translateBatch(block, file)); err != nil {
				return nil, err
			}
		}
		logger.Debug("Loaded HCL file.", "file", file, "genomes", len(root.Genomes), "batches", len(root.Batches))
	}

	logger.Debug("HCL loading complete.", "genomes", len(model.Genomes), "batches", len(model.Batches))
	return model, nil
}
