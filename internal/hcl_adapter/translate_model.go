// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"

	"github.com/vk/genhub/internal/config"
	"github.com/vk/genhub/internal/ctxlog"
)

// translateGenome converts the HCL-specific genome schema into the agnostic model.
func (l *Loader) translateGenome(ctx context.Context, b *GenomeBlock, origin string) *config.Genome {
	logger := ctxlog.FromContext(ctx).With("genome", b.Label, "source", b.Source)
	logger.Debug("Translating HCL genome block.", "range", b.DeclRange.String())

	return &config.Genome{
		Label:       b.Label,
		Species:     b.Species,
		Common:      b.Common,
		Source:      b.Source,
		GDNA:        b.GDNA,
		GFF3:        b.GFF3,
		Prot:        b.Prot,
		Endpoint:    b.Endpoint,
		Checksums:   b.Checksums,
		Compress:    b.Compress,
		AnnotFilter: b.AnnotFilter,
		Origin:      origin,
	}
}

// translateBatch converts the HCL-specific batch schema into the agnostic model.
func (l *Loader) translateBatch(b *BatchBlock, origin string) *config.Batch {
	return &config.Batch{
		Label:   b.Label,
		Genomes: b.Genomes,
		Origin:  origin,
	}
}
