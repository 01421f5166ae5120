// Package features derives per-genome feature data from the processed
// annotation: interval loci, representative proteins and length statistics.
package features

import (
	"context"
	"fmt"

	"github.com/vk/genhub/internal/coordinator"
	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/genomedb"
)

// DefaultLocusPocus is the iLocus binary looked up on PATH.
const DefaultLocusPocus = "locuspocus"

// Extractor implements coordinator.Extractor.
type Extractor struct {
	locusPocus string
}

// New creates an extractor that runs the given iLocus binary. An empty
// name means DefaultLocusPocus.
func New(locusPocus string) *Extractor {
	if locusPocus == "" {
		locusPocus = DefaultLocusPocus
	}
	return &Extractor{locusPocus: locusPocus}
}

var _ coordinator.Extractor = (*Extractor)(nil)

func file(g coordinator.Genome, suffix string) string {
	return g.Path(genomedb.FileName(g.Label(), suffix))
}

func logStep(ctx context.Context, g coordinator.Genome, msg string) {
	ctxlog.FromContext(ctx).Info(fmt.Sprintf("[GenHub: %s] %s", g.Species(), msg))
}
