package notify

import (
	"context"
	"fmt"

	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/stage"
)

// Log writes events to the logger carried by the context.
type Log struct{}

func (Log) StageStarted(ctx context.Context, label string, s stage.Name) {
	ctxlog.FromContext(ctx).Debug("Stage dispatched.", "genome", label, "stage", string(s))
}

func (Log) GenomeComplete(ctx context.Context, label, species string) {
	ctxlog.FromContext(ctx).Info(fmt.Sprintf("[GenHub: %s] build complete!", species), "genome", label)
}

func (Log) GenomeFailed(ctx context.Context, label string, err error) {
	ctxlog.FromContext(ctx).Error("Genome build failed.", "genome", label, "error", err)
}

func (Log) ClusterComplete(ctx context.Context, summary ClusterSummary) {
	ctxlog.FromContext(ctx).Info("[GenHub] cluster complete!", "genomes", summary.Genomes, "clusters", summary.Clusters, "table", summary.Table)
}
