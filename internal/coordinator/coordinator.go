package coordinator

import (
	"context"
	"fmt"

	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/notify"
	"github.com/vk/genhub/internal/stage"
)

// StageError reports the stage at which a genome's build stopped.
type StageError struct {
	Label string
	Stage stage.Name
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("genome %s: stage %s: %v", e.Label, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Coordinator runs stages for one genome at a time.
type Coordinator struct {
	extractor Extractor
	notifier  notify.Notifier
}

// New creates a coordinator. A nil notifier discards events.
func New(extractor Extractor, notifier notify.Notifier) *Coordinator {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Coordinator{extractor: extractor, notifier: notifier}
}

// Build runs every stage in stages, in catalog order. The cluster stage has
// no per-genome work. When announce is set, a successful build emits exactly
// one completion event.
func (c *Coordinator) Build(ctx context.Context, g Genome, stages stage.Set, opts Options, announce bool) error {
	ctx, logger := ctxlog.With(ctx, "genome", g.Label())
	logger.Debug("Genome build started.", "stages", stages.String())

	for _, name := range stages.Ordered() {
		stageCtx, stageLogger := ctxlog.With(ctx, "stage", string(name))
		c.notifier.StageStarted(stageCtx, g.Label(), name)
		stageLogger.Debug("Stage started.")

		if err := c.runStage(stageCtx, g, name, opts); err != nil {
			stageLogger.Error("Stage failed.", "error", err)
			return &StageError{Label: g.Label(), Stage: name, Err: err}
		}
		stageLogger.Debug("Stage finished.")
	}

	if announce {
		c.notifier.GenomeComplete(ctx, g.Label(), g.Species())
	}
	return nil
}

func (c *Coordinator) runStage(ctx context.Context, g Genome, name stage.Name, opts Options) error {
	switch name {
	case stage.Download:
		return g.Download(ctx)
	case stage.Prep:
		return g.Prep(ctx, opts.Strict)
	case stage.ILoci:
		return c.extractor.ILoci(ctx, g, opts.Delta, opts.ILocusFormat)
	case stage.Breakdown:
		return c.extractor.Breakdown(ctx, g)
	case stage.Stats:
		return c.extractor.Stats(ctx, g)
	case stage.Cluster:
		return nil
	case stage.Cleanup:
		return g.Cleanup(ctx, opts.Keep, opts.FullClean)
	}
	return &stage.UnknownError{Name: string(name)}
}
