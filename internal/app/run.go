package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/vk/genhub/internal/cluster"
	"github.com/vk/genhub/internal/config"
	"github.com/vk/genhub/internal/coordinator"
	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/executor"
	"github.com/vk/genhub/internal/fsutil"
	"github.com/vk/genhub/internal/genomedb"
	"github.com/vk/genhub/internal/notify"
	"github.com/vk/genhub/internal/stage"
)

// Summary is the outcome of a run.
type Summary struct {
	Succeeded []string
	Failed    map[string]error
	Cluster   *cluster.Report
}

// Run executes the requested tasks. Configuration problems are returned
// before any genome is dispatched. Per-genome failures are collected over
// both passes and returned together after the run.
func (a *App) Run(ctx context.Context) (*Summary, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")
	cfg := a.config

	if cfg.List() {
		return &Summary{}, a.List(a.outW)
	}

	genomes, err := a.registry.Resolve(cfg.Genomes, cfg.Batch)
	if err != nil {
		return nil, err
	}
	if len(genomes) == 0 {
		a.logger.Warn("No genomes or batch specified; nothing to do.")
		return &Summary{}, nil
	}

	notifier, closeNotifier, err := a.notifier(ctx)
	if err != nil {
		return nil, err
	}
	defer closeNotifier()

	if cfg.StatusPort > 0 {
		stop := a.startStatusServer(ctx, cfg.StatusPort)
		defer stop()
	}

	labels := make([]string, len(genomes))
	for i, g := range genomes {
		labels[i] = g.Label
	}
	a.tracker.Register(labels...)

	stages := cfg.Stages()
	first, second := stages, stage.Set(0)
	if stages.Has(stage.Cluster) {
		first = stages.Before(stage.Cluster)
		second = stages.After(stage.Cluster)
	}

	a.logger.Info("🚀 Starting genome builds.", "genomes", labels, "stages", stages.String(), "workers", cfg.Workers)
	exec := a.newExecutor(notifier)
	summary := &Summary{Failed: make(map[string]error)}

	announce := second.Empty()
	results, err := exec.Run(ctx, jobs(genomes, first, cfg.Options(), announce))
	if err != nil {
		if !isBuildFailure(err) {
			return nil, err
		}
		if !cfg.KeepGoing {
			return summary, a.report(results, summary, err)
		}
	}
	collect(results, summary)

	if stages.Has(stage.Cluster) {
		inputs, err := a.eligible(ctx, genomes, results, first.Has(stage.Breakdown))
		if err != nil {
			return summary, err
		}
		if len(inputs) == 0 {
			a.logger.Warn("No genomes eligible for clustering; skipping aggregation.")
		} else {
			agg := cluster.New(cfg.Workdir, a.runner, cluster.Options{Args: cfg.CDHitArgs, Threads: cfg.Workers}, notifier)
			report, err := agg.Run(ctx, inputs)
			if err != nil {
				return summary, fmt.Errorf("cluster aggregation failed: %w", err)
			}
			summary.Cluster = report
		}
	}

	if !second.Empty() {
		var ok []*config.Genome
		for _, g := range genomes {
			if _, failed := summary.Failed[g.Label]; !failed {
				ok = append(ok, g)
			}
		}
		results, err = exec.Run(ctx, jobs(ok, second, cfg.Options(), true))
		if err != nil {
			if !isBuildFailure(err) {
				return nil, err
			}
			if !cfg.KeepGoing {
				return summary, a.report(results, summary, err)
			}
		}
		collect(results, summary)
	}

	a.logger.Debug("App.Run method finished.")
	if len(summary.Failed) > 0 {
		return summary, a.report(nil, summary, nil)
	}
	a.logger.Info("🏁 All builds finished.", "genomes", len(summary.Succeeded))
	return summary, nil
}

func (a *App) newExecutor(n notify.Notifier) *executor.Executor {
	open := func(g *config.Genome) (coordinator.Genome, error) {
		return genomedb.New(g, a.config.Workdir, a.handlers), nil
	}
	var opts []executor.Option
	if a.config.KeepGoing {
		opts = append(opts, executor.WithKeepGoing())
	}
	return executor.New(a.config.Workers, coordinator.New(a.extractor, n), open, n, opts...)
}

// notifier assembles the log, tracker and optional socket sinks.
func (a *App) notifier(ctx context.Context) (notify.Notifier, func(), error) {
	sinks := notify.Multi{notify.Log{}, a.tracker}
	if a.config.ProgressURL == "" {
		return sinks, func() {}, nil
	}
	sock, err := notify.NewSocket(ctx, a.tracker.RunID(), notify.SocketOptions{URL: a.config.ProgressURL})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}
	return append(sinks, sock), func() { _ = sock.Close() }, nil
}

// isBuildFailure reports whether err is the executor's per-genome failure
// aggregate rather than a problem with the request itself.
func isBuildFailure(err error) bool {
	var buildErr *executor.BuildError
	return errors.As(err, &buildErr)
}

func jobs(genomes []*config.Genome, stages stage.Set, opts coordinator.Options, announce bool) []executor.Job {
	out := make([]executor.Job, len(genomes))
	for i, g := range genomes {
		out[i] = executor.Job{Label: g.Label, Genome: g, Stages: stages, Options: opts, Announce: announce}
	}
	return out
}

func collect(results executor.Results, s *Summary) {
	for _, label := range results.Succeeded() {
		if !slices.Contains(s.Succeeded, label) {
			s.Succeeded = append(s.Succeeded, label)
		}
	}
	for _, label := range results.Failed() {
		s.Failed[label] = results[label].Err
		s.Succeeded = slices.DeleteFunc(s.Succeeded, func(l string) bool { return l == label })
	}
	sort.Strings(s.Succeeded)
}

// eligible selects the genomes that feed aggregation: a genome that built
// successfully and either ran breakdown now or already has both artifacts.
// A genome whose breakdown just ran is always included so that missing
// artifacts surface as an aggregation error.
func (a *App) eligible(ctx context.Context, genomes []*config.Genome, results executor.Results, ranBreakdown bool) ([]cluster.Input, error) {
	logger := ctxlog.FromContext(ctx)
	var inputs []cluster.Input
	for _, g := range genomes {
		res, ok := results[g.Label]
		if !ok || res.Err != nil {
			logger.Warn("Excluding failed genome from clustering.", "genome", g.Label)
			continue
		}
		db := genomedb.New(g, a.config.Workdir, a.handlers)
		in := cluster.Input{Label: g.Label, Species: g.Species, ProteinFile: db.ProteinFile(), MapFile: db.ProteinMapFile()}

		if !ranBreakdown {
			present, err := artifactsPresent(in)
			if err != nil {
				return nil, err
			}
			if !present {
				logger.Warn("Excluding genome without breakdown output from clustering.", "genome", g.Label)
				continue
			}
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func artifactsPresent(in cluster.Input) (bool, error) {
	for _, p := range []string{in.ProteinFile, in.MapFile} {
		ok, err := fsutil.NonEmpty(p)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// report logs every failed genome with its cause and returns the combined
// error. When cause is given it is returned as is.
func (a *App) report(results executor.Results, s *Summary, cause error) error {
	if results != nil {
		collect(results, s)
	}
	labels := make([]string, 0, len(s.Failed))
	for l := range s.Failed {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	var merr *multierror.Error
	for _, l := range labels {
		a.logger.Error("Genome failed.", "genome", l, "error", s.Failed[l])
		merr = multierror.Append(merr, &executor.BuildError{Label: l, Err: s.Failed[l]})
	}
	a.logger.Error("Build finished with failures.", "failed", labels, "succeeded", len(s.Succeeded))
	if cause != nil {
		return cause
	}
	return merr.ErrorOrNil()
}
