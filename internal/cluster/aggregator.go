package cluster

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/fsutil"
	"github.com/vk/genhub/internal/notify"
	"golang.org/x/sync/errgroup"
)

// Output names under <workdir>/cluster/.
const (
	Dir        = "cluster"
	CorpusName = "all.prot.fa"
	OutputBase = "cdhit"
	TableName  = "hiloci.tsv"
)

// Options configure an Aggregator.
type Options struct {
	// Args is the clustering parameter string; empty means DefaultCDHitArgs.
	Args string
	// Threads is passed to the runner as its thread count.
	Threads int
}

// Aggregator runs cross-genome clustering.
type Aggregator struct {
	dir      string
	runner   Runner
	opts     Options
	notifier notify.Notifier
}

// New creates an aggregator writing under <workdir>/cluster.
func New(workdir string, runner Runner, opts Options, notifier notify.Notifier) *Aggregator {
	if opts.Args == "" {
		opts.Args = DefaultCDHitArgs
	}
	if opts.Threads < 1 {
		opts.Threads = 1
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Aggregator{dir: filepath.Join(workdir, Dir), runner: runner, opts: opts, notifier: notifier}
}

// Dir returns the aggregation output directory.
func (a *Aggregator) Dir() string { return a.dir }

// Run merges every input, clusters once and writes the cluster table.
func (a *Aggregator) Run(ctx context.Context, inputs []Input) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	if len(inputs) == 0 {
		return nil, ErrNoGenomes
	}
	inputs = append([]Input(nil), inputs...)
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Label < inputs[j].Label })

	for _, in := range inputs {
		for _, path := range []string{in.ProteinFile, in.MapFile} {
			ok, err := fsutil.NonEmpty(path)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, &MissingArtifactError{Label: in.Label, Path: path}
			}
		}
	}

	args, stripped := ParseArgs(a.opts.Args)
	if stripped {
		logger.Warn("Ignoring thread count in clustering arguments; using the worker count.", "threads", a.opts.Threads)
	}

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", a.dir, err)
	}
	corpus := filepath.Join(a.dir, CorpusName)

	logger.Info("[GenHub] merging protein corpora", "genomes", len(inputs))
	var protMap ProteinLocusMap
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return writeCorpus(gctx, corpus, inputs)
	})
	g.Go(func() error {
		m, err := mergeMaps(gctx, inputs)
		protMap = m
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("[GenHub] clustering proteins", "proteins", len(protMap), "args", strings.Join(args, " "), "threads", a.opts.Threads)
	clstr, err := a.runner.Run(ctx, corpus, filepath.Join(a.dir, OutputBase), a.opts.Threads, args)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(clstr)
	if err != nil {
		return nil, fmt.Errorf("failed to open cluster file: %w", err)
	}
	raw, err := parseClusters(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", clstr, err)
	}

	records, err := translate(raw, protMap)
	if err != nil {
		return nil, err
	}

	table := filepath.Join(a.dir, TableName)
	if err := fsutil.WriteAtomic(table, func(w io.Writer) error {
		return writeTable(w, records)
	}); err != nil {
		return nil, err
	}

	report := &Report{Genomes: len(inputs), Corpus: corpus, Table: table, Clusters: records}
	a.notifier.ClusterComplete(ctx, notify.ClusterSummary{Genomes: report.Genomes, Clusters: len(records), Table: table})
	return report, nil
}

func writeCorpus(ctx context.Context, dest string, inputs []Input) error {
	return fsutil.WriteAtomic(dest, func(w io.Writer) error {
		for _, in := range inputs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := appendFile(w, in.ProteinFile); err != nil {
				return fmt.Errorf("genome %s: %w", in.Label, err)
			}
		}
		return nil
	})
}

func appendFile(w io.Writer, path string) error {
	r, err := fsutil.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for sc.Scan() {
		if _, err := io.WriteString(w, sc.Text()+"\n"); err != nil {
			return err
		}
	}
	return sc.Err()
}

func mergeMaps(ctx context.Context, inputs []Input) (ProteinLocusMap, error) {
	merged := make(ProteinLocusMap)
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := mergeMap(merged, in); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

func mergeMap(merged ProteinLocusMap, in Input) error {
	r, err := fsutil.Open(in.MapFile)
	if err != nil {
		return err
	}
	defer r.Close()

	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		acc, locus, ok := strings.Cut(line, "\t")
		if !ok || acc == "" || locus == "" {
			return fmt.Errorf("%s line %d: expected accession and iLocus", in.MapFile, n)
		}
		if prev, dup := merged[acc]; dup {
			return &CollisionError{Accession: acc, First: prev.Genome, Second: in.Label}
		}
		merged[acc] = ProteinRecord{Accession: acc, Genome: in.Label, Species: in.Species, Locus: locus}
	}
	return sc.Err()
}
