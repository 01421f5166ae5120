package features

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/vk/genhub/internal/coordinator"
	"github.com/vk/genhub/internal/fsutil"
	"github.com/vk/genhub/internal/genomedb"
)

const (
	minTrackable int64 = 1
	maxTrackable int64 = 10_000_000_000
	sigFigs            = 3
)

// Summary is one row of the stats table.
type Summary struct {
	Type  string
	Count int64
	Mean  float64
	P50   int64
	P90   int64
	Max   int64
}

// lengths accumulates one feature type. The histogram buckets values to
// sigFigs significant figures, so the maximum is tracked exactly beside it.
type lengths struct {
	hist *hdrhistogram.Histogram
	max  int64
}

func (l *lengths) record(v int64) error {
	if err := l.hist.RecordValue(v); err != nil {
		return err
	}
	l.max = max(l.max, v)
	return nil
}

func summarize(typ string, l *lengths) Summary {
	s := Summary{Type: typ, Count: l.hist.TotalCount()}
	if s.Count == 0 {
		return s
	}
	s.Mean = l.hist.Mean()
	s.P50 = l.hist.ValueAtPercentile(50)
	s.P90 = l.hist.ValueAtPercentile(90)
	s.Max = l.max
	return s
}

// summarizeFeatures reads a features table and summarizes lengths per
// feature type in FeatureTypes order.
func summarizeFeatures(r io.Reader) ([]Summary, error) {
	hists := make(map[string]*lengths, len(FeatureTypes))
	for _, t := range FeatureTypes {
		hists[t] = &lengths{hist: hdrhistogram.New(minTrackable, maxTrackable, sigFigs)}
	}

	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: expected 4 columns, found %d", n, len(fields))
		}
		h, ok := hists[fields[0]]
		if !ok {
			continue
		}
		length, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid length %q: %w", n, fields[3], err)
		}
		if err := h.record(length); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	out := make([]Summary, len(FeatureTypes))
	for i, t := range FeatureTypes {
		out[i] = summarize(t, hists[t])
	}
	return out, nil
}

// Stats writes per-type length statistics of the genome's features.
func (x *Extractor) Stats(ctx context.Context, g coordinator.Genome) error {
	logStep(ctx, g, "computing feature statistics")

	in, err := fsutil.Open(file(g, genomedb.SuffixFeatures))
	if err != nil {
		return err
	}
	summaries, err := summarizeFeatures(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("failed to summarize features of %s: %w", g.Label(), err)
	}

	return fsutil.WriteAtomic(file(g, genomedb.SuffixStats), func(w io.Writer) error {
		if _, err := fmt.Fprintln(w, "type\tcount\tmean\tp50\tp90\tmax"); err != nil {
			return err
		}
		for _, s := range summaries {
			if _, err := fmt.Fprintf(w, "%s\t%d\t%.1f\t%d\t%d\t%d\n", s.Type, s.Count, s.Mean, s.P50, s.P90, s.Max); err != nil {
				return err
			}
		}
		return nil
	})
}
