package features

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/vk/genhub/internal/coordinator"
	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/fsutil"
	"github.com/vk/genhub/internal/genomedb"
)

// Feature row types written to the features table.
const (
	TypeLocus  = "locus"
	TypeGene   = "gene"
	TypeMRNA   = "mRNA"
	TypeExon   = "exon"
	TypeIntron = "intron"
)

// FeatureTypes lists the rows of the features table in report order.
var FeatureTypes = []string{TypeLocus, TypeGene, TypeMRNA, TypeExon, TypeIntron}

type row struct {
	Type   string
	ID     string
	Locus  string
	Length int64
}

type mapping struct {
	Accession string
	Locus     string
}

type span struct{ start, end int64 }

// breakdown is the parsed content of an iLocus annotation.
type breakdown struct {
	rows     []row
	mappings []mapping
	loci     []string
}

// parseILoci follows the locus -> gene -> mRNA -> exon hierarchy. A locus
// is named by its Name attribute, a gene points at its locus through
// Parent, and an mRNA names its protein by protein_id or Name.
func parseILoci(r io.Reader) (*breakdown, error) {
	b := &breakdown{}
	locusName := make(map[string]string)
	geneLocus := make(map[string]string)
	mrnaLocus := make(map[string]string)
	exons := make(map[string][]span)
	var mrnaOrder []string
	seenAcc := make(map[string]bool)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		f, ok, err := parseFeature(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if !ok {
			continue
		}

		switch f.Type {
		case TypeLocus:
			id, name := f.Attrs["ID"], f.Attrs["Name"]
			if id == "" {
				continue
			}
			if name == "" {
				name = id
			}
			locusName[id] = name
			b.loci = append(b.loci, name)
			b.rows = append(b.rows, row{Type: TypeLocus, ID: name, Locus: name, Length: f.Len()})

		case TypeGene:
			id, parent := f.Attrs["ID"], f.Attrs["Parent"]
			if id == "" || parent == "" {
				return nil, fmt.Errorf("line %d: unable to parse gene and iLocus IDs", n)
			}
			name, ok := locusName[parent]
			if !ok {
				return nil, fmt.Errorf("line %d: gene %s references unknown iLocus %s", n, id, parent)
			}
			geneLocus[id] = name
			b.rows = append(b.rows, row{Type: TypeGene, ID: id, Locus: name, Length: f.Len()})

		case TypeMRNA:
			parent := f.Attrs["Parent"]
			acc := f.Attrs["protein_id"]
			if acc == "" {
				acc = f.Attrs["Name"]
			}
			if parent == "" || acc == "" {
				return nil, fmt.Errorf("line %d: unable to parse mRNA gene ID and protein accession", n)
			}
			name, ok := geneLocus[parent]
			if !ok {
				return nil, fmt.Errorf("line %d: mRNA %s references unknown gene %s", n, acc, parent)
			}
			id := f.Attrs["ID"]
			if id == "" {
				id = acc
			}
			mrnaLocus[id] = name
			mrnaOrder = append(mrnaOrder, id)
			b.rows = append(b.rows, row{Type: TypeMRNA, ID: id, Locus: name, Length: f.Len()})
			if !seenAcc[acc] {
				seenAcc[acc] = true
				b.mappings = append(b.mappings, mapping{Accession: acc, Locus: name})
			}

		case TypeExon:
			parent := f.Attrs["Parent"]
			name, ok := mrnaLocus[parent]
			if !ok {
				continue
			}
			exons[parent] = append(exons[parent], span{f.Start, f.End})
			b.rows = append(b.rows, row{Type: TypeExon, ID: parent, Locus: name, Length: f.Len()})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	for _, id := range mrnaOrder {
		spans := exons[id]
		sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
		for i := 1; i < len(spans); i++ {
			if gap := spans[i].start - spans[i-1].end - 1; gap > 0 {
				b.rows = append(b.rows, row{Type: TypeIntron, ID: id, Locus: mrnaLocus[id], Length: gap})
			}
		}
	}
	return b, nil
}

// Breakdown maps proteins to iLoci and selects the longest protein of each
// iLocus as its representative.
func (x *Extractor) Breakdown(ctx context.Context, g coordinator.Genome) error {
	logger := ctxlog.FromContext(ctx)
	logStep(ctx, g, "parsing protein->iLocus mapping")

	in, err := fsutil.Open(file(g, genomedb.SuffixILoci))
	if err != nil {
		return err
	}
	b, err := parseILoci(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("failed to parse iLoci of %s: %w", g.Label(), err)
	}

	seqs, err := readSequences(file(g, genomedb.SuffixAllProt))
	if err != nil {
		return err
	}

	reps, missing := representatives(b.mappings, seqs)
	if missing > 0 {
		logger.Warn("Mapped proteins missing from the protein file.", "missing", missing)
	}
	logger.Debug("Selected representative proteins.", "loci", len(b.loci), "proteins", len(b.mappings), "representatives", len(reps))

	if err := fsutil.WriteAtomic(file(g, genomedb.SuffixProt), func(w io.Writer) error {
		for _, m := range reps {
			if err := writeRecord(w, m.Accession, seqs[m.Accession]); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if err := fsutil.WriteAtomic(file(g, genomedb.SuffixProtMap), func(w io.Writer) error {
		for _, m := range b.mappings {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", m.Accession, m.Locus); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	return fsutil.WriteAtomic(file(g, genomedb.SuffixFeatures), func(w io.Writer) error {
		for _, r := range b.rows {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", r.Type, r.ID, r.Locus, r.Length); err != nil {
				return err
			}
		}
		return nil
	})
}

// representatives keeps, per locus in first-seen order, the mapped protein
// with the longest sequence. Ties go to the earlier protein.
func representatives(mappings []mapping, seqs map[string]string) (reps []mapping, missing int) {
	best := make(map[string]int)
	for _, m := range mappings {
		seq, ok := seqs[m.Accession]
		if !ok {
			missing++
			continue
		}
		i, ok := best[m.Locus]
		if !ok {
			best[m.Locus] = len(reps)
			reps = append(reps, m)
			continue
		}
		if len(seq) > len(seqs[reps[i].Accession]) {
			reps[i] = m
		}
	}
	return reps, missing
}
