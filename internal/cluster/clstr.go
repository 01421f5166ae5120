package cluster

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type rawCluster struct {
	ID      string
	Members []string
}

// parseClusters reads a cd-hit .clstr file. Cluster and member order are
// preserved.
//
//	>Cluster 0
//	0	120aa, >XP_001... *
//	1	118aa, >XP_002... at 95.00%
func parseClusters(r io.Reader) ([]rawCluster, error) {
	var clusters []rawCluster
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if id, ok := strings.CutPrefix(line, ">Cluster"); ok {
			clusters = append(clusters, rawCluster{ID: strings.TrimSpace(id)})
			continue
		}
		if len(clusters) == 0 {
			return nil, fmt.Errorf("line %d: member before first cluster header", n)
		}
		_, rest, ok := strings.Cut(line, ">")
		if !ok {
			return nil, fmt.Errorf("line %d: malformed cluster member %q", n, line)
		}
		acc, _, ok := strings.Cut(rest, "...")
		if !ok || acc == "" {
			return nil, fmt.Errorf("line %d: malformed cluster member %q", n, line)
		}
		last := &clusters[len(clusters)-1]
		last.Members = append(last.Members, acc)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return clusters, nil
}

// translate maps every member through the protein map.
func translate(raw []rawCluster, m ProteinLocusMap) ([]Record, error) {
	out := make([]Record, 0, len(raw))
	for _, c := range raw {
		rec := Record{
			ID:         c.ID,
			Accessions: c.Members,
			Loci:       make([]string, len(c.Members)),
			Species:    make([]string, len(c.Members)),
		}
		distinct := make(map[string]bool)
		for i, acc := range c.Members {
			p, ok := m[acc]
			if !ok {
				return nil, &UnknownAccessionError{Accession: acc, Cluster: c.ID}
			}
			rec.Loci[i] = p.Locus
			rec.Species[i] = p.Species
			distinct[p.Species] = true
		}
		rec.SpeciesCount = len(distinct)
		out = append(out, rec)
	}
	return out, nil
}

func writeTable(w io.Writer, records []Record) error {
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%s\t%s\n",
			len(r.Accessions), r.SpeciesCount,
			strings.Join(r.Loci, ","), strings.Join(r.Species, ",")); err != nil {
			return err
		}
	}
	return nil
}
