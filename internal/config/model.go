package config

import (
	"errors"
	"fmt"
	"sort"
)

// SourceLocal marks a user-supplied genome whose files already exist on disk.
const SourceLocal = "local"

// Data types managed for every genome.
const (
	GDNA = "gdna"
	GFF3 = "gff3"
	Prot = "prot"
)

// DataTypes lists the managed data types in processing order.
var DataTypes = []string{GDNA, GFF3, Prot}

// ErrInvalid is wrapped by every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Genome is the format-agnostic representation of one genome record.
type Genome struct {
	Label   string
	Species string
	Common  string
	Source  string

	// GDNA, GFF3 and Prot are file paths for local genomes and URLs
	// (http, https, s3) for every other source.
	GDNA string
	GFF3 string
	Prot string

	// Endpoint overrides the object-store endpoint for s3 locations.
	Endpoint string
	// Checksums maps a data type to the expected sha1 of its processed file.
	Checksums map[string]string
	// Compress lists data types whose raw downloads are gzip-compressed on disk.
	Compress []string
	// AnnotFilter lists substrings; annotation lines containing any are dropped.
	AnnotFilter []string

	// Origin is the file the record was loaded from, or "builtin".
	Origin string
}

// Location returns the configured location of a data type.
func (g *Genome) Location(dataType string) string {
	switch dataType {
	case GDNA:
		return g.GDNA
	case GFF3:
		return g.GFF3
	case Prot:
		return g.Prot
	}
	return ""
}

// Compressed reports whether raw downloads of dataType are kept gzip-compressed.
func (g *Genome) Compressed(dataType string) bool {
	for _, c := range g.Compress {
		if c == dataType {
			return true
		}
	}
	return false
}

// IsLocal reports whether the genome is user-supplied local data.
func (g *Genome) IsLocal() bool {
	return g.Source == SourceLocal
}

// Validate checks the record's invariants and fills defaults. Local
// records must name all three data files; the species defaults to the label.
func (g *Genome) Validate() error {
	if g.Label == "" {
		return fmt.Errorf("%w: genome label is required (from %s)", ErrInvalid, g.Origin)
	}
	if g.Source == "" {
		return fmt.Errorf("%w: genome %q: data source unconfigured", ErrInvalid, g.Label)
	}
	if g.Species == "" {
		if !g.IsLocal() {
			return fmt.Errorf("%w: genome %q: species is required", ErrInvalid, g.Label)
		}
		g.Species = g.Label
	}

	var missing []string
	for _, dt := range DataTypes {
		if g.Location(dt) == "" {
			missing = append(missing, dt)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: genome %q: missing required field(s) %v", ErrInvalid, g.Label, missing)
	}

	for dt := range g.Checksums {
		if !isDataType(dt) {
			return fmt.Errorf("%w: genome %q: checksum for unknown data type %q", ErrInvalid, g.Label, dt)
		}
	}
	for _, dt := range g.Compress {
		if !isDataType(dt) {
			return fmt.Errorf("%w: genome %q: compress names unknown data type %q", ErrInvalid, g.Label, dt)
		}
	}
	return nil
}

func isDataType(s string) bool {
	for _, dt := range DataTypes {
		if dt == s {
			return true
		}
	}
	return false
}

// Batch is a named group of genome labels.
type Batch struct {
	Label   string
	Genomes []string
	Origin  string
}

// Model is the unified, format-agnostic set of genome and batch records.
type Model struct {
	Genomes map[string]*Genome
	Batches map[string]*Batch
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		Genomes: make(map[string]*Genome),
		Batches: make(map[string]*Batch),
	}
}

// AddGenome validates g and inserts it. A label defined twice within the
// same model is an error.
func (m *Model) AddGenome(g *Genome) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if prev, ok := m.Genomes[g.Label]; ok {
		return fmt.Errorf("%w: genome %q defined in both %s and %s", ErrInvalid, g.Label, prev.Origin, g.Origin)
	}
	m.Genomes[g.Label] = g
	return nil
}

// AddBatch inserts b. A batch label defined twice is an error.
func (m *Model) AddBatch(b *Batch) error {
	if b.Label == "" {
		return fmt.Errorf("%w: batch label is required (from %s)", ErrInvalid, b.Origin)
	}
	if len(b.Genomes) == 0 {
		return fmt.Errorf("%w: batch %q lists no genomes", ErrInvalid, b.Label)
	}
	if prev, ok := m.Batches[b.Label]; ok {
		return fmt.Errorf("%w: batch %q defined in both %s and %s", ErrInvalid, b.Label, prev.Origin, b.Origin)
	}
	m.Batches[b.Label] = b
	return nil
}

// Merge adds every record of other into m.
func (m *Model) Merge(other *Model) error {
	for _, label := range sortedKeys(other.Genomes) {
		if err := m.AddGenome(other.Genomes[label]); err != nil {
			return err
		}
	}
	for _, label := range sortedKeys(other.Batches) {
		if err := m.AddBatch(other.Batches[label]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
