package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/genhub/internal/config"
)

// ErrUnknownLabel is wrapped when a genome or batch label does not resolve.
var ErrUnknownLabel = errors.New("unknown label")

// ErrGenomesAndBatch is returned when both explicit genomes and a batch are requested.
var ErrGenomesAndBatch = errors.New("genomes and batch are mutually exclusive")

// CollisionError reports a user record whose label shadows a built-in record.
type CollisionError struct {
	Kind   string
	Label  string
	Origin string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s label %q from %s collides with a built-in %s", e.Kind, e.Label, e.Origin, e.Kind)
}

// Registry holds the merged genome and batch records for one invocation.
type Registry struct {
	genomes map[string]*config.Genome
	batches map[string]*config.Batch
	builtin map[string]bool
}

// New creates a registry from the built-in model and the user model. Either
// may be nil.
func New(builtin, user *config.Model) (*Registry, error) {
	r := &Registry{
		genomes: make(map[string]*config.Genome),
		batches: make(map[string]*config.Batch),
		builtin: make(map[string]bool),
	}

	if builtin != nil {
		for label, g := range builtin.Genomes {
			r.genomes[label] = g
			r.builtin[label] = true
		}
		for label, b := range builtin.Batches {
			r.batches[label] = b
		}
	}

	if user != nil {
		for _, label := range sortedKeys(user.Genomes) {
			g := user.Genomes[label]
			if _, ok := r.genomes[label]; ok {
				return nil, &CollisionError{Kind: "genome", Label: label, Origin: g.Origin}
			}
			r.genomes[label] = g
		}
		for _, label := range sortedKeys(user.Batches) {
			b := user.Batches[label]
			if _, ok := r.batches[label]; ok {
				return nil, &CollisionError{Kind: "batch", Label: label, Origin: b.Origin}
			}
			r.batches[label] = b
		}
	}

	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// IsBuiltin reports whether label names a built-in genome.
func (r *Registry) IsBuiltin(label string) bool {
	return r.builtin[label]
}

// Genomes resolves labels to genome records, preserving the requested order.
// A label requested twice is a configuration error.
func (r *Registry) Genomes(labels []string) ([]*config.Genome, error) {
	out := make([]*config.Genome, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	var unknown []string
	for _, label := range labels {
		if seen[label] {
			return nil, fmt.Errorf("%w: genome %q requested more than once", config.ErrInvalid, label)
		}
		seen[label] = true
		g, ok := r.genomes[label]
		if !ok {
			unknown = append(unknown, label)
			continue
		}
		out = append(out, g)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: genome(s) %s", ErrUnknownLabel, strings.Join(unknown, ","))
	}
	return out, nil
}

// Batch resolves a batch label to its member genome records.
func (r *Registry) Batch(label string) ([]*config.Genome, error) {
	b, ok := r.batches[label]
	if !ok {
		return nil, fmt.Errorf("%w: batch %q", ErrUnknownLabel, label)
	}
	return r.Genomes(b.Genomes)
}

// Check verifies that a request names either genomes or a batch, not both,
// and that everything it names resolves.
func (r *Registry) Check(genomes []string, batch string) error {
	if len(genomes) > 0 && batch != "" {
		return ErrGenomesAndBatch
	}
	if batch != "" {
		_, err := r.Batch(batch)
		return err
	}
	_, err := r.Genomes(genomes)
	return err
}

// Resolve is Check followed by the matching lookup.
func (r *Registry) Resolve(genomes []string, batch string) ([]*config.Genome, error) {
	if err := r.Check(genomes, batch); err != nil {
		return nil, err
	}
	if batch != "" {
		return r.Batch(batch)
	}
	return r.Genomes(genomes)
}

// List returns every genome and batch record sorted by label.
func (r *Registry) List() ([]*config.Genome, []*config.Batch) {
	genomes := make([]*config.Genome, 0, len(r.genomes))
	for _, label := range sortedKeys(r.genomes) {
		genomes = append(genomes, r.genomes[label])
	}
	batches := make([]*config.Batch, 0, len(r.batches))
	for _, label := range sortedKeys(r.batches) {
		batches = append(batches, r.batches[label])
	}
	return genomes, batches
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
