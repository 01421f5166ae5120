package registry

import (
	"fmt"
	"strings"
)

// validate checks that every batch member resolves to a known genome.
func (r *Registry) validate() error {
	var errs []string
	for _, label := range sortedKeys(r.batches) {
		b := r.batches[label]
		for _, member := range b.Genomes {
			if _, ok := r.genomes[member]; !ok {
				errs = append(errs, fmt.Sprintf("batch %q (%s): genome %q", label, b.Origin, member))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w:\n- %s", ErrUnknownLabel, strings.Join(errs, "\n- "))
	}
	return nil
}
