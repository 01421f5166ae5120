// Package stage defines the fixed catalog of per-genome build stages and the
// rule that a requested subset always runs in catalog order.
//
// Later stages depend on the artifacts of earlier ones (breakdown reads the
// output of prep and iloci, cluster reads every genome's breakdown output),
// so the order in which a caller lists stages is discarded. Everything here
// is a pure function over the ordered catalog.
package stage

import (
	"errors"
	"fmt"
	"strings"
)

// Name is the identifier of a single build stage.
type Name string

const (
	Download  Name = "download"
	Prep      Name = "prep"
	ILoci     Name = "iloci"
	Breakdown Name = "breakdown"
	Stats     Name = "stats"
	Cluster   Name = "cluster"
	Cleanup   Name = "cleanup"
)

// Catalog is the canonical stage order.
var Catalog = []Name{Download, Prep, ILoci, Breakdown, Stats, Cluster, Cleanup}

// ErrEmpty is returned when no stage was requested.
var ErrEmpty = errors.New("no build stage requested")

// UnknownError reports a stage name that is not part of the catalog.
type UnknownError struct {
	Name string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown build stage %q; valid stages are %s", e.Name, strings.Join(Names(), ", "))
}

// Names returns the catalog as plain strings, in order.
func Names() []string {
	out := make([]string, len(Catalog))
	for i, n := range Catalog {
		out[i] = string(n)
	}
	return out
}

// index returns the catalog position of n, or -1.
func index(n Name) int {
	for i, c := range Catalog {
		if c == n {
			return i
		}
	}
	return -1
}

// Set is an immutable subset of the catalog. Bit i is set when Catalog[i]
// was requested.
type Set uint8

// Parse validates the requested names against the catalog. Duplicates are
// accepted; the request order is discarded.
func Parse(names []string) (Set, error) {
	if len(names) == 0 {
		return 0, ErrEmpty
	}
	var s Set
	for _, raw := range names {
		i := index(Name(strings.TrimSpace(raw)))
		if i < 0 {
			return 0, &UnknownError{Name: raw}
		}
		s |= 1 << i
	}
	return s, nil
}

// Of builds a set from already-typed names. Unknown names are ignored.
func Of(names ...Name) Set {
	var s Set
	for _, n := range names {
		if i := index(n); i >= 0 {
			s |= 1 << i
		}
	}
	return s
}

// All returns the full catalog as a set.
func All() Set {
	return Set(1<<len(Catalog)) - 1
}

// Has reports whether n is in the set.
func (s Set) Has(n Name) bool {
	i := index(n)
	return i >= 0 && s&(1<<i) != 0
}

// Empty reports whether no stage is set.
func (s Set) Empty() bool {
	return s == 0
}

// Ordered returns the members of the set in catalog order.
func (s Set) Ordered() []Name {
	out := make([]Name, 0, len(Catalog))
	for i, n := range Catalog {
		if s&(1<<i) != 0 {
			out = append(out, n)
		}
	}
	return out
}

// Before returns the members strictly preceding n in the catalog.
func (s Set) Before(n Name) Set {
	i := index(n)
	if i < 0 {
		return s
	}
	return s & (1<<i - 1)
}

// After returns the members strictly following n in the catalog.
func (s Set) After(n Name) Set {
	i := index(n)
	if i < 0 {
		return 0
	}
	return s &^ (1<<(i+1) - 1)
}

// Without removes n from the set.
func (s Set) Without(n Name) Set {
	i := index(n)
	if i < 0 {
		return s
	}
	return s &^ (1 << i)
}

func (s Set) String() string {
	names := s.Ordered()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ",")
}
