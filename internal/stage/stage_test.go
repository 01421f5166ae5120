package stage

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParse_CanonicalOrder(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		request  []string
		expected []Name
	}{
		{
			name:     "reverse order",
			request:  []string{"cleanup", "cluster", "breakdown", "download"},
			expected: []Name{Download, Breakdown, Cluster, Cleanup},
		},
		{
			name:     "duplicates collapse",
			request:  []string{"prep", "prep", "download"},
			expected: []Name{Download, Prep},
		},
		{
			name:     "full catalog shuffled",
			request:  []string{"stats", "iloci", "cleanup", "prep", "cluster", "download", "breakdown"},
			expected: Catalog,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Parse(tc.request)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.expected, s.Ordered()); diff != "" {
				t.Errorf("Ordered() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_RejectsUnknown(t *testing.T) {
	t.Parallel()

	_, err := Parse([]string{"download", "format"})
	require.Error(t, err)

	var unknown *UnknownError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "format", unknown.Name)
}

func TestParse_RejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := Parse(nil)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestSet_SplitAroundCluster(t *testing.T) {
	t.Parallel()

	s := Of(Cleanup, Breakdown, Cluster, Download)
	require.Equal(t, []Name{Download, Breakdown}, s.Before(Cluster).Ordered())
	require.Equal(t, []Name{Cleanup}, s.After(Cluster).Ordered())
	require.Equal(t, []Name{Download, Breakdown, Cleanup}, s.Without(Cluster).Ordered())
	require.Equal(t, "download,breakdown,cluster,cleanup", s.String())
	require.True(t, All().Has(Stats))
	require.Len(t, All().Ordered(), len(Catalog))
}

// For any permutation of any subset of the catalog, Ordered() yields the
// catalog filtered to that subset.
func TestProperty_OrderedIsCatalogIntersection(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		picked := rapid.SliceOfDistinct(rapid.SampledFrom(Catalog), func(n Name) Name { return n }).Draw(t, "picked")
		if len(picked) == 0 {
			return
		}
		perm := rapid.Permutation(picked).Draw(t, "perm")

		request := make([]string, len(perm))
		want := make(map[Name]bool, len(perm))
		for i, n := range perm {
			request[i] = string(n)
			want[n] = true
		}

		s, err := Parse(request)
		if err != nil {
			t.Fatalf("Parse(%v): %v", request, err)
		}

		var expected []Name
		for _, n := range Catalog {
			if want[n] {
				expected = append(expected, n)
			}
		}
		if diff := cmp.Diff(expected, s.Ordered()); diff != "" {
			t.Fatalf("Ordered() mismatch (-want +got):\n%s", diff)
		}
		if s.Before(Cluster)|s.After(Cluster)|(s&Of(Cluster)) != s {
			t.Fatalf("split around cluster lost members of %s", s)
		}
	})
}
