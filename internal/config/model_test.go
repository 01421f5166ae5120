package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func localGenome(label string) *Genome {
	return &Genome{
		Label:  label,
		Source: SourceLocal,
		GDNA:   "/data/" + label + ".fa",
		GFF3:   "/data/" + label + ".gff3",
		Prot:   "/data/" + label + ".prot.fa",
		Origin: "test",
	}
}

func TestValidate_LocalDefaultsSpeciesToLabel(t *testing.T) {
	g := localGenome("Aaaa")
	require.NoError(t, g.Validate())
	require.Equal(t, "Aaaa", g.Species)
}

func TestValidate_LocalMissingFields(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(g *Genome)
	}{
		{name: "no sequence", mutate: func(g *Genome) { g.GDNA = "" }},
		{name: "no annotation", mutate: func(g *Genome) { g.GFF3 = "" }},
		{name: "no proteins", mutate: func(g *Genome) { g.Prot = "" }},
		{name: "no label", mutate: func(g *Genome) { g.Label = "" }},
		{name: "no source", mutate: func(g *Genome) { g.Source = "" }},
		{name: "bad checksum type", mutate: func(g *Genome) { g.Checksums = map[string]string{"cds": "x"} }},
		{name: "bad compress type", mutate: func(g *Genome) { g.Compress = []string{"cds"} }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := localGenome("Aaaa")
			tc.mutate(g)
			require.ErrorIs(t, g.Validate(), ErrInvalid)
		})
	}
}

func TestValidate_RemoteNeedsSpecies(t *testing.T) {
	g := &Genome{Label: "Amel", Source: "refseq", GDNA: "https://x/g", GFF3: "https://x/a", Prot: "https://x/p"}
	require.ErrorIs(t, g.Validate(), ErrInvalid)

	g.Species = "Apis mellifera"
	require.NoError(t, g.Validate())
	require.False(t, g.IsLocal())
}

func TestModel_DuplicateLabels(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.AddGenome(localGenome("Aaaa")))
	require.ErrorIs(t, m.AddGenome(localGenome("Aaaa")), ErrInvalid)

	require.NoError(t, m.AddBatch(&Batch{Label: "pair", Genomes: []string{"Aaaa"}}))
	require.ErrorIs(t, m.AddBatch(&Batch{Label: "pair", Genomes: []string{"Aaaa"}}), ErrInvalid)
	require.ErrorIs(t, m.AddBatch(&Batch{Label: "empty"}), ErrInvalid)
}

func TestModel_Merge(t *testing.T) {
	a := NewModel()
	require.NoError(t, a.AddGenome(localGenome("Aaaa")))

	b := NewModel()
	require.NoError(t, b.AddGenome(localGenome("Bbbb")))
	require.NoError(t, b.AddBatch(&Batch{Label: "both", Genomes: []string{"Aaaa", "Bbbb"}}))

	require.NoError(t, a.Merge(b))
	require.Len(t, a.Genomes, 2)
	require.Contains(t, a.Batches, "both")

	require.Error(t, a.Merge(b))
}
