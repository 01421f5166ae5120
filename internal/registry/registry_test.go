package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/genhub/internal/config"
	"github.com/vk/genhub/internal/hcl_adapter"
	"github.com/vk/genhub/internal/yaml_adapter"
)

func local(label string) *config.Genome {
	return &config.Genome{
		Label:  label,
		Source: config.SourceLocal,
		GDNA:   label + ".fa",
		GFF3:   label + ".gff3",
		Prot:   label + ".prot.fa",
		Origin: "user.yml",
	}
}

func userModel(t *testing.T, genomes ...string) *config.Model {
	t.Helper()
	m := config.NewModel()
	for _, label := range genomes {
		require.NoError(t, m.AddGenome(local(label)))
	}
	return m
}

func TestBuiltin(t *testing.T) {
	m, err := Builtin()
	require.NoError(t, err)
	require.Contains(t, m.Genomes, "Ador")
	require.Equal(t, "Apis dorsata", m.Genomes["Ador"].Species)
	require.Equal(t, "builtin:hymenoptera.yml", m.Genomes["Ador"].Origin)
	require.Contains(t, m.Batches, "bees")

	reg, err := New(m, nil)
	require.NoError(t, err)
	bees, err := reg.Batch("bees")
	require.NoError(t, err)
	require.Len(t, bees, 4)
	require.True(t, reg.IsBuiltin("Bter"))
}

func TestNew_UserCollidesWithBuiltin(t *testing.T) {
	builtin, err := Builtin()
	require.NoError(t, err)

	_, err = New(builtin, userModel(t, "Amel2", "Ador"))
	var collision *CollisionError
	require.True(t, errors.As(err, &collision))
	require.Equal(t, "Ador", collision.Label)
	require.Equal(t, "genome", collision.Kind)
}

func TestNew_BatchMemberMustResolve(t *testing.T) {
	user := userModel(t, "Aaaa")
	require.NoError(t, user.AddBatch(&config.Batch{Label: "broken", Genomes: []string{"Aaaa", "Zzzz"}, Origin: "user.yml"}))

	_, err := New(nil, user)
	require.ErrorIs(t, err, ErrUnknownLabel)
	require.Contains(t, err.Error(), "Zzzz")
}

func TestResolve(t *testing.T) {
	user := userModel(t, "Aaaa", "Bbbb")
	require.NoError(t, user.AddBatch(&config.Batch{Label: "pair", Genomes: []string{"Bbbb", "Aaaa"}}))
	require.NoError(t, user.AddBatch(&config.Batch{Label: "twice", Genomes: []string{"Aaaa", "Bbbb", "Aaaa"}}))
	reg, err := New(nil, user)
	require.NoError(t, err)

	testCases := []struct {
		name    string
		genomes []string
		batch   string
		want    []string
		wantErr error
	}{
		{name: "explicit order kept", genomes: []string{"Bbbb", "Aaaa"}, want: []string{"Bbbb", "Aaaa"}},
		{name: "batch", batch: "pair", want: []string{"Bbbb", "Aaaa"}},
		{name: "unknown genome", genomes: []string{"Aaaa", "Cccc"}, wantErr: ErrUnknownLabel},
		{name: "unknown batch", batch: "trio", wantErr: ErrUnknownLabel},
		{name: "both", genomes: []string{"Aaaa"}, batch: "pair", wantErr: ErrGenomesAndBatch},
		{name: "nothing", want: []string{}},
		{name: "duplicate genome", genomes: []string{"Aaaa", "Aaaa"}, wantErr: config.ErrInvalid},
		{name: "duplicate batch member", batch: "twice", wantErr: config.ErrInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := reg.Resolve(tc.genomes, tc.batch)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.ErrorIs(t, reg.Check(tc.genomes, tc.batch), tc.wantErr)
				return
			}
			require.NoError(t, err)
			labels := make([]string, 0, len(got))
			for _, g := range got {
				labels = append(labels, g.Label)
			}
			require.Equal(t, tc.want, labels)
		})
	}
}

func TestList_Sorted(t *testing.T) {
	reg, err := New(nil, userModel(t, "Cccc", "Aaaa", "Bbbb"))
	require.NoError(t, err)
	genomes, batches := reg.List()
	require.Empty(t, batches)
	require.Equal(t, "Aaaa", genomes[0].Label)
	require.Equal(t, "Cccc", genomes[2].Label)
}

func TestLoad_MixedFormats(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte(`
genomes:
  Aaaa:
    source: local
    gdna: a.fa
    gff3: a.gff3
    prot: a.prot.fa
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(`
genome "Bbbb" {
  source = "local"
  gdna   = "${workdir}/b.fa"
  gff3   = "${workdir}/b.gff3"
  prot   = "${workdir}/b.prot.fa"
}
batch "mine" {
  genomes = ["Aaaa", "Bbbb"]
}
`), 0o600))

	ctx := context.Background()
	reg, err := Load(ctx, []string{dir}, yaml_adapter.NewLoader(), hcl_adapter.NewLoader("/w"))
	require.NoError(t, err)

	mine, err := reg.Batch("mine")
	require.NoError(t, err)
	require.Equal(t, "/w/b.fa", mine[1].GDNA)
	require.False(t, reg.IsBuiltin("Aaaa"))

	_, err = Load(ctx, []string{filepath.Join(dir, "missing")}, yaml_adapter.NewLoader())
	require.ErrorIs(t, err, config.ErrInvalid)
}
