package features

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/genhub/internal/coordinator"
	"github.com/vk/genhub/internal/genomedb"
	"github.com/vk/genhub/internal/testutil"
)

const ilociGFF3 = `##gff-version 3
chr1	LocusPocus	locus	1	1000	.	+	.	ID=locus1;Name=AaaaILC-00001
chr1	RefSeq	gene	101	900	.	+	.	ID=gene1;Parent=locus1
chr1	RefSeq	mRNA	101	900	.	+	.	ID=rna1;Parent=gene1;protein_id=XP_001
chr1	RefSeq	exon	101	200	.	+	.	Parent=rna1
chr1	RefSeq	exon	301	400	.	+	.	Parent=rna1
chr1	RefSeq	exon	801	900	.	+	.	Parent=rna1
chr1	RefSeq	mRNA	101	700	.	+	.	ID=rna2;Parent=gene1;Name=XP_002
chr1	RefSeq	exon	101	700	.	+	.	Parent=rna2
chr1	LocusPocus	locus	1001	1500	.	+	.	ID=locus2;Name=AaaaILC-00002
chr1	RefSeq	gene	1101	1400	.	-	.	ID=gene2;Parent=locus2
chr1	RefSeq	mRNA	1101	1400	.	-	.	ID=rna3;Parent=gene2;protein_id=XP_003
chr1	LocusPocus	locus	1501	2000	.	.	.	ID=locus3;Name=AaaaILC-00003
`

const allProt = `>XP_001 long protein
MKVLAAGIVALLLAAGCSSSEEKKQ
>XP_002 short protein
MKV
>XP_003
MSTNPKPQRKTKRNTNRRPQDVKFPGG
`

func fixture(t *testing.T) *testutil.Genome {
	t.Helper()
	g := &testutil.Genome{ID: "Aaaa", Name: "Aaaa aaaa", Workdir: t.TempDir()}
	testutil.WriteFile(t, g.File(genomedb.SuffixILoci), ilociGFF3)
	testutil.WriteFile(t, g.File(genomedb.SuffixAllProt), allProt)
	return g
}

func TestBreakdown(t *testing.T) {
	g := fixture(t)
	require.NoError(t, New("").Breakdown(context.Background(), g))

	prot := testutil.ReadFile(t, g.ProteinFile())
	assert.Equal(t, ">XP_001\nMKVLAAGIVALLLAAGCSSSEEKKQ\n>XP_003\nMSTNPKPQRKTKRNTNRRPQDVKFPGG\n", prot)

	wantMap := "XP_001\tAaaaILC-00001\nXP_002\tAaaaILC-00001\nXP_003\tAaaaILC-00002\n"
	assert.Equal(t, wantMap, testutil.ReadFile(t, g.ProteinMapFile()))

	features := testutil.ReadFile(t, g.File(genomedb.SuffixFeatures))
	lines := strings.Split(strings.TrimSpace(features), "\n")
	want := []string{
		"locus\tAaaaILC-00001\tAaaaILC-00001\t1000",
		"gene\tgene1\tAaaaILC-00001\t800",
		"mRNA\trna1\tAaaaILC-00001\t800",
		"exon\trna1\tAaaaILC-00001\t100",
		"exon\trna1\tAaaaILC-00001\t100",
		"exon\trna1\tAaaaILC-00001\t100",
		"mRNA\trna2\tAaaaILC-00001\t600",
		"exon\trna2\tAaaaILC-00001\t600",
		"locus\tAaaaILC-00002\tAaaaILC-00002\t500",
		"gene\tgene2\tAaaaILC-00002\t300",
		"mRNA\trna3\tAaaaILC-00002\t300",
		"locus\tAaaaILC-00003\tAaaaILC-00003\t500",
		"intron\trna1\tAaaaILC-00001\t100",
		"intron\trna1\tAaaaILC-00001\t400",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("features mismatch (-want +got):\n%s", diff)
	}
}

func TestParseILoci_Errors(t *testing.T) {
	testCases := []struct {
		name string
		gff3 string
	}{
		{name: "gene without parent", gff3: "c\ts\tgene\t1\t10\t.\t+\t.\tID=g1\n"},
		{name: "gene with unknown locus", gff3: "c\ts\tgene\t1\t10\t.\t+\t.\tID=g1;Parent=nowhere\n"},
		{name: "mRNA without accession", gff3: "c\ts\tlocus\t1\t10\t.\t+\t.\tID=l1;Name=L1\n" +
			"c\ts\tgene\t1\t10\t.\t+\t.\tID=g1;Parent=l1\n" +
			"c\ts\tmRNA\t1\t10\t.\t+\t.\tID=m1;Parent=g1\n"},
		{name: "bad coordinates", gff3: "c\ts\tlocus\t10\t1\t.\t+\t.\tID=l1\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseILoci(strings.NewReader(tc.gff3))
			assert.Error(t, err)
		})
	}
}

func TestRepresentatives_TieKeepsFirst(t *testing.T) {
	seqs := map[string]string{"A": "MMM", "B": "MMM", "C": "MMMM"}
	reps, missing := representatives([]mapping{
		{Accession: "A", Locus: "L1"},
		{Accession: "B", Locus: "L1"},
		{Accession: "X", Locus: "L2"},
		{Accession: "C", Locus: "L3"},
	}, seqs)

	assert.Equal(t, 1, missing)
	assert.Equal(t, []mapping{{Accession: "A", Locus: "L1"}, {Accession: "C", Locus: "L3"}}, reps)
}

func TestWriteRecord_Wraps(t *testing.T) {
	var b strings.Builder
	require.NoError(t, writeRecord(&b, "p1", strings.Repeat("A", 85)))
	assert.Equal(t, ">p1\n"+strings.Repeat("A", 80)+"\nAAAAA\n", b.String())
}

func TestStats(t *testing.T) {
	g := fixture(t)
	x := New("")
	require.NoError(t, x.Breakdown(context.Background(), g))
	require.NoError(t, x.Stats(context.Background(), g))

	stats := testutil.ReadFile(t, g.File(genomedb.SuffixStats))
	lines := strings.Split(strings.TrimSpace(stats), "\n")
	want := []string{
		"type\tcount\tmean\tp50\tp90\tmax",
		"locus\t3\t666.7\t500\t1000\t1000",
		"gene\t2\t550.0\t300\t800\t800",
		"mRNA\t3\t566.7\t600\t800\t800",
		"exon\t4\t225.0\t100\t600\t600",
		"intron\t2\t250.0\t100\t400\t400",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeFeatures_ExactMax(t *testing.T) {
	table := "mRNA\tm1\tL1\t10\nmRNA\tm2\tL2\t123457\ngene\tg1\tL1\t2049\n"
	summaries, err := summarizeFeatures(strings.NewReader(table))
	require.NoError(t, err)

	byType := make(map[string]Summary, len(summaries))
	for _, s := range summaries {
		byType[s.Type] = s
	}
	assert.Equal(t, int64(2), byType["mRNA"].Count)
	assert.Equal(t, int64(123457), byType["mRNA"].Max)
	assert.Equal(t, int64(2049), byType["gene"].Max)
	assert.Zero(t, byType["exon"].Max)
}

func TestSummarizeFeatures_Malformed(t *testing.T) {
	_, err := summarizeFeatures(strings.NewReader("locus\tL1\tL1\n"))
	assert.Error(t, err)
	_, err = summarizeFeatures(strings.NewReader("locus\tL1\tL1\tten\n"))
	assert.Error(t, err)
}

func TestILoci_RunsTool(t *testing.T) {
	g := &testutil.Genome{ID: "Aaaa", Name: "Aaaa aaaa", Workdir: t.TempDir()}
	testutil.WriteFile(t, g.File(genomedb.SuffixGFF3), "##gff-version 3\n")
	argsFile := filepath.Join(t.TempDir(), "args")
	tool := testutil.WriteScript(t, t.TempDir(), "locuspocus", `
out=""
for a in "$@"; do
  case "$a" in
    --outfile=*) out="${a#--outfile=}" ;;
  esac
done
printf '%s\n' "$@" > "`+argsFile+`"
echo "##gff-version 3" > "$out"
`)

	err := New(tool).ILoci(context.Background(), g, 250, coordinator.DefaultILocusFormat)
	require.NoError(t, err)

	args := strings.Split(strings.TrimSpace(testutil.ReadFile(t, argsFile)), "\n")
	require.Len(t, args, 6)
	assert.Equal(t, []string{"--intloci", "--skipends", "--delta=250", "--namefmt=AaaaILC-%05lu"}, args[:4])
	assert.Equal(t, "--outfile="+g.File(genomedb.SuffixILoci)+".tmp", args[4])
	assert.Equal(t, g.File(genomedb.SuffixGFF3), args[5])

	assert.Equal(t, "##gff-version 3\n", testutil.ReadFile(t, g.File(genomedb.SuffixILoci)))
	_, err = os.Stat(g.File(genomedb.SuffixILoci) + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestILoci_ToolFailure(t *testing.T) {
	g := &testutil.Genome{ID: "Aaaa", Name: "Aaaa aaaa", Workdir: t.TempDir()}
	tool := testutil.WriteScript(t, t.TempDir(), "locuspocus", "echo 'malformed GFF3' >&2\nexit 3\n")

	err := New(tool).ILoci(context.Background(), g, 500, coordinator.DefaultILocusFormat)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "malformed GFF3", toolErr.Stderr)
	_, statErr := os.Stat(g.File(genomedb.SuffixILoci))
	assert.True(t, os.IsNotExist(statErr))
}

func TestILoci_MissingTool(t *testing.T) {
	g := &testutil.Genome{ID: "Aaaa", Workdir: t.TempDir()}
	err := New(filepath.Join(t.TempDir(), "nope")).ILoci(context.Background(), g, 500, coordinator.DefaultILocusFormat)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
}
