package genomedb

// File name suffixes of processed and derived per-genome files.
const (
	SuffixGDNA     = ".gdna.fa"
	SuffixGFF3     = ".gff3"
	SuffixAllProt  = ".all.prot.fa"
	SuffixILoci    = ".iloci.gff3"
	SuffixProt     = ".prot.fa"
	SuffixProtMap  = ".protein2ilocus.tsv"
	SuffixFeatures = ".features.tsv"
	SuffixStats    = ".stats.tsv"
)

var derivedSuffixes = []string{
	SuffixGDNA, SuffixGFF3, SuffixAllProt, SuffixILoci,
	SuffixProt, SuffixProtMap, SuffixFeatures, SuffixStats,
}

// FileName joins a label and a suffix.
func FileName(label, suffix string) string {
	return label + suffix
}
