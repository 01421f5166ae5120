package coordinator

import "context"

// Genome is the handle on one genome's data that the stages operate on.
type Genome interface {
	Label() string
	Species() string
	Dir() string
	Path(name string) string

	Download(ctx context.Context) error
	Prep(ctx context.Context, strict bool) error
	Cleanup(ctx context.Context, keep []string, full bool) error

	// ProteinFile and ProteinMapFile are the breakdown artifacts consumed
	// by cluster aggregation.
	ProteinFile() string
	ProteinMapFile() string
}

// Extractor computes the per-genome features derived from processed data.
type Extractor interface {
	ILoci(ctx context.Context, g Genome, delta int, format string) error
	Breakdown(ctx context.Context, g Genome) error
	Stats(ctx context.Context, g Genome) error
}
