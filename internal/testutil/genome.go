package testutil

import (
	"context"
	"path/filepath"

	"github.com/vk/genhub/internal/genomedb"
)

// Genome is a coordinator.Genome whose data already sits in
// <Workdir>/<ID>/. Its download, prep and cleanup operations do nothing.
type Genome struct {
	ID      string
	Name    string
	Workdir string
}

func (g *Genome) Label() string   { return g.ID }
func (g *Genome) Species() string { return g.Name }
func (g *Genome) Dir() string     { return filepath.Join(g.Workdir, g.ID) }

func (g *Genome) Path(name string) string { return filepath.Join(g.Dir(), name) }

// File returns the path of the genome file with the given suffix.
func (g *Genome) File(suffix string) string {
	return g.Path(genomedb.FileName(g.ID, suffix))
}

func (g *Genome) ProteinFile() string    { return g.File(genomedb.SuffixProt) }
func (g *Genome) ProteinMapFile() string { return g.File(genomedb.SuffixProtMap) }

func (g *Genome) Download(context.Context) error                { return nil }
func (g *Genome) Prep(context.Context, bool) error              { return nil }
func (g *Genome) Cleanup(context.Context, []string, bool) error { return nil }
