package genomedb

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/vk/genhub/internal/config"
	"github.com/vk/genhub/internal/handlers"
	"github.com/vk/genhub/modules/local"
)

// Fetcher obtains raw data files. *handlers.Handlers satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, req *handlers.Request) error
}

// IntegrityError reports a processed file whose checksum does not match the
// configured one.
type IntegrityError struct {
	Label    string
	DataType string
	Want     string
	Got      string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s %s integrity check failed: want sha1 %s, got %s", e.Label, e.DataType, e.Want, e.Got)
}

// DB is the handle on one genome's working directory.
type DB struct {
	cfg     *config.Genome
	workdir string
	fetcher Fetcher
}

// New creates the handle for cfg under workdir.
func New(cfg *config.Genome, workdir string, fetcher Fetcher) *DB {
	return &DB{cfg: cfg, workdir: workdir, fetcher: fetcher}
}

// Label returns the genome label.
func (db *DB) Label() string { return db.cfg.Label }

// Species returns the species name used in messages and cluster tables.
func (db *DB) Species() string { return db.cfg.Species }

// Config returns the underlying genome record.
func (db *DB) Config() *config.Genome { return db.cfg }

// Dir returns <workdir>/<label>.
func (db *DB) Dir() string { return filepath.Join(db.workdir, db.cfg.Label) }

// Path resolves a file name inside the genome directory.
func (db *DB) Path(name string) string { return filepath.Join(db.Dir(), name) }

// File resolves a label-derived file, e.g. File(SuffixProt).
func (db *DB) File(suffix string) string { return db.Path(FileName(db.cfg.Label, suffix)) }

// ProteinFile is the representative-protein FASTA written by breakdown.
func (db *DB) ProteinFile() string { return db.File(SuffixProt) }

// ProteinMapFile is the protein-to-iLocus table written by breakdown.
func (db *DB) ProteinMapFile() string { return db.File(SuffixProtMap) }

// ProcessedPath returns the canonical output of prep for a data type.
func (db *DB) ProcessedPath(dataType string) string {
	switch dataType {
	case config.GDNA:
		return db.File(SuffixGDNA)
	case config.GFF3:
		return db.File(SuffixGFF3)
	case config.Prot:
		return db.File(SuffixAllProt)
	}
	panic(fmt.Sprintf("unknown data type %q", dataType))
}

// RawPath returns where the raw data for a data type lives. Local genomes
// are read in place; everything else is downloaded into the genome directory.
func (db *DB) RawPath(dataType string) string {
	location := db.cfg.Location(dataType)
	if db.cfg.IsLocal() {
		return local.Path(location)
	}
	return db.Path(db.rawName(dataType, location))
}

func (db *DB) rawName(dataType, location string) string {
	base := ""
	if u, err := url.Parse(location); err == nil {
		base = path.Base(u.Path)
	}
	if base == "" || base == "." || base == "/" {
		base = dataType + ".raw"
	}
	for _, suffix := range derivedSuffixes {
		if base == FileName(db.cfg.Label, suffix) {
			base = "orig." + base
			break
		}
	}
	if db.cfg.Compressed(dataType) && !strings.HasSuffix(base, ".gz") {
		base += ".gz"
	}
	return base
}

// rawNames lists the base names of raw downloads kept inside the directory.
func (db *DB) rawNames() map[string]bool {
	names := make(map[string]bool)
	if db.cfg.IsLocal() {
		return names
	}
	for _, dt := range config.DataTypes {
		names[filepath.Base(db.RawPath(dt))] = true
	}
	return names
}
