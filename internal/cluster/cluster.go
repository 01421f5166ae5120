// Package cluster merges the representative proteins of every built genome,
// clusters them in a single pass of an external tool and maps each cluster
// back to iLoci and species.
package cluster

import (
	"errors"
	"fmt"
)

// ErrNoGenomes is returned when aggregation is asked to run on nothing.
var ErrNoGenomes = errors.New("no genomes eligible for clustering")

// Input is one genome's contribution to the corpus.
type Input struct {
	Label       string
	Species     string
	ProteinFile string
	MapFile     string
}

// ProteinRecord locates one protein accession.
type ProteinRecord struct {
	Accession string
	Genome    string
	Species   string
	Locus     string
}

// ProteinLocusMap indexes protein records by accession.
type ProteinLocusMap map[string]ProteinRecord

// Record is one cluster. Loci and Species follow the order of Accessions.
type Record struct {
	ID           string
	Accessions   []string
	Loci         []string
	Species      []string
	SpeciesCount int
}

// Report summarizes a finished aggregation.
type Report struct {
	Genomes  int
	Corpus   string
	Table    string
	Clusters []Record
}

// CollisionError reports an accession claimed by two genomes.
type CollisionError struct {
	Accession string
	First     string
	Second    string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("protein accession %s appears in both %s and %s", e.Accession, e.First, e.Second)
}

// MissingArtifactError reports a genome without its breakdown output.
type MissingArtifactError struct {
	Label string
	Path  string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("genome %s is missing %s; run the breakdown stage first", e.Label, e.Path)
}

// UnknownAccessionError reports a clustered protein absent from every map.
type UnknownAccessionError struct {
	Accession string
	Cluster   string
}

func (e *UnknownAccessionError) Error() string {
	return fmt.Sprintf("cluster %s: protein %s not found in any protein-to-iLocus map", e.Cluster, e.Accession)
}
