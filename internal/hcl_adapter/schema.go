package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Genomes []*GenomeBlock `hcl:"genome,block"`
	Batches []*BatchBlock  `hcl:"batch,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

// GenomeBlock is the HCL schema of a `genome "<label>" { ... }` block.
type GenomeBlock struct {
	Label       string            `hcl:"label,label"`
	Species     string            `hcl:"species,optional"`
	Common      string            `hcl:"common,optional"`
	Source      string            `hcl:"source"`
	GDNA        string            `hcl:"gdna,optional"`
	GFF3        string            `hcl:"gff3,optional"`
	Prot        string            `hcl:"prot,optional"`
	Endpoint    string            `hcl:"endpoint,optional"`
	Checksums   map[string]string `hcl:"checksums,optional"`
	Compress    []string          `hcl:"compress,optional"`
	AnnotFilter []string          `hcl:"annotfilter,optional"`
	DeclRange   hcl.Range         `hcl:",def_range"`
}

// BatchBlock is the HCL schema of a `batch "<label>" { genomes = [...] }` block.
type BatchBlock struct {
	Label   string   `hcl:"label,label"`
	Genomes []string `hcl:"genomes"`
}
