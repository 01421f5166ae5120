package yaml_adapter

// fileRoot is the top-level document of a genome configuration file.
type fileRoot struct {
	Genomes map[string]*genomeRecord `yaml:"genomes"`
	Batches map[string][]string      `yaml:"batches"`
}

// genomeRecord is the YAML schema of one entry under `genomes:`.
type genomeRecord struct {
	Species     string            `yaml:"species"`
	Common      string            `yaml:"common"`
	Source      string            `yaml:"source"`
	GDNA        string            `yaml:"gdna"`
	GFF3        string            `yaml:"gff3"`
	Prot        string            `yaml:"prot"`
	Endpoint    string            `yaml:"endpoint"`
	Checksums   map[string]string `yaml:"checksums"`
	Compress    []string          `yaml:"compress"`
	AnnotFilter []string          `yaml:"annotfilter"`
}
