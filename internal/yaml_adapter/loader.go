// Package yaml_adapter provides the YAML implementation of config.Loader. The
// built-in genome registry and user `*.yml` files are both read through it.
package yaml_adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/vk/genhub/internal/config"
	"github.com/vk/genhub/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yml", ".yaml"}
}

// Load reads and decodes every given file into one model.
func (l *Loader) Load(ctx context.Context, files ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "file_count", len(files))

	model := config.NewModel()
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		part, err := Decode(file, data)
		if err != nil {
			return nil, err
		}
		if err := model.Merge(part); err != nil {
			return nil, err
		}
		logger.Debug("Loaded YAML file.", "file", file, "genomes", len(part.Genomes), "batches", len(part.Batches))
	}
	return model, nil
}

// Decode translates one YAML document into the agnostic model. Unknown keys
// are rejected so that typos in record fields surface as errors.
func Decode(origin string, data []byte) (*config.Model, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var root fileRoot
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: failed to decode YAML file %s: %w", config.ErrInvalid, origin, err)
	}

	model := config.NewModel()
	for _, label := range sortedKeys(root.Genomes) {
		rec := root.Genomes[label]
		if rec == nil {
			return nil, fmt.Errorf("%w: genome %q in %s has no fields", config.ErrInvalid, label, origin)
		}
		if err := model.AddGenome(translateGenome(label, rec, origin)); err != nil {
			return nil, err
		}
	}
	for _, label := range sortedKeys(root.Batches) {
		if err := model.AddBatch(&config.Batch{Label: label, Genomes: root.Batches[label], Origin: origin}); err != nil {
			return nil, err
		}
	}
	return model, nil
}

func translateGenome(label string, r *genomeRecord, origin string) *config.Genome {
	return &config.Genome{
		Label:       label,
		Species:     r.Species,
		Common:      r.Common,
		Source:      r.Source,
		GDNA:        r.GDNA,
		GFF3:        r.GFF3,
		Prot:        r.Prot,
		Endpoint:    r.Endpoint,
		Checksums:   r.Checksums,
		Compress:    r.Compress,
		AnnotFilter: r.AnnotFilter,
		Origin:      origin,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
