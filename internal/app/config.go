package app

import (
	"fmt"
	"slices"

	"github.com/vk/genhub/internal/cluster"
	"github.com/vk/genhub/internal/config"
	"github.com/vk/genhub/internal/coordinator"
	"github.com/vk/genhub/internal/features"
	"github.com/vk/genhub/internal/stage"
)

// TaskList is the pseudo-task that prints the registry instead of building.
const TaskList = "list"

// Defaults for the command-line surface.
const (
	DefaultWorkdir   = "./species"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Tasks   []string
	Workdir string
	CfgDirs []string
	Genomes []string
	Batch   string

	Workers      int
	Delta        int
	ILocusFormat string
	Relax        bool
	Keep         []string
	FullClean    bool
	KeepGoing    bool

	CDHitArgs  string
	CDHit      string
	LocusPocus string

	LogLevel    string
	LogFormat   string
	LogFile     string
	StatusPort  int
	ProgressURL string

	list   bool
	stages stage.Set
}

// NewConfig validates cfg and fills in defaults. Every error it returns
// wraps config.ErrInvalid or is a *stage.UnknownError.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Workdir == "" {
		cfg.Workdir = DefaultWorkdir
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("%w: number of processes must be at least 1, got %d", config.ErrInvalid, cfg.Workers)
	}
	if cfg.ILocusFormat == "" {
		cfg.ILocusFormat = coordinator.DefaultILocusFormat
	}
	if cfg.CDHitArgs == "" {
		cfg.CDHitArgs = cluster.DefaultCDHitArgs
	}
	if cfg.CDHit == "" {
		cfg.CDHit = cluster.DefaultCDHit
	}
	if cfg.LocusPocus == "" {
		cfg.LocusPocus = features.DefaultLocusPocus
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("%w: log level %q; valid levels are %v", config.ErrInvalid, cfg.LogLevel, logLevels)
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("%w: log format %q; valid formats are %v", config.ErrInvalid, cfg.LogFormat, logFormats)
	}
	if cfg.StatusPort < 0 || cfg.StatusPort > 65535 {
		return nil, fmt.Errorf("%w: status port %d out of range", config.ErrInvalid, cfg.StatusPort)
	}
	if len(cfg.Genomes) > 0 && cfg.Batch != "" {
		return nil, fmt.Errorf("%w: genomes and a batch cannot both be specified", config.ErrInvalid)
	}

	if slices.Contains(cfg.Tasks, TaskList) {
		cfg.list = true
		return &cfg, nil
	}
	stages, err := stage.Parse(cfg.Tasks)
	if err != nil {
		return nil, err
	}
	cfg.stages = stages

	opts := cfg.Options()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// List reports whether the list pseudo-task was requested.
func (c *Config) List() bool { return c.list }

// Stages returns the validated stage set.
func (c *Config) Stages() stage.Set { return c.stages }

// Options returns the per-genome build options.
func (c *Config) Options() coordinator.Options {
	return coordinator.Options{
		Strict:       !c.Relax,
		Delta:        c.Delta,
		ILocusFormat: c.ILocusFormat,
		Keep:         c.Keep,
		FullClean:    c.FullClean,
	}
}
