package cli

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/vk/genhub/internal/app"
	"github.com/vk/genhub/internal/cluster"
	"github.com/vk/genhub/internal/config"
	"github.com/vk/genhub/internal/coordinator"
	"github.com/vk/genhub/internal/executor"
	"github.com/vk/genhub/internal/features"
	"github.com/vk/genhub/internal/registry"
	"github.com/vk/genhub/internal/stage"
)

// Exit codes.
const (
	CodeFailure = 1
	CodeUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const longHelp = `GenHub builds annotated genome databases and clusters their proteins.

Tasks are build stages (download, prep, iloci, breakdown, stats, cluster,
cleanup) or "list" to print the configured genomes and batches. Stages
always run in catalog order, whatever order they are given in.`

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	var (
		raw app.Config
		ran bool
	)

	cmd := &cobra.Command{
		Use:           "genhub [flags] task [task...]",
		Short:         "Build genome databases and protein clusters",
		Long:          longHelp,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, tasks []string) error {
			raw.Tasks = tasks
			ran = true
			return nil
		},
	}
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	flags := cmd.Flags()
	flags.StringVarP(&raw.Workdir, "workdir", "w", app.DefaultWorkdir, "working directory holding one subdirectory per genome")
	flags.StringSliceVarP(&raw.CfgDirs, "cfgdir", "c", nil, "directory of genome configuration files; repeatable")
	flags.StringSliceVarP(&raw.Genomes, "genome", "g", nil, "comma-separated genome labels to build")
	flags.StringVarP(&raw.Batch, "batch", "b", "", "label of a configured batch of genomes")
	flags.IntVarP(&raw.Workers, "numprocs", "p", 1, "number of genomes to build in parallel")
	flags.IntVar(&raw.Delta, "delta", coordinator.DefaultDelta, "iLocus flanking length")
	flags.StringVar(&raw.ILocusFormat, "ilcformat", coordinator.DefaultILocusFormat, "iLocus name format; {} is replaced by the genome label")
	flags.BoolVar(&raw.Relax, "relax", false, "warn instead of failing on integrity check mismatches")
	flags.StringSliceVarP(&raw.Keep, "keep", "k", nil, "file name pattern preserved by cleanup; repeatable")
	flags.BoolVar(&raw.FullClean, "fullclean", false, "cleanup also removes raw downloads")
	flags.BoolVar(&raw.KeepGoing, "keep-going", false, "continue with remaining genomes when one fails")
	flags.StringVar(&raw.CDHitArgs, "cdhitargs", cluster.DefaultCDHitArgs, "arguments passed to CD-HIT")
	flags.StringVar(&raw.CDHit, "cdhit", cluster.DefaultCDHit, "CD-HIT executable")
	flags.StringVar(&raw.LocusPocus, "locuspocus", features.DefaultLocusPocus, "iLocus parsing executable")
	flags.StringVar(&raw.LogLevel, "log-level", app.DefaultLogLevel, "logging level: debug, info, warn, error")
	flags.StringVar(&raw.LogFormat, "log-format", app.DefaultLogFormat, "log output format: text or json")
	flags.StringVar(&raw.LogFile, "log-file", "", "also write logs to this rotated file")
	flags.IntVar(&raw.StatusPort, "status-port", 0, "port for the HTTP status server; 0 is disabled")
	flags.StringVar(&raw.ProgressURL, "progress-url", "", "socket.io server receiving progress events")

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: CodeUsage, Message: err.Error()}
	}
	if !ran {
		// Help was requested.
		return nil, true, nil
	}
	if len(raw.Tasks) == 0 {
		slog.Debug("No task provided, printing usage and exiting.")
		_ = cmd.Usage()
		return nil, true, nil
	}

	cfg, err := app.NewConfig(raw)
	if err != nil {
		return nil, false, Exit(err)
	}
	slog.Debug("CLI parser finished successfully.", "tasks", cfg.Tasks)
	return cfg, false, nil
}

// Exit converts an application error into an *ExitError. Configuration and
// usage problems exit with CodeUsage; build failures and everything else
// with CodeFailure. A nil error stays nil.
func Exit(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: code(err), Message: err.Error()}
}

func code(err error) int {
	var (
		buildErr   *executor.BuildError
		unknownErr *stage.UnknownError
		collision  *registry.CollisionError
	)
	switch {
	case errors.As(err, &buildErr):
		return CodeFailure
	case errors.Is(err, config.ErrInvalid),
		errors.Is(err, stage.ErrEmpty),
		errors.Is(err, registry.ErrUnknownLabel),
		errors.Is(err, registry.ErrGenomesAndBatch),
		errors.As(err, &unknownErr),
		errors.As(err, &collision):
		return CodeUsage
	}
	return CodeFailure
}
