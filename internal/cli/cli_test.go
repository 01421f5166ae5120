package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/genhub/internal/app"
	"github.com/vk/genhub/internal/config"
	"github.com/vk/genhub/internal/coordinator"
	"github.com/vk/genhub/internal/executor"
	"github.com/vk/genhub/internal/registry"
	"github.com/vk/genhub/internal/stage"
)

func TestParse_Defaults(t *testing.T) {
	cfg, shouldExit, err := Parse([]string{"prep", "download"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, app.DefaultWorkdir, cfg.Workdir)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, coordinator.DefaultDelta, cfg.Delta)
	assert.Equal(t, coordinator.DefaultILocusFormat, cfg.ILocusFormat)
	assert.Equal(t, []stage.Name{stage.Download, stage.Prep}, cfg.Stages().Ordered())
	assert.True(t, cfg.Options().Strict)
}

func TestParse_Flags(t *testing.T) {
	args := []string{
		"-w", "/data", "-c", "/a,/b", "-c", "/c",
		"-g", "Amel,Pdom", "-p", "4", "--delta", "250",
		"--relax", "-k", "*.tsv", "-k", "*.fa", "--fullclean", "--keep-going",
		"--log-level", "debug", "--log-format", "json",
		"--status-port", "8080",
		"cleanup", "stats",
	}
	cfg, shouldExit, err := Parse(args, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "/data", cfg.Workdir)
	assert.Equal(t, []string{"/a", "/b", "/c"}, cfg.CfgDirs)
	assert.Equal(t, []string{"Amel", "Pdom"}, cfg.Genomes)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, []string{"*.tsv", "*.fa"}, cfg.Keep)
	assert.True(t, cfg.FullClean)
	assert.True(t, cfg.KeepGoing)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 8080, cfg.StatusPort)

	opts := cfg.Options()
	assert.False(t, opts.Strict)
	assert.Equal(t, 250, opts.Delta)
	assert.Equal(t, []stage.Name{stage.Stats, stage.Cleanup}, cfg.Stages().Ordered())
}

func TestParse_List(t *testing.T) {
	cfg, shouldExit, err := Parse([]string{"list"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.True(t, cfg.List())
}

func TestParse_HelpAndNoTask(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {"--help"}, {}} {
		t.Run(fmt.Sprint(args), func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, shouldExit, err := Parse(args, out)
			require.NoError(t, err)
			assert.True(t, shouldExit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), "Usage:")
		})
	}
}

func TestParse_UsageErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown flag", args: []string{"--no-such-flag", "prep"}, want: "unknown flag"},
		{name: "unknown task", args: []string{"prep", "bogus"}, want: `unknown build stage "bogus"`},
		{name: "bad numprocs", args: []string{"-p", "0", "prep"}, want: "at least 1"},
		{name: "non-numeric numprocs", args: []string{"-p", "many", "prep"}, want: "invalid argument"},
		{name: "genomes and batch", args: []string{"-g", "Amel", "-b", "hymenoptera", "prep"}, want: "cannot both"},
		{name: "bad log format", args: []string{"--log-format", "xml", "prep"}, want: "log format"},
		{name: "negative delta", args: []string{"--delta", "-1", "iloci"}, want: "delta"},
		{name: "bad ilcformat", args: []string{"--ilcformat", "ILC-%s", "iloci"}, want: "invalid configuration"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, shouldExit, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)
			assert.False(t, shouldExit)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, CodeUsage, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}

func TestExit(t *testing.T) {
	build := &executor.BuildError{Label: "Amel", Err: fmt.Errorf("prep: %w", config.ErrInvalid)}

	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid configuration", err: fmt.Errorf("%w: oops", config.ErrInvalid), want: CodeUsage},
		{name: "no stage", err: stage.ErrEmpty, want: CodeUsage},
		{name: "unknown stage", err: &stage.UnknownError{Name: "x"}, want: CodeUsage},
		{name: "unknown label", err: fmt.Errorf("%w: genome(s) Zzzz", registry.ErrUnknownLabel), want: CodeUsage},
		{name: "genomes and batch", err: registry.ErrGenomesAndBatch, want: CodeUsage},
		{name: "collision", err: fmt.Errorf("load: %w", &registry.CollisionError{Kind: "genome", Label: "Amel"}), want: CodeUsage},
		{name: "build failure", err: multierror.Append(nil, build), want: CodeFailure},
		{name: "other", err: errors.New("disk full"), want: CodeFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var exitErr *ExitError
			require.ErrorAs(t, Exit(tc.err), &exitErr)
			assert.Equal(t, tc.want, exitErr.Code)
			assert.Equal(t, tc.err.Error(), exitErr.Message)
		})
	}

	assert.NoError(t, Exit(nil))
	same := &ExitError{Code: 3, Message: "x"}
	assert.Same(t, same, Exit(same))
}
