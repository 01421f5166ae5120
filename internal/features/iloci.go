package features

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/vk/genhub/internal/coordinator"
	"github.com/vk/genhub/internal/ctxlog"
	"github.com/vk/genhub/internal/genomedb"
)

// ToolError reports a failed external tool invocation.
type ToolError struct {
	Tool   string
	Err    error
	Stderr string
}

func (e *ToolError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s failed: %v: %s", e.Tool, e.Err, e.Stderr)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// ILoci computes interval loci from the processed annotation.
func (x *Extractor) ILoci(ctx context.Context, g coordinator.Genome, delta int, format string) error {
	logger := ctxlog.FromContext(ctx)
	logStep(ctx, g, "computing iLoci")

	in := file(g, genomedb.SuffixGFF3)
	out := file(g, genomedb.SuffixILoci)
	tmp := out + ".tmp"
	args := []string{
		"--intloci",
		"--skipends",
		fmt.Sprintf("--delta=%d", delta),
		"--namefmt=" + coordinator.ILocusPattern(format, g.Label()),
		"--outfile=" + tmp,
		in,
	}
	logger.Debug("Running iLocus tool.", "tool", x.locusPocus, "args", args, "first", coordinator.ILocusName(format, g.Label(), 1))

	if err := runTool(ctx, x.locusPocus, args...); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, out); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", out, err)
	}
	return nil
}

func runTool(ctx context.Context, name string, args ...string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return &ToolError{Tool: name, Err: err}
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &ToolError{Tool: name, Err: err, Stderr: strings.TrimSpace(stderr.String())}
	}
	return nil
}
