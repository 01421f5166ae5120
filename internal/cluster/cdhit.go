package cluster

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultCDHitArgs are the clustering parameters used when none are given.
const DefaultCDHitArgs = "-c 0.50 -s 0.80 -n 3 -aL 0.80 -aS 0.80 -b 20 -d 0 -M 0"

// DefaultCDHit is the clustering binary looked up on PATH.
const DefaultCDHit = "cd-hit"

// Runner clusters a protein corpus and returns the path of the cluster
// file it produced.
type Runner interface {
	Run(ctx context.Context, corpus, out string, threads int, args []string) (string, error)
}

// RunnerError reports a failed clustering run.
type RunnerError struct {
	Tool   string
	Err    error
	Stderr string
}

func (e *RunnerError) Error() string {
	return fmt.Sprintf("%s failed: %v: %s", e.Tool, e.Err, e.Stderr)
}

func (e *RunnerError) Unwrap() error {
	return e.Err
}

// CDHit runs the cd-hit binary.
type CDHit struct {
	Binary string
}

// Run implements Runner.
func (c *CDHit) Run(ctx context.Context, corpus, out string, threads int, args []string) (string, error) {
	bin := c.Binary
	if bin == "" {
		bin = DefaultCDHit
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", &RunnerError{Tool: bin, Err: err}
	}

	argv := append([]string{"-i", corpus, "-o", out}, args...)
	argv = append(argv, "-T", strconv.Itoa(threads))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, argv...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &RunnerError{Tool: bin, Err: err, Stderr: strings.TrimSpace(stderr.String())}
	}
	return out + ".clstr", nil
}

// ParseArgs splits a parameter string and removes any thread count, which
// is always supplied from the worker count. stripped reports whether one
// was removed.
func ParseArgs(s string) (args []string, stripped bool) {
	fields := strings.Fields(s)
	for i := 0; i < len(fields); i++ {
		if fields[i] == "-T" {
			stripped = true
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return args, stripped
}
