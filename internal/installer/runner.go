package installer

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner executes external commands. All package-manager invocations go
// through this interface so tests and dry runs can intercept them.
type Runner interface {
	// Run executes the command and waits for it.
	Run(ctx context.Context, name string, args ...string) error
	// Query executes the command and reports whether it exited zero. Used
	// for probes like `rpm -q` where a non-zero exit is an answer, not an
	// error.
	Query(ctx context.Context, name string, args ...string) bool
}

// ExecRunner runs commands on the host via os/exec.
type ExecRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewExecRunner creates a runner streaming command output to the given
// writers.
func NewExecRunner(stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{stdout: stdout, stderr: stderr}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

func (r *ExecRunner) Query(ctx context.Context, name string, args ...string) bool {
	return exec.CommandContext(ctx, name, args...).Run() == nil
}

// DryRunner prints each command instead of executing it. Queries answer
// false so a dry run walks every step.
type DryRunner struct {
	Out io.Writer
}

func (r *DryRunner) Run(ctx context.Context, name string, args ...string) error {
	_, err := fmt.Fprintf(r.Out, "would run: %s %s\n", name, strings.Join(args, " "))
	return err
}

func (r *DryRunner) Query(ctx context.Context, name string, args ...string) bool {
	return false
}
