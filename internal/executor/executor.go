// Package executor runs oracle-proposed command strings against the
// working copy.
//
// Commands are opaque strings handed to the shell in order; execution
// stops at the first non-zero exit. The executor never parses or validates
// git syntax; failure detection is its whole contract.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// CommandError reports the first command in a sequence that exited
// non-zero. Index is zero-based, so callers know how much of the plan
// completed before the failure.
type CommandError struct {
	Command string
	Stderr  string
	Index   int
	Err     error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command %q failed: %s", e.Command, e.Stderr)
	}
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

// Unwrap returns the underlying exec error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Config configures an Executor.
type Config struct {
	// Dir is the working directory commands run in (the repository root).
	Dir string

	// Shell is the interpreter for command strings (default /bin/sh).
	Shell string

	// Stdout receives per-command standard output (default os.Stdout).
	Stdout io.Writer
}

// Executor runs command sequences synchronously, one at a time.
type Executor struct {
	dir    string
	shell  string
	stdout io.Writer
	logger *zap.Logger
}

// New creates an executor.
func New(cfg Config, logger *zap.Logger) *Executor {
	if cfg.Shell == "" {
		cfg.Shell = "/bin/sh"
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		dir:    cfg.Dir,
		shell:  cfg.Shell,
		stdout: cfg.Stdout,
		logger: logger,
	}
}

// Run executes each command in order, stopping at the first failure. On
// failure it returns a *CommandError; on full success it returns nil and
// the repository state is whatever the commands left behind.
func (e *Executor) Run(ctx context.Context, commands []string) error {
	for i, command := range commands {
		e.logger.Info("executing command",
			zap.String("command", command),
			zap.Int("index", i))

		cmd := exec.CommandContext(ctx, e.shell, "-c", command)
		cmd.Dir = e.dir
		cmd.Stdout = e.stdout

		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			cmdErr := &CommandError{
				Command: command,
				Stderr:  strings.TrimSpace(stderr.String()),
				Index:   i,
				Err:     err,
			}
			e.logger.Warn("command failed",
				zap.String("command", command),
				zap.Int("index", i),
				zap.String("stderr", cmdErr.Stderr))
			return cmdErr
		}
	}
	return nil
}
