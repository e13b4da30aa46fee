// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner resolves pktools executables and runs assembled command
// lines, relaying their console output and GDAL progress to the host.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrCommandExecution is returned when the executable fails to start or
	// exits non-zero.
	ErrCommandExecution = errors.New("run")

	// ErrEmptyCommand is returned for an empty argument list.
	ErrEmptyCommand = errors.New("empty command")
)

// Progress receives output from a running tool. Calls are serialized.
type Progress interface {
	// SetPercentage reports completion in [0, 100].
	SetPercentage(pct int)

	// Info reports one line of console output.
	Info(line string)
}

// executor abstracts process execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	//nolint:gosec // G204: the command line is assembled from declared algorithm parameters.
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = 5 * time.Second
	return cmd.Run()
}

// Runner locates pktools executables and runs them.
type Runner struct {
	toolsDir string
	exec     executor
	logger   *slog.Logger
}

// New returns a Runner that looks for executables in toolsDir, or on PATH
// when toolsDir is empty. A nil logger uses slog.Default.
func New(toolsDir string, logger *slog.Logger) *Runner {
	return newRunner(toolsDir, &osExecutor{}, logger)
}

func newRunner(toolsDir string, exec executor, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{toolsDir: toolsDir, exec: exec, logger: logger}
}

// Resolve returns the path used to invoke cliName. A name that cannot be
// found on PATH is returned unchanged so the failure surfaces when the
// command runs.
func (r *Runner) Resolve(cliName string) string {
	if r.toolsDir != "" {
		return filepath.Join(r.toolsDir, cliName)
	}
	path, err := r.exec.LookPath(cliName)
	if err != nil {
		r.logger.Debug("executable not on PATH",
			slog.String("name", cliName),
			slog.Any("error", err),
		)
		return cliName
	}
	return path
}

// Run executes argv and waits for it to finish. Output lines and progress
// are forwarded to p as they arrive. Cancelling ctx kills the process.
func (r *Runner) Run(ctx context.Context, argv []string, p Progress) error {
	if len(argv) == 0 {
		return ErrEmptyCommand
	}

	log := r.logger.With(slog.String("tool", filepath.Base(argv[0])))
	log.Debug("running command", slog.String("command", CommandLine(argv)))

	sink := newProgressSink(p)
	stdout := sink.writer()
	stderr := sink.writer()

	start := time.Now()
	err := r.exec.Run(ctx, argv[0], argv[1:], stdout, stderr)
	stdout.Flush()
	stderr.Flush()

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %s: %w", ErrCommandExecution, filepath.Base(argv[0]), ctxErr)
		}
		return fmt.Errorf("%w: %s: %w", ErrCommandExecution, filepath.Base(argv[0]), err)
	}

	log.Debug("command finished", slog.Duration("elapsed", time.Since(start)))
	return nil
}

// CommandLine renders argv for display, quoting arguments that contain
// whitespace or quotes.
func CommandLine(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t\n\"'") {
			parts[i] = strconv.Quote(a)
			continue
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}
