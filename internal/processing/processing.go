// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package processing executes algorithm runs: it parses and validates raw
// values against the algorithm's form, asks the algorithm for its command
// line, runs it, and records the outcome.
package processing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/pkprocessing/internal/algorithm"
	"github.com/pdiddy/pkprocessing/internal/history"
	"github.com/pdiddy/pkprocessing/internal/param"
	"github.com/pdiddy/pkprocessing/internal/runner"
	"github.com/pdiddy/pkprocessing/pkg/types"
)

// CommandRunner executes an assembled argument list.
type CommandRunner interface {
	Run(ctx context.Context, argv []string, p runner.Progress) error
}

// HistoryRecorder stores finished runs.
type HistoryRecorder interface {
	Record(ctx context.Context, e history.Entry) (history.Entry, error)
}

// Observer receives run metrics.
type Observer interface {
	Observe(algorithm string, status types.RunStatus, d time.Duration)
}

// Plan is a validated run that has not been executed.
type Plan struct {
	Algorithm algorithm.Algorithm
	Values    *param.Values
	Command   []string
}

// Result describes a finished run.
type Result struct {
	RunID     string
	Algorithm string
	Command   []string
	Outputs   map[string]string
	Status    types.RunStatus
	Duration  time.Duration
}

// Processor runs algorithms from a registry.
type Processor struct {
	registry *algorithm.Registry
	runner   CommandRunner
	history  HistoryRecorder
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithHistory records every executed run.
func WithHistory(h HistoryRecorder) Option {
	return func(p *Processor) { p.history = h }
}

// WithObserver reports every executed run.
func WithObserver(o Observer) Option {
	return func(p *Processor) { p.observer = o }
}

// WithLogger sets the logger; the default is slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// New returns a Processor that looks algorithms up in reg and runs their
// commands with r.
func New(reg *algorithm.Registry, r CommandRunner, opts ...Option) *Processor {
	p := &Processor{
		registry: reg,
		runner:   r,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prepare validates req and builds its command line without running it.
func (p *Processor) Prepare(req types.RunRequest) (Plan, error) {
	alg, err := p.registry.Get(req.Algorithm)
	if err != nil {
		return Plan{}, err
	}

	values, err := param.Parse(alg.Descriptor(), req.Params, req.Outputs)
	if err != nil {
		return Plan{}, fmt.Errorf("%s: %w", req.Algorithm, err)
	}

	cmd, err := alg.Commands(values)
	if err != nil {
		return Plan{}, fmt.Errorf("%s: building command: %w", req.Algorithm, err)
	}

	return Plan{Algorithm: alg, Values: values, Command: cmd}, nil
}

// Execute prepares and runs req, relaying tool output to progress. A run
// that got as far as starting the tool is recorded whether or not it
// succeeded.
func (p *Processor) Execute(ctx context.Context, req types.RunRequest, progress runner.Progress) (Result, error) {
	plan, err := p.Prepare(req)
	if err != nil {
		return Result{}, err
	}

	log := p.logger.With(slog.String("algorithm", req.Algorithm))
	log.Info("starting", slog.String("command", runner.CommandLine(plan.Command)))

	start := p.now()
	runErr := p.runner.Run(ctx, plan.Command, progress)
	elapsed := p.now().Sub(start)

	res := Result{
		Algorithm: req.Algorithm,
		Command:   plan.Command,
		Outputs:   plan.Values.Outputs(),
		Status:    statusOf(runErr),
		Duration:  elapsed,
	}

	if p.observer != nil {
		p.observer.Observe(req.Algorithm, res.Status, elapsed)
	}

	if p.history != nil {
		entry := history.Entry{
			Algorithm:   req.Algorithm,
			CommandLine: runner.CommandLine(plan.Command),
			StartedAt:   start,
			Duration:    elapsed,
			Status:      res.Status,
			Outputs:     res.Outputs,
		}
		if runErr != nil {
			entry.Error = runErr.Error()
		}
		// A run that was cancelled still gets logged.
		stored, err := p.history.Record(context.WithoutCancel(ctx), entry)
		if err != nil {
			log.Warn("could not record run in history", slog.Any("error", err))
		}
		res.RunID = stored.ID
	}

	if runErr != nil {
		log.Error("failed", slog.Duration("elapsed", elapsed), slog.Any("error", runErr))
		return res, runErr
	}

	log.Info("finished", slog.Duration("elapsed", elapsed), slog.Any("outputs", res.Outputs))
	return res, nil
}

func statusOf(err error) types.RunStatus {
	switch {
	case err == nil:
		return types.RunSucceeded
	case errors.Is(err, context.Canceled):
		return types.RunCancelled
	}
	return types.RunFailed
}
