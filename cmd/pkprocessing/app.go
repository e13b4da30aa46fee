// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"

	"github.com/pdiddy/pkprocessing/internal/algorithm"
	"github.com/pdiddy/pkprocessing/internal/history"
	"github.com/pdiddy/pkprocessing/internal/metrics"
	"github.com/pdiddy/pkprocessing/internal/processing"
	"github.com/pdiddy/pkprocessing/internal/runner"
)

// app wires the processor, history store and metrics for one command.
type app struct {
	registry  *algorithm.Registry
	processor *processing.Processor
	history   *history.Store
	metrics   *metrics.Recorder
}

// newRegistry builds the algorithm registry with executables resolved from
// the configured pktools directory.
func newRegistry() (*algorithm.Registry, *runner.Runner) {
	r := runner.New(cfg.Tools.PktoolsPath, slog.Default())
	return algorithm.NewRegistry(r), r
}

// newApp builds everything needed to execute runs. History is opened only
// when useHistory is set and a database path is configured.
func newApp(useHistory bool) (*app, error) {
	reg, r := newRegistry()
	a := &app{registry: reg, metrics: metrics.NewRecorder()}

	opts := []processing.Option{
		processing.WithLogger(slog.Default()),
		processing.WithObserver(a.metrics),
	}
	if useHistory && cfg.History.DB != "" {
		store, err := history.Open(cfg.History.DB)
		if err != nil {
			return nil, fmt.Errorf("opening history: %w", err)
		}
		a.history = store
		opts = append(opts, processing.WithHistory(store))
	}

	a.processor = processing.New(reg, r, opts...)
	return a, nil
}

// Close releases the history store and writes the metrics textfile.
func (a *app) Close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			slog.Warn("closing history", slog.Any("error", err))
		}
	}
	if cfg.Metrics.File != "" {
		if err := a.metrics.WriteTextfile(cfg.Metrics.File); err != nil {
			slog.Warn("exporting metrics", slog.Any("error", err))
		}
	}
}
