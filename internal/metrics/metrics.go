// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics counts algorithm runs and exports them in the Prometheus
// textfile format for a node exporter to pick up.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/pkprocessing/pkg/types"
)

const namespace = "pkprocessing"

// Recorder holds the run metrics of one CLI invocation.
type Recorder struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Algorithm runs by algorithm and status.",
		}, []string{"algorithm", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of algorithm runs.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}, []string{"algorithm"}),
	}
	r.registry.MustRegister(r.runs, r.duration)
	return r
}

// Observe records one finished run.
func (r *Recorder) Observe(algorithm string, status types.RunStatus, d time.Duration) {
	r.runs.WithLabelValues(algorithm, string(status)).Inc()
	r.duration.WithLabelValues(algorithm).Observe(d.Seconds())
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
