// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs a list of algorithm requests read from a YAML file,
// one after another.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pkprocessing/internal/param"
	"github.com/pdiddy/pkprocessing/internal/processing"
	"github.com/pdiddy/pkprocessing/internal/runner"
	"github.com/pdiddy/pkprocessing/pkg/types"
)

// File is the on-disk representation of a batch.
//
//	runs:
//	  - algorithm: pkextract_grid
//	    params: {INPUT: a.tif, GRID: 250}
//	    outputs: {OUTPUT: a_grid}
type File struct {
	Runs []Run `yaml:"runs"`
}

// Run is one entry of a batch file. Params may hold any YAML scalar.
type Run struct {
	Algorithm string            `yaml:"algorithm"`
	Params    map[string]any    `yaml:"params"`
	Outputs   map[string]string `yaml:"outputs"`
}

// Request converts the entry to a RunRequest.
func (r Run) Request() types.RunRequest {
	return types.RunRequest{
		Algorithm: r.Algorithm,
		Params:    param.Stringify(r.Params),
		Outputs:   r.Outputs,
	}
}

// Load reads and decodes a batch file.
func Load(path string) ([]types.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing batch file %s: %w", path, err)
	}
	if len(f.Runs) == 0 {
		return nil, fmt.Errorf("batch file %s has no runs", path)
	}

	reqs := make([]types.RunRequest, len(f.Runs))
	for i, r := range f.Runs {
		if r.Algorithm == "" {
			return nil, fmt.Errorf("batch file %s: run %d has no algorithm", path, i+1)
		}
		reqs[i] = r.Request()
	}
	return reqs, nil
}

// Executor runs one request.
type Executor interface {
	Execute(ctx context.Context, req types.RunRequest, p runner.Progress) (processing.Result, error)
}

// Result holds the outcome of a batch.
type Result struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// Total returns the number of runs in the batch.
func (r Result) Total() int {
	return r.Succeeded + r.Failed + r.Skipped
}

// HasFailures reports whether any run failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Options controls batch execution.
type Options struct {
	// KeepGoing continues with the next run after a failure. When false the
	// remaining runs are skipped.
	KeepGoing bool
}

// Execute runs reqs in order, printing per-run status to w and returning a
// summary. progress is called with the index of the run it serves. A
// cancelled context skips the remaining runs.
func Execute(ctx context.Context, ex Executor, reqs []types.RunRequest, opts Options, w io.Writer, progress func(i int, req types.RunRequest) runner.Progress) Result {
	var result Result
	for i, req := range reqs {
		label := fmt.Sprintf("[%d/%d] %s", i+1, len(reqs), req.Algorithm)

		if ctx.Err() != nil || (!opts.KeepGoing && result.Failed > 0) {
			fmt.Fprintf(w, "skipped:   %s\n", label)
			result.Skipped++
			continue
		}

		p := runner.Discard
		if progress != nil {
			p = progress(i, req)
		}

		res, err := ex.Execute(ctx, req, p)
		if err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", label, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "succeeded: %s -> %s\n", label, outputList(res.Outputs))
		result.Succeeded++
	}

	fmt.Fprintf(w, "\nBatch summary: %d succeeded, %d failed, %d skipped (total: %d)\n",
		result.Succeeded, result.Failed, result.Skipped, result.Total())
	return result
}

func outputList(outputs map[string]string) string {
	paths := make([]string, 0, len(outputs))
	for _, v := range outputs {
		paths = append(paths, v)
	}
	sort.Strings(paths)
	return strings.Join(paths, ", ")
}
