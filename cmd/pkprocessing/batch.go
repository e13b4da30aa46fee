// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pkprocessing/internal/batch"
	"github.com/pdiddy/pkprocessing/internal/runner"
	"github.com/pdiddy/pkprocessing/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file.yaml>",
	Short: "Execute a YAML list of algorithm runs in order",
	Long: `Batch reads a YAML file of runs and executes them one after another:

  runs:
    - algorithm: pkextract_grid
      params: {INPUT: a.tif, FORMAT: GeoJSON, GRID: 250}
      outputs: {OUTPUT: a_grid}
    - algorithm: pksvm
      params: {INPUT: b.tif, TRAINING: train.sqlite}
      outputs: {OUTPUT: b_class.tif}

Every run is validated and recorded like a single "run". By default the
remaining runs are skipped after the first failure; --keep-going runs them
all. The command fails when any run failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	reqs, err := batch.Load(args[0])
	if err != nil {
		return err
	}

	keepGoing, _ := cmd.Flags().GetBool("keep-going")
	quiet, _ := cmd.Flags().GetBool("quiet")

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	var current *consoleProgress
	progressFor := func(i int, req types.RunRequest) runner.Progress {
		if current != nil {
			current.Done()
		}
		current = newConsoleProgress(cmd.ErrOrStderr(), fmt.Sprintf("[%d/%d] %s", i+1, len(reqs), req.Algorithm), quiet)
		return current
	}

	result := batch.Execute(ctx, a.processor, reqs, batch.Options{KeepGoing: keepGoing}, cmd.OutOrStdout(), progressFor)
	if current != nil {
		current.Done()
	}

	if result.HasFailures() {
		return fmt.Errorf("%d of %d run(s) failed", result.Failed, result.Total())
	}
	return nil
}

func init() {
	batchCmd.Flags().Bool("keep-going", false, "continue with the next run after a failure")
	batchCmd.Flags().BoolP("quiet", "q", false, "do not print tool output")

	rootCmd.AddCommand(batchCmd)
}
