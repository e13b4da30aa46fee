// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pkprocessing/internal/algorithm"
	"github.com/pdiddy/pkprocessing/internal/param"
	"github.com/pdiddy/pkprocessing/internal/runner"
	"github.com/pdiddy/pkprocessing/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run <algorithm>",
	Short: "Validate parameters, build the pktools command and execute it",
	Long: `Run executes one algorithm. Parameter values come from a YAML parameter
file (--params) and from repeated --param KEY=VALUE flags, flags taking
precedence. Outputs are set with --output KEY=PATH; a bare path sets OUTPUT.

Multi-value parameters such as SRCNODATA, BNDNODATA, MSKNODATA and LAYERS take
';'-separated values. EXTRA is passed to the tool verbatim, split into words.

With --dry-run the command line is printed and nothing is executed.`,
	Example: `  pkprocessing run pkextract_grid -p INPUT=scene.tif -p FORMAT=GeoJSON -p GRID=250 -O grid
  pkprocessing run pksvm --params svm.yaml -p GAMMA=0.5 -O classes.tif`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd, args[0])
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	quiet, _ := cmd.Flags().GetBool("quiet")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	a, err := newApp(!dryRun && !noHistory)
	if err != nil {
		return err
	}
	defer a.Close()

	if dryRun {
		plan, err := a.processor.Prepare(req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), runner.CommandLine(plan.Command))
		return nil
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	progress := newConsoleProgress(cmd.ErrOrStderr(), req.Algorithm, quiet)
	res, err := a.processor.Execute(ctx, req, progress)
	progress.Done()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s in %s\n", okStyle.Render("done:"), req.Algorithm, res.Duration.Round(time.Millisecond))
	for _, name := range sortedKeys(res.Outputs) {
		fmt.Fprintf(out, "  %s: %s\n", name, res.Outputs[name])
	}
	return nil
}

// requestFromFlags merges the parameter file and the --param/--output flags.
func requestFromFlags(cmd *cobra.Command, alg string) (types.RunRequest, error) {
	req := types.RunRequest{
		Algorithm: alg,
		Params:    map[string]string{},
		Outputs:   map[string]string{},
	}

	if file, _ := cmd.Flags().GetString("params"); file != "" {
		params, outputs, err := param.LoadFile(file)
		if err != nil {
			return req, err
		}
		for k, v := range params {
			req.Params[k] = v
		}
		for k, v := range outputs {
			req.Outputs[k] = v
		}
	}

	pairs, _ := cmd.Flags().GetStringArray("param")
	params, err := parseAssignments(pairs, "")
	if err != nil {
		return req, err
	}
	for k, v := range params {
		req.Params[k] = v
	}

	pairs, _ = cmd.Flags().GetStringArray("output")
	outputs, err := parseAssignments(pairs, algorithm.OutputPath)
	if err != nil {
		return req, err
	}
	for k, v := range outputs {
		req.Outputs[k] = v
	}

	return req, nil
}

// parseAssignments splits KEY=VALUE pairs. A pair without '=' is assigned
// to bareKey when it is set, and rejected otherwise.
func parseAssignments(pairs []string, bareKey string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			if bareKey == "" {
				return nil, fmt.Errorf("%w: %q is not KEY=VALUE", param.ErrInvalidValue, pair)
			}
			key, value = bareKey, pair
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		if key == "" {
			return nil, fmt.Errorf("%w: %q has an empty name", param.ErrInvalidValue, pair)
		}
		out[key] = value
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// signalContext cancels on interrupt so a running tool is killed cleanly.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func init() {
	runCmd.Flags().StringArrayP("param", "p", nil, "parameter value as KEY=VALUE (repeatable)")
	runCmd.Flags().StringArrayP("output", "O", nil, "output path as KEY=PATH, or a bare PATH for OUTPUT (repeatable)")
	runCmd.Flags().String("params", "", "YAML file with params: and outputs: maps")
	runCmd.Flags().Bool("dry-run", false, "print the command line without executing it")
	runCmd.Flags().BoolP("quiet", "q", false, "do not print tool output")
	runCmd.Flags().Bool("no-history", false, "do not record this run in the history")

	rootCmd.AddCommand(runCmd)
}
