// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pkprocessing/internal/history"
	"github.com/pdiddy/pkprocessing/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently executed runs",
	Long: `History lists runs recorded in the processing history database, newest
first, with their command line, status, duration and outputs.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Clear(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d run(s)\n", n)
		return nil
	},
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	if !cmd.Flags().Changed("limit") {
		limit = cfg.History.Limit
	}

	entries, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(cmd.OutOrStdout(), entries, jsonOutput, time.Now())
}

func openHistory() (*history.Store, error) {
	if cfg.History.DB == "" {
		return nil, fmt.Errorf("history is disabled: set history.db or --history-db")
	}
	return history.Open(cfg.History.DB)
}

func formatHistory(w io.Writer, entries []history.Entry, jsonOutput bool, now time.Time) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []history.Entry{}
		}
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tALGORITHM\tSTATUS\tDURATION\tOUTPUTS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(e.ID),
			humanize.RelTime(e.StartedAt, now, "ago", "from now"),
			e.Algorithm,
			statusText(e.Status),
			e.Duration.Round(time.Millisecond),
			strings.Join(sortedValues(e.Outputs), ", "),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Fprintf(w, "\n%s %s\n", shortID(e.ID), mutedStyle.Render(e.CommandLine))
		if e.Error != "" {
			fmt.Fprintf(w, "  %s\n", errStyle.Render(e.Error))
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statusText(s types.RunStatus) string {
	if s == types.RunSucceeded {
		return okStyle.Render(string(s))
	}
	return errStyle.Render(string(s))
}

func sortedValues(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		out = append(out, m[k])
	}
	return out
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")
	historyCmd.AddCommand(historyClearCmd)

	rootCmd.AddCommand(historyCmd)
}
