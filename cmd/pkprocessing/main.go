// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pkprocessing CLI, a processing
// host for pktools algorithms: it declares each algorithm's parameter form,
// validates user values, assembles the pktools command line, runs it, and
// keeps a history of runs.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pkprocessing/internal/log"
	"github.com/pdiddy/pkprocessing/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg holds the configuration resolved before any subcommand runs.
var cfg types.Config

// rootCmd is the base command for the pkprocessing CLI.
var rootCmd = &cobra.Command{
	Use:   "pkprocessing",
	Short: "Run pktools remote-sensing algorithms from declared parameter forms",
	Long: `pkprocessing exposes pktools command-line tools as processing algorithms.
Each algorithm declares typed parameters (rasters, vectors, files, numbers,
selections, strings, booleans). A run validates the supplied values, builds
the pktools argument list, executes the tool and streams its progress.

Use "list" to see the algorithms, "describe" for a parameter form, "run" to
execute one algorithm, and "batch" to execute a YAML list of runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("decoding configuration: %w", err)
		}
		h, err := log.NewHandler(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(h))
		if used := viper.ConfigFileUsed(); used != "" {
			slog.Debug("using config file", slog.String("path", used))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./pkprocessing.yaml or ~/.config/pkprocessing/config.yaml)")
	flags.String("pktools-path", "", "directory containing the pktools executables (default: search PATH)")
	flags.String("log-level", "info", "log level: "+strings.Join(log.AllLevels, ", "))
	flags.String("log-format", "text", "log format: "+strings.Join(log.AllFormats, ", "))
	flags.String("history-db", "", "processing history database (empty string disables history)")
	flags.String("metrics-file", "", "write Prometheus metrics to this textfile after each command")

	_ = viper.BindPFlag("pktools_path", flags.Lookup("pktools-path"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("history.db", flags.Lookup("history-db"))
	_ = viper.BindPFlag("metrics.file", flags.Lookup("metrics-file"))

	viper.SetDefault("history.db", defaultHistoryDB())
	viper.SetDefault("history.limit", 20)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pkprocessing")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pkprocessing"))
		}
	}

	viper.SetEnvPrefix("PKPROCESSING")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

// defaultHistoryDB places the history under the user's data directory.
func defaultHistoryDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "pkprocessing", "history.db")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
