package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"MemeSim/internal/config"
	"MemeSim/internal/logging"
	"MemeSim/internal/recorder"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cleanup func()
	rootCmd := &cobra.Command{
		Use:   "memesim",
		Short: "Meme coin portfolio simulator",
		Long: `memesim simulates a portfolio that buys one meme coin per day and
lets each one survive or die through a short and a long stage.

Run a single simulation, a Monte Carlo batch, or a scheduled daemon
that posts reports to Telegram.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			if level == "" {
				level = os.Getenv("LOG_LEVEL")
			}
			cleanup = logging.Setup(level)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cleanup != nil {
				cleanup()
			}
		},
	}

	rootCmd.PersistentFlags().String("config", defaultConfigPath(), "Path to the YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(
		newRunCmd(),
		newBatchCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

// loadConfig reads the config named by --config and applies --log-level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	} else {
		// the logger was built before the file was read
		zap.ReplaceGlobals(logging.New(cfg.Logging.Level))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// openRecorder falls back to a no-op recorder when the database is
// unavailable, so a broken disk never stops a simulation.
func openRecorder(path string, disabled bool) recorder.Recorder {
	if disabled || path == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		zap.S().Warnf("create database dir failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		zap.S().Warnf("init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

func freshSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "memesim %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
