package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"MemeSim/internal/calculator"
	"MemeSim/internal/chart"
	"MemeSim/internal/config"
	"MemeSim/internal/model"
	"MemeSim/internal/notifier"
	"MemeSim/internal/recorder"
	"MemeSim/internal/sampler"
	"MemeSim/internal/simulator"
)

type runOutput struct {
	Seed                  uint64           `json:"seed"`
	Params                model.Params     `json:"params"`
	ExpectedValuePerAsset float64          `json:"expected_value_per_asset"`
	Summary               model.RunSummary `json:"summary"`
	ChartPath             string           `json:"chart_path,omitempty"`
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation and render the portfolio chart",
		Long: `Runs the hourly portfolio simulation once, prints the expected value
per meme coin and a summary, writes the cash / AUM / expected value chart
and records the run.

Flags override the config file only when they are set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applySimulationFlags(cmd, cfg)
			chartPath := cfg.Output.ChartPath
			if cmd.Flags().Changed("chart") {
				chartPath, _ = cmd.Flags().GetString("chart")
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			noRecord, _ := cmd.Flags().GetBool("no-record")

			p := cfg.Params()
			seed := cfg.Simulation.Seed
			if seed == 0 {
				seed = freshSeed()
			}

			res, err := simulator.Run(p, sampler.NewPCG(seed))
			if err != nil {
				return fmt.Errorf("simulate: %w", err)
			}
			summary := calculator.Summarize(p, res)

			if chartPath != "" {
				opts := chart.Options{Stride: cfg.Output.ChartStride, Unit: cfg.Output.Unit}
				if err := chart.WriteFile(chartPath, res, opts); err != nil {
					return fmt.Errorf("write chart: %w", err)
				}
				zap.S().Infof("chart written to %s", chartPath)
			}

			rec := openRecorder(cfg.Database.SQLitePath, noRecord)
			defer rec.Close()
			if err := rec.RecordRun(&recorder.RunRecord{
				Source:  recorder.SourceCLI,
				Seed:    seed,
				Params:  p,
				Summary: summary,
				Result:  res,
			}); err != nil {
				zap.S().Errorf("record run: %v", err)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(runOutput{
					Seed:                  seed,
					Params:                p,
					ExpectedValuePerAsset: res.ExpectedValuePerAsset,
					Summary:               summary,
					ChartPath:             chartPath,
				})
			}
			fmt.Fprintln(out, notifier.FormatExpectedValue(res.ExpectedValuePerAsset, cfg.Output.Unit))
			fmt.Fprintln(out)
			fmt.Fprintln(out, notifier.FormatRunReport(p, seed, summary, res.ExpectedValuePerAsset, cfg.Output.Unit))
			return nil
		},
	}

	addSimulationFlags(cmd)
	cmd.Flags().String("chart", "", "Chart output path; empty disables the chart (default from config)")
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	cmd.Flags().Bool("no-record", false, "Do not record the run in SQLite")
	return cmd
}

func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("capital", 0, "Capital spent on each purchase")
	cmd.Flags().Float64("initial", 0, "Starting cash")
	cmd.Flags().Float64("short-fail", 0, "Short-stage failure probability")
	cmd.Flags().Float64("long-fail", 0, "Long-stage failure probability")
	cmd.Flags().Float64("multiplier", 0, "Payout multiplier on long-stage success")
	cmd.Flags().Int("hours", 0, "Simulated hours")
	cmd.Flags().Uint64("seed", 0, "Random seed; 0 picks a fresh one")
}

// applySimulationFlags copies explicitly set flags over the config.
func applySimulationFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	s := &cfg.Simulation
	if f.Changed("capital") {
		s.CapitalPerAsset, _ = f.GetFloat64("capital")
	}
	if f.Changed("initial") {
		s.InitialCapital, _ = f.GetFloat64("initial")
	}
	if f.Changed("short-fail") {
		s.ShortFailureRate, _ = f.GetFloat64("short-fail")
	}
	if f.Changed("long-fail") {
		s.LongFailureRate, _ = f.GetFloat64("long-fail")
	}
	if f.Changed("multiplier") {
		s.SuccessMultiplier, _ = f.GetFloat64("multiplier")
	}
	if f.Changed("hours") {
		s.TimeHorizonHours, _ = f.GetInt("hours")
	}
	if f.Changed("seed") {
		s.Seed, _ = f.GetUint64("seed")
	}
}
