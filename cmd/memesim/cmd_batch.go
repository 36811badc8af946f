package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"MemeSim/internal/batch"
	"MemeSim/internal/notifier"
	"MemeSim/internal/recorder"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run a Monte Carlo batch of independent simulations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applySimulationFlags(cmd, cfg)
			if cmd.Flags().Changed("trials") {
				cfg.Batch.Trials, _ = cmd.Flags().GetInt("trials")
			}
			if cmd.Flags().Changed("workers") {
				cfg.Batch.Workers, _ = cmd.Flags().GetInt("workers")
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			noRecord, _ := cmd.Flags().GetBool("no-record")

			p := cfg.Params()
			summary, err := batch.Run(cmd.Context(), p, batch.Options{
				Trials:  cfg.Batch.Trials,
				Workers: cfg.Batch.Workers,
				Seed:    cfg.Simulation.Seed,
			})
			if err != nil {
				return fmt.Errorf("batch: %w", err)
			}

			rec := openRecorder(cfg.Database.SQLitePath, noRecord)
			defer rec.Close()
			if err := rec.RecordBatch(&recorder.BatchRecord{
				Source:  recorder.SourceCLI,
				Params:  p,
				Summary: summary,
			}); err != nil {
				zap.S().Errorf("record batch: %v", err)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			fmt.Fprintln(out, notifier.FormatBatchReport(p, summary, cfg.Output.Unit))
			return nil
		},
	}

	addSimulationFlags(cmd)
	cmd.Flags().Int("trials", 0, "Number of runs (default from config)")
	cmd.Flags().Int("workers", 0, "Worker pool size (default from config)")
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	cmd.Flags().Bool("no-record", false, "Do not record the batch in SQLite")
	return cmd
}
