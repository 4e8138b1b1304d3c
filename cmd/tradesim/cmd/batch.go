package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/pkg/id"
	"github.com/rustyeddy/tradesim/report"
	"github.com/rustyeddy/tradesim/sim"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run many sessions and report outcome statistics",
	Long: `Run batch.sessions independent sessions of the configured simulation and
report how often the goal or the drawdown stop is hit, and how many trades
it takes to get there.

Results depend only on the config and --seed, never on --workers.

Example:
  tradesim batch -f simulation.yaml --sessions 10000 --seed 7`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	out := cmd.OutOrStdout()
	printRiskWarnings(out, cfg.Simulation)

	start := time.Now()
	sum, err := sim.RunBatch(ctx, cfg.Simulation, cfg.Batch.Sessions, sim.Seeded(cfg.Batch.Seed), runOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	report.PrintBatch(out, cfg.Simulation, sum)
	fmt.Fprintf(out, "Elapsed: %s\n", time.Since(start).Round(time.Millisecond))

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	run := journal.Run{
		RunID:    id.NewAt(start),
		Created:  start,
		Mode:     journal.ModeBatch,
		Seed:     cfg.Batch.Seed,
		Sessions: cfg.Batch.Sessions,
		Config:   cfg.Simulation,
	}
	if err := j.RecordRun(run); err != nil {
		return fmt.Errorf("journal run: %w", err)
	}
	if err := j.RecordSummary(journal.SummaryRecord{RunID: run.RunID, RiskAmount: cfg.Simulation.AmountRisked, Summary: sum}); err != nil {
		return fmt.Errorf("journal summary: %w", err)
	}
	if journaling(cfg.Journal) {
		fmt.Fprintf(out, "Run ID: %s\n", run.RunID)
	}
	return nil
}
