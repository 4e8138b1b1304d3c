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

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Simulate a single session trade by trade",
	Long: `Run one session of the configured simulation and print every trade.

The session uses the stream of --seed, so the same seed replays the same
session. Detailed sessions are journaled with all their trades.

Example:
  tradesim session -f simulation.yaml --seed 42`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

var sessionSummaryOnly bool

func init() {
	rootCmd.AddCommand(sessionCmd)

	sessionCmd.Flags().BoolVar(&sessionSummaryOnly, "summary", false, "print only the outcome, not the trades")
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printRiskWarnings(out, cfg.Simulation)

	res, err := sim.SimulateSession(cfg.Simulation, sim.Seeded(cfg.Batch.Seed)(0), !sessionSummaryOnly)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	report.PrintSession(out, cfg.Simulation, res)

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	now := time.Now()
	run := journal.Run{
		RunID:   id.NewAt(now),
		Created: now,
		Seed:    cfg.Batch.Seed,
		Config:  cfg.Simulation,
	}
	if err := journal.RecordSession(j, run, res); err != nil {
		return fmt.Errorf("journal session: %w", err)
	}
	if journaling(cfg.Journal) {
		fmt.Fprintf(out, "Run ID: %s\n", run.RunID)
	}
	return nil
}
