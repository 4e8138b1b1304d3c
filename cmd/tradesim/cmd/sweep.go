package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/pkg/id"
	"github.com/rustyeddy/tradesim/report"
	"github.com/rustyeddy/tradesim/sim"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Find the amount risked that reaches the goal fastest",
	Long: `Run a batch for every candidate amount_risked and pick the one with the
lowest average number of trades to reach capital_growth_goal.

Candidates are sweep.steps values from sweep.min_risk up to
sweep.max_risk_fraction of the starting capital. All candidates use the
same random streams so they are compared on identical luck.

Example:
  tradesim sweep -f simulation.yaml --sessions 2000 --steps 20`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

var (
	sweepMinRisk  float64
	sweepFraction float64
	sweepSteps    int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().Float64Var(&sweepMinRisk, "min-risk", 0, "smallest amount risked (overrides sweep.min_risk)")
	sweepCmd.Flags().Float64Var(&sweepFraction, "max-fraction", 0, "largest amount risked as a fraction of capital (overrides sweep.max_risk_fraction)")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 0, "number of candidates (overrides sweep.steps)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("min-risk") {
		cfg.Sweep.MinRisk = sweepMinRisk
	}
	if flags.Changed("max-fraction") {
		cfg.Sweep.MaxRiskFraction = sweepFraction
	}
	if flags.Changed("steps") {
		cfg.Sweep.Steps = sweepSteps
	}
	risks, err := cfg.RiskCandidates()
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sweeping %d candidates from %.2f to %.2f, %d sessions each\n\n",
		len(risks), risks[0], risks[len(risks)-1], cfg.Batch.Sessions)

	start := time.Now()
	rep, sweepErr := sim.OptimizeRisk(ctx, cfg.Simulation, risks, cfg.Batch.Sessions, sim.Seeded(cfg.Batch.Seed), runOptions(cfg)...)
	if sweepErr != nil && !errors.Is(sweepErr, sim.ErrInfeasible) {
		return fmt.Errorf("sweep: %w", sweepErr)
	}
	report.PrintSweep(out, cfg.Simulation, rep)
	fmt.Fprintf(out, "Elapsed: %s\n", time.Since(start).Round(time.Millisecond))

	if rep.Feasible() {
		printRiskWarnings(out, cfg.Simulation.WithRisk(rep.OptimalRisk))
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	run := journal.Run{
		RunID:    id.NewAt(start),
		Created:  start,
		Seed:     cfg.Batch.Seed,
		Sessions: cfg.Batch.Sessions,
		Config:   cfg.Simulation,
	}
	if err := journal.RecordSweep(j, run, rep); err != nil {
		return fmt.Errorf("journal sweep: %w", err)
	}
	if journaling(cfg.Journal) {
		fmt.Fprintf(out, "Run ID: %s\n", run.RunID)
	}

	return sweepErr
}
