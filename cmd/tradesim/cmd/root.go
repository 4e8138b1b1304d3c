package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradesim/config"
	"github.com/rustyeddy/tradesim/internal/logger"
	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/risk"
	"github.com/rustyeddy/tradesim/sim"
)

var rootCmd = &cobra.Command{
	Use:   "tradesim",
	Short: "Monte Carlo simulator for fixed-risk trading sessions",
	Long: `Tradesim simulates the evolution of a trading account under fixed risk
parameters, a trailing drawdown stop and an optional growth goal.

It provides tools for:
  - Running a single session trade by trade
  - Estimating goal and drawdown probabilities over many sessions
  - Sweeping the amount risked to find the fastest route to the goal
  - Journaling runs to CSV or SQLite and exporting them as Org entries
  - Serving the simulator over a small JSON API

Without --config the built-in defaults are used (see 'tradesim config init').`,
	SilenceUsage: true,
}

var (
	cfgFile      string
	seedFlag     uint64
	sessionsFlag int
	workersFlag  int
	noJournal    bool
	verbose      bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "f", "", "path to config file (YAML or JSON)")
	pf.Uint64Var(&seedFlag, "seed", 1, "random seed (overrides batch.seed)")
	pf.IntVar(&sessionsFlag, "sessions", 1000, "sessions per batch (overrides batch.sessions)")
	pf.IntVar(&workersFlag, "workers", 0, "worker goroutines, 0 = GOMAXPROCS (overrides batch.workers)")
	pf.BoolVar(&noJournal, "no-journal", false, "do not record the run")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log engine progress to stderr")
}

// loadConfig reads --config (or the defaults) and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Batch.Seed = seedFlag
	}
	if flags.Changed("sessions") {
		cfg.Batch.Sessions = sessionsFlag
	}
	if flags.Changed("workers") {
		cfg.Batch.Workers = workersFlag
	}
	if noJournal {
		cfg.Journal.Type = "none"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		return journal.NewCSV(jc.TradesFile, jc.SummaryFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return journal.Nop{}, nil
	}
}

func journaling(jc config.JournalConfig) bool {
	return jc.Type == "csv" || jc.Type == "sqlite"
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	return logger.New()
}

func runOptions(cfg *config.Config) []sim.Option {
	return []sim.Option{
		sim.WithWorkers(cfg.Batch.Workers),
		sim.WithLogger(newLogger()),
	}
}

// printRiskWarnings reports policy violations; they never stop a run.
func printRiskWarnings(w io.Writer, c sim.SimulationConfig) {
	d := risk.Evaluate(risk.DefaultPolicy(), c)
	for _, v := range d.Violations {
		fmt.Fprintf(w, "⚠ %s: %s\n", v.Code, v.Msg)
	}
	if len(d.Violations) > 0 {
		fmt.Fprintln(w)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}
