package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/report"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded runs",
	Long: `Query and display runs recorded in the SQLite journal.

Subcommands:
  runs  - List the most recent runs
  show  - Show one run with its trades or summaries
  org   - Export one run as an Org-mode entry

Examples:
  tradesim journal runs -n 20
  tradesim journal show 01HV3...
  tradesim journal org 01HV3... -o run.org`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List the most recent runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalOrgCmd = &cobra.Command{
	Use:   "org <run-id>",
	Short: "Export one run as an Org-mode entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalOrg,
}

var (
	journalDBPath string
	journalLimit  int
	journalOrgOut string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalOrgCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to SQLite journal DB (default journal.db_path)")
	journalRunsCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "number of runs to list, 0 for all")
	journalOrgCmd.Flags().StringVarP(&journalOrgOut, "output", "o", "", "write to file instead of stdout")
}

func openSQLite(cmd *cobra.Command) (*journal.SQLite, error) {
	path := journalDBPath
	if path == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return nil, err
		}
		path = cfg.Journal.DBPath
	}
	if path == "" {
		return nil, fmt.Errorf("no journal database: set --db or journal.db_path")
	}
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := openSQLite(cmd)
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(journalLimit)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-26s  %-16s  %-7s  %8s  %10s  %s\n", "RUN ID", "CREATED", "MODE", "SESSIONS", "RISK", "RESULT")
	for _, r := range runs {
		fmt.Fprintf(out, "%-26s  %-16s  %-7s  %8d  %10.2f  %s\n",
			r.RunID, r.Created.Local().Format("2006-01-02 15:04"), r.Mode, r.Sessions, r.Config.AmountRisked, runResult(r))
	}
	return nil
}

func runResult(r journal.Run) string {
	switch r.Mode {
	case journal.ModeSession:
		return fmt.Sprintf("%s after %d trades", r.Outcome, r.TradeCount)
	case journal.ModeSweep:
		if r.OptimalRisk == nil {
			return "infeasible"
		}
		return fmt.Sprintf("optimal risk %.2f", *r.OptimalRisk)
	}
	return ""
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := openSQLite(cmd)
	if err != nil {
		return err
	}
	defer j.Close()

	run, err := j.GetRun(args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run ID:   %s\n", run.RunID)
	fmt.Fprintf(out, "Created:  %s\n", run.Created.Format(time.RFC3339))
	fmt.Fprintf(out, "Mode:     %s\n", run.Mode)
	fmt.Fprintf(out, "Seed:     %d\n", run.Seed)
	fmt.Fprintf(out, "Sessions: %d\n", run.Sessions)
	report.PrintConfig(out, run.Config)
	fmt.Fprintln(out)

	switch run.Mode {
	case journal.ModeSession:
		trades, err := j.ListTrades(run.RunID)
		if err != nil {
			return fmt.Errorf("query trades: %w", err)
		}
		fmt.Fprintf(out, "Outcome: %s after %d trades, final capital %.2f\n", run.Outcome, run.TradeCount, run.FinalCapital)
		for _, t := range trades {
			fmt.Fprintf(out, "%6d  %-5s %10.2f %12.2f\n", t.Index, t.Result(), t.PnL, t.DisplayCapital())
		}
	default:
		sums, err := j.ListSummaries(run.RunID)
		if err != nil {
			return fmt.Errorf("query summaries: %w", err)
		}
		for _, s := range sums {
			b := s.Summary
			fmt.Fprintf(out, "risk %10.2f  target %6.2f%%  drawdown %6.2f%%  avg trades %8.2f\n",
				s.RiskAmount, b.WinRate, b.LossRate, b.AvgTradesToTarget)
		}
	}
	return nil
}

func runJournalOrg(cmd *cobra.Command, args []string) error {
	j, err := openSQLite(cmd)
	if err != nil {
		return err
	}
	defer j.Close()

	run, err := j.GetRun(args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	sums, err := j.ListSummaries(run.RunID)
	if err != nil {
		return fmt.Errorf("query summaries: %w", err)
	}

	rep := journal.OrgReport{Run: run, Summaries: sums}
	if journalOrgOut != "" {
		if err := rep.WriteOrgFile(journalOrgOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", journalOrgOut)
		return nil
	}
	return rep.WriteOrg(cmd.OutOrStdout())
}
