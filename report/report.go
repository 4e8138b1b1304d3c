// Package report prints human readable summaries of simulator runs.
package report

import (
	"fmt"
	"io"

	"github.com/rustyeddy/tradesim/sim"
	"github.com/shopspring/decimal"
)

const (
	banner = "=================================================="
	rule   = "--------------------------------------------------"
)

func money(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}

func pct(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2) + "%"
}

func header(w io.Writer, title string) {
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, " %s\n", title)
	fmt.Fprintln(w, banner)
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
}

// PrintConfig writes the simulation parameters.
func PrintConfig(w io.Writer, cfg sim.SimulationConfig) {
	section(w, "Parameters")
	fmt.Fprintf(w, "Starting Capital: %s\n", money(cfg.StartingCapital))
	fmt.Fprintf(w, "Win Probability:  %s\n", pct(cfg.WinProbability*100))
	fmt.Fprintf(w, "Amount Risked:    %s\n", money(cfg.AmountRisked))
	fmt.Fprintf(w, "Risk/Reward:      %.2f\n", cfg.RiskRewardRatio)
	fmt.Fprintf(w, "Commission:       %s\n", money(cfg.Commission))
	if cfg.MaxDrawdown != nil {
		fmt.Fprintf(w, "Max Drawdown:     %s\n", money(*cfg.MaxDrawdown))
	}
	if cfg.CapitalGrowthGoal != nil {
		fmt.Fprintf(w, "Growth Goal:      %s\n", money(*cfg.CapitalGrowthGoal))
	}
	if cfg.TradeCount != nil {
		fmt.Fprintf(w, "Trade Count:      %d\n", *cfg.TradeCount)
	}
	if cfg.MaxIterations != nil {
		fmt.Fprintf(w, "Max Iterations:   %d\n", *cfg.MaxIterations)
	}
}

// PrintSession writes a single session result. Detailed sessions also get
// their trade table.
func PrintSession(w io.Writer, cfg sim.SimulationConfig, res sim.SessionResult) {
	header(w, "Session Result")
	PrintConfig(w, cfg)

	if res.Detailed() {
		section(w, "Trades")
		fmt.Fprintf(w, "%6s  %-5s %12s %12s %12s %12s\n", "Trade", "Res", "P/L", "Capital", "Max Capital", "Min Allowed")
		for t := range res.Trades() {
			stop := "-"
			if t.MinAllowedBalance != nil {
				stop = money(*t.MinAllowedBalance)
			}
			fmt.Fprintf(w, "%6d  %-5s %12s %12s %12s %12s\n",
				t.Index, t.Result(), money(t.PnL), money(t.DisplayCapital()), money(t.MaxCapital), stop)
		}
	}

	section(w, "Outcome")
	fmt.Fprintf(w, "Outcome:       %s\n", res.Outcome.Label())
	fmt.Fprintf(w, "Trades:        %d\n", res.TradeCount)
	fmt.Fprintf(w, "Final Capital: %s\n", money(res.FinalCapital))
	fmt.Fprintf(w, "Max Capital:   %s\n", money(res.MaxCapital))
	if res.MinAllowedBalance != nil {
		fmt.Fprintf(w, "Min Allowed:   %s\n", money(*res.MinAllowedBalance))
	}
	fmt.Fprintln(w)
}

// PrintBatch writes the aggregate statistics of a batch.
func PrintBatch(w io.Writer, cfg sim.SimulationConfig, sum sim.BatchSummary) {
	header(w, "Batch Result")
	PrintConfig(w, cfg)
	printSummary(w, sum)
	fmt.Fprintln(w)
}

func printSummary(w io.Writer, sum sim.BatchSummary) {
	section(w, "Outcomes")
	fmt.Fprintf(w, "Sessions:      %d\n", sum.SessionsRun)
	fmt.Fprintf(w, "Target Hits:   %d (%s)\n", sum.TargetHits, pct(sum.WinRate))
	fmt.Fprintf(w, "Drawdown Hits: %d (%s)\n", sum.DrawdownHits, pct(sum.LossRate))
	if sum.ExhaustedHits > 0 {
		fmt.Fprintf(w, "Exhausted:     %d (%s)\n", sum.ExhaustedHits, pct(sum.ExhaustedRate))
	}

	section(w, "Trades To Outcome")
	fmt.Fprintf(w, "%-10s %10s %10s %10s %10s\n", "", "Average", "Median", "P90", "StdDev")
	printDist(w, "Target", sum.AvgTradesToTarget, sum.TargetTrades)
	printDist(w, "Drawdown", sum.AvgTradesToDrawdown, sum.DrawdownTrades)

	section(w, "Capital")
	fmt.Fprintf(w, "Avg Final:     %s\n", money(sum.AvgFinalCapital))
}

func printDist(w io.Writer, name string, avg float64, d sim.Distribution) {
	fmt.Fprintf(w, "%-10s %10.2f %10.2f %10.2f %10.2f\n", name, avg, d.Median, d.P90, d.StdDev)
}

// PrintSweep writes one row per candidate and marks the optimum.
func PrintSweep(w io.Writer, template sim.SimulationConfig, rep sim.SweepReport) {
	header(w, "Risk Sweep Result")
	PrintConfig(w, template)

	section(w, "Candidates")
	fmt.Fprintf(w, "  %12s %10s %10s %10s %12s\n", "Risk", "Win Rate", "Loss Rate", "Avg Trades", "Avg Final")
	for _, p := range rep.Points {
		mark := " "
		if rep.Feasible() && p.RiskAmount == rep.OptimalRisk {
			mark = "*"
		}
		s := p.Summary
		fmt.Fprintf(w, "%s %12s %10s %10s %10.2f %12s\n",
			mark, money(p.RiskAmount), pct(s.WinRate), pct(s.LossRate), s.AvgTradesToTarget, money(s.AvgFinalCapital))
	}

	section(w, "Optimal")
	if !rep.Feasible() {
		fmt.Fprintln(w, "No candidate ever reached the growth goal.")
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, "Risk Amount:   %s\n", money(rep.OptimalRisk))
	fmt.Fprintf(w, "Risk %%:        %s\n", pct(rep.OptimalRisk/template.StartingCapital*100))
	fmt.Fprintf(w, "Avg Trades:    %.2f\n", rep.Optimal.Summary.AvgTradesToTarget)
	fmt.Fprintf(w, "Win Rate:      %s\n", pct(rep.Optimal.Summary.WinRate))
	fmt.Fprintln(w)
}
