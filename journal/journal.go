package journal

import (
	"time"

	"github.com/rustyeddy/tradesim/sim"
)

// Run modes.
const (
	ModeSession = "session"
	ModeBatch   = "batch"
	ModeSweep   = "sweep"
)

// Run describes one invocation of the engine.
type Run struct {
	RunID    string
	Created  time.Time
	Mode     string
	Seed     uint64
	Sessions int
	Config   sim.SimulationConfig

	// Session runs only
	Outcome      string
	TradeCount   int
	FinalCapital float64

	// Sweep runs only; nil when no candidate was feasible
	OptimalRisk *float64

	Notes []string
}

// SummaryRecord is one batch summary. Batch runs write one, sweeps one per candidate.
type SummaryRecord struct {
	RunID      string
	RiskAmount float64
	Summary    sim.BatchSummary
}

type Journal interface {
	RecordRun(Run) error
	RecordTrade(runID string, t sim.TradeRecord) error
	RecordSummary(SummaryRecord) error
	Close() error
}

// RecordSession writes a detailed session: its run row and every trade.
func RecordSession(j Journal, run Run, res sim.SessionResult) error {
	run.Mode = ModeSession
	run.Sessions = 1
	run.Outcome = res.Outcome.String()
	run.TradeCount = res.TradeCount
	run.FinalCapital = res.FinalCapital
	if err := j.RecordRun(run); err != nil {
		return err
	}
	for t := range res.Trades() {
		if err := j.RecordTrade(run.RunID, t); err != nil {
			return err
		}
	}
	return nil
}

// RecordSweep writes the run row of a sweep and a summary per candidate.
func RecordSweep(j Journal, run Run, rep sim.SweepReport) error {
	run.Mode = ModeSweep
	if rep.Feasible() {
		run.OptimalRisk = sim.Float(rep.OptimalRisk)
	}
	if err := j.RecordRun(run); err != nil {
		return err
	}
	for _, p := range rep.Points {
		if err := j.RecordSummary(SummaryRecord{RunID: run.RunID, RiskAmount: p.RiskAmount, Summary: p.Summary}); err != nil {
			return err
		}
	}
	return nil
}

// Nop discards everything. It backs journal type "none".
type Nop struct{}

func (Nop) RecordRun(Run) error { return nil }
func (Nop) RecordTrade(string, sim.TradeRecord) error { return nil }
func (Nop) RecordSummary(SummaryRecord) error { return nil }
func (Nop) Close() error { return nil }
