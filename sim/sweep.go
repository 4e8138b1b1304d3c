package sim

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SweepResult is one evaluated risk candidate.
type SweepResult struct {
	RiskAmount float64      `json:"risk_amount"`
	Summary    BatchSummary `json:"summary"`
}

// SweepReport holds every evaluated candidate, in the order given, and the
// selected optimum. Optimal is the zero value when no candidate is feasible.
type SweepReport struct {
	Points      []SweepResult `json:"points"`
	Optimal     SweepResult   `json:"optimal"`
	OptimalRisk float64       `json:"optimal_risk"`
}

// Feasible reports whether an optimum was selected.
func (r SweepReport) Feasible() bool {
	return r.Optimal.Summary.TargetHits > 0
}

// OptimizeRisk runs a batch of sessionCount sessions for every candidate
// amount_risked and selects the candidate with the lowest average trades to
// target among those that reached the target at least once. Ties go to the
// earlier candidate. Every candidate reuses factory, so candidates are
// compared on the same random streams.
//
// When no candidate ever reaches the target the full report is returned
// along with an *InfeasibleOptimizationError.
func OptimizeRisk(ctx context.Context, template SimulationConfig, risks []float64, sessionCount int, factory SourceFactory, opts ...Option) (SweepReport, error) {
	if len(risks) == 0 {
		return SweepReport{}, configErr("risk_range", "must contain at least one candidate")
	}
	for _, r := range risks {
		if err := template.WithRisk(r).Validate(); err != nil {
			return SweepReport{}, err
		}
	}
	if template.CapitalGrowthGoal == nil {
		return SweepReport{}, configErr("capital_growth_goal", "is required to optimize trades to target")
	}
	if sessionCount <= 0 {
		return SweepReport{}, configErr("session_count", "must be positive, got %d", sessionCount)
	}
	if factory == nil {
		return SweepReport{}, configErr("source", "factory must not be nil")
	}

	o := newRunOptions(opts)
	start := time.Now()
	o.logger.Info("sweep started",
		zap.Int("candidates", len(risks)),
		zap.Int("sessions", sessionCount),
		zap.Float64("min_risk", risks[0]),
		zap.Float64("max_risk", risks[len(risks)-1]),
	)

	points := make([]SweepResult, len(risks))

	// Candidates share the worker budget: each batch runs single threaded.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, r := range risks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			sum, err := RunBatch(gctx, template.WithRisk(r), sessionCount, factory,
				WithWorkers(1), WithLogger(o.logger))
			if err != nil {
				return err
			}
			points[i] = SweepResult{RiskAmount: r, Summary: sum}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SweepReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return SweepReport{}, err
	}

	report := SweepReport{Points: points}
	best := -1
	for i, p := range points {
		if p.Summary.TargetHits == 0 {
			continue
		}
		if best < 0 || p.Summary.AvgTradesToTarget < points[best].Summary.AvgTradesToTarget {
			best = i
		}
	}
	if best < 0 {
		o.logger.Warn("sweep found no feasible risk amount", zap.Int("candidates", len(risks)))
		return report, &InfeasibleOptimizationError{Candidates: len(risks)}
	}

	report.Optimal = points[best]
	report.OptimalRisk = points[best].RiskAmount
	o.logger.Info("sweep complete",
		zap.Float64("optimal_risk", report.OptimalRisk),
		zap.Float64("avg_trades_to_target", report.Optimal.Summary.AvgTradesToTarget),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}
