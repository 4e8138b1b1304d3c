package sim

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Distribution describes the trade counts of one outcome bucket.
type Distribution struct {
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	StdDev float64 `json:"std_dev"`
}

// BatchSummary aggregates the sessions of one batch. Rates are percentages of
// SessionsRun; averages are 0 when their bucket is empty.
type BatchSummary struct {
	SessionsRun   int `json:"sessions_run"`
	TargetHits    int `json:"target_hits"`
	DrawdownHits  int `json:"drawdown_hits"`
	ExhaustedHits int `json:"exhausted_hits"`

	WinRate       float64 `json:"win_rate"`
	LossRate      float64 `json:"loss_rate"`
	ExhaustedRate float64 `json:"exhausted_rate"`

	AvgTradesToTarget   float64 `json:"avg_trades_to_target"`
	AvgTradesToDrawdown float64 `json:"avg_trades_to_drawdown"`

	TargetTrades    Distribution `json:"target_trades"`
	DrawdownTrades  Distribution `json:"drawdown_trades"`
	AvgFinalCapital float64      `json:"avg_final_capital"`
}

// sessionOutcome is what a batch keeps of each non-detailed session.
type sessionOutcome struct {
	outcome Outcome
	trades  int
	capital float64
}

// RunBatch simulates sessionCount independent sessions of cfg. Session i
// draws from factory(i). Sessions are spread over a bounded worker pool but
// reduced in index order, so the summary is identical for any worker count.
// Cancelling ctx stops the batch between sessions and returns ctx.Err().
func RunBatch(ctx context.Context, cfg SimulationConfig, sessionCount int, factory SourceFactory, opts ...Option) (BatchSummary, error) {
	if err := cfg.Validate(); err != nil {
		return BatchSummary{}, err
	}
	if sessionCount <= 0 {
		return BatchSummary{}, configErr("session_count", "must be positive, got %d", sessionCount)
	}
	if factory == nil {
		return BatchSummary{}, configErr("source", "factory must not be nil")
	}

	o := newRunOptions(opts)
	start := time.Now()

	outcomes, err := runSessions(ctx, cfg, sessionCount, factory, o.workers)
	if err != nil {
		o.logger.Debug("batch aborted", zap.Int("sessions", sessionCount), zap.Error(err))
		return BatchSummary{}, err
	}

	sum := summarize(outcomes)
	o.logger.Debug("batch complete",
		zap.Int("sessions", sessionCount),
		zap.Float64("amount_risked", cfg.AmountRisked),
		zap.Int("target_hits", sum.TargetHits),
		zap.Int("drawdown_hits", sum.DrawdownHits),
		zap.Duration("elapsed", time.Since(start)),
	)
	return sum, nil
}

func runSessions(ctx context.Context, cfg SimulationConfig, n int, factory SourceFactory, workers int) ([]sessionOutcome, error) {
	policy := newTerminationPolicy(cfg)
	out := make([]sessionOutcome, n)

	// Contiguous chunks keep goroutine count low; each session still owns its slot.
	chunk := n / (workers * 4)
	if chunk < 1 {
		chunk = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		if gctx.Err() != nil {
			break
		}
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				r := simulate(cfg, policy, factory(i), false)
				out[i] = sessionOutcome{outcome: r.Outcome, trades: r.TradeCount, capital: r.FinalCapital}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func summarize(outcomes []sessionOutcome) BatchSummary {
	sum := BatchSummary{SessionsRun: len(outcomes)}

	var toTarget, toDrawdown []float64
	var capital float64
	for _, o := range outcomes {
		capital += o.capital
		switch o.outcome {
		case TargetAchieved:
			sum.TargetHits++
			toTarget = append(toTarget, float64(o.trades))
		case DrawdownBreached:
			sum.DrawdownHits++
			toDrawdown = append(toDrawdown, float64(o.trades))
		default:
			sum.ExhaustedHits++
		}
	}
	if sum.SessionsRun == 0 {
		return sum
	}

	n := float64(sum.SessionsRun)
	sum.WinRate = float64(sum.TargetHits) / n * 100
	sum.LossRate = float64(sum.DrawdownHits) / n * 100
	sum.ExhaustedRate = float64(sum.ExhaustedHits) / n * 100
	sum.AvgFinalCapital = capital / n

	sum.AvgTradesToTarget = mean(toTarget)
	sum.AvgTradesToDrawdown = mean(toDrawdown)
	sum.TargetTrades = distribution(toTarget)
	sum.DrawdownTrades = distribution(toDrawdown)
	return sum
}

// mean is 0 for an empty bucket.
func mean(xs []float64) float64 {
	m, err := stats.Mean(xs)
	if err != nil {
		return 0
	}
	return m
}

func distribution(xs []float64) Distribution {
	if len(xs) == 0 {
		return Distribution{}
	}
	var d Distribution
	d.Median, _ = stats.Median(xs)
	d.P90, _ = stats.Percentile(xs, 90)
	d.StdDev, _ = stats.StandardDeviationPopulation(xs)
	return d
}
