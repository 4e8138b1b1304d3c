package report

import (
	"bytes"
	"testing"

	"github.com/rustyeddy/tradesim/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() sim.SimulationConfig {
	return sim.SimulationConfig{
		StartingCapital:   1000,
		WinProbability:    0.5,
		AmountRisked:      100,
		RiskRewardRatio:   2,
		MaxDrawdown:       sim.Float(250),
		CapitalGrowthGoal: sim.Float(1200),
	}
}

func TestPrintSessionDetailed(t *testing.T) {
	cfg := baseConfig()
	// three straight losses breach the 750 stop
	res, err := sim.SimulateSession(cfg, sim.Scripted(0.99), true)
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSession(&buf, cfg, res)
	out := buf.String()

	assert.Contains(t, out, " Session Result")
	assert.Contains(t, out, "Starting Capital: 1000.00")
	assert.Contains(t, out, "Win Probability:  50.00%")
	assert.Contains(t, out, "Max Drawdown Hit")
	assert.Contains(t, out, "Final Capital: 700.00")
	assert.Contains(t, out, "Min Allowed:   750.00")
	assert.Contains(t, out, "Trades\n")
	assert.Contains(t, out, "Loss")
	assert.NotContains(t, out, "Trade Count:")
}

func TestPrintSessionSummaryOnly(t *testing.T) {
	cfg := baseConfig()
	res, err := sim.SimulateSession(cfg, sim.Scripted(0.0), false)
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSession(&buf, cfg, res)
	out := buf.String()

	assert.Contains(t, out, "Target Achieved")
	assert.Contains(t, out, "Final Capital: 1200.00")
	assert.NotContains(t, out, "Trades\n")
}

func TestPrintBatch(t *testing.T) {
	sum := sim.BatchSummary{
		SessionsRun:       10,
		TargetHits:        6,
		DrawdownHits:      4,
		WinRate:           60,
		LossRate:          40,
		AvgTradesToTarget: 7.5,
		TargetTrades:      sim.Distribution{Median: 7, P90: 11, StdDev: 2.25},
		AvgFinalCapital:   1050,
	}

	var buf bytes.Buffer
	PrintBatch(&buf, baseConfig(), sum)
	out := buf.String()

	assert.Contains(t, out, " Batch Result")
	assert.Contains(t, out, "Target Hits:   6 (60.00%)")
	assert.Contains(t, out, "Drawdown Hits: 4 (40.00%)")
	assert.NotContains(t, out, "Exhausted:")
	assert.Contains(t, out, "Target           7.50       7.00      11.00       2.25")
	assert.Contains(t, out, "Avg Final:     1050.00")
}

func TestPrintSweep(t *testing.T) {
	rep := sim.SweepReport{
		Points: []sim.SweepResult{
			{RiskAmount: 50, Summary: sim.BatchSummary{TargetHits: 5, WinRate: 50, AvgTradesToTarget: 20}},
			{RiskAmount: 100, Summary: sim.BatchSummary{TargetHits: 4, WinRate: 40, AvgTradesToTarget: 9}},
		},
	}
	rep.Optimal = rep.Points[1]
	rep.OptimalRisk = 100

	var buf bytes.Buffer
	PrintSweep(&buf, baseConfig(), rep)
	out := buf.String()

	assert.Contains(t, out, " Risk Sweep Result")
	assert.Contains(t, out, "*       100.00")
	assert.Contains(t, out, "Risk Amount:   100.00")
	assert.Contains(t, out, "Risk %:        10.00%")
	assert.Contains(t, out, "Avg Trades:    9.00")
}

func TestPrintSweepInfeasible(t *testing.T) {
	rep := sim.SweepReport{
		Points: []sim.SweepResult{{RiskAmount: 50, Summary: sim.BatchSummary{DrawdownHits: 5, LossRate: 100}}},
	}

	var buf bytes.Buffer
	PrintSweep(&buf, baseConfig(), rep)
	out := buf.String()

	assert.Contains(t, out, "No candidate ever reached the growth goal.")
	assert.NotContains(t, out, "*")
}
