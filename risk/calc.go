package risk

import (
	"math"

	"github.com/rustyeddy/tradesim/sim"
)

// RiskPct is the share of capital put at risk by one trade.
func RiskPct(amountRisked, capital float64) float64 {
	if capital <= 0 {
		return math.Inf(1)
	}
	return amountRisked / capital
}

// Expectancy is the expected P/L of one trade after commission.
func Expectancy(c sim.SimulationConfig) float64 {
	return c.WinProbability*c.WinPnL() + (1-c.WinProbability)*c.LossPnL()
}

// BreakEvenWinRate is the win probability at which Expectancy is zero.
// It is +Inf when a win does not cover its commission.
func BreakEvenWinRate(c sim.SimulationConfig) float64 {
	w, l := c.WinPnL(), c.LossPnL()
	if w <= 0 {
		return math.Inf(1)
	}
	return -l / (w - l)
}

// LossesToBreach is the number of consecutive losses from a fresh high that
// breaches the trailing stop. It is 0 when the config has no drawdown stop.
func LossesToBreach(c sim.SimulationConfig) int {
	if c.MaxDrawdown == nil {
		return 0
	}
	per := c.AmountRisked + c.Commission
	n := math.Ceil(*c.MaxDrawdown / per)
	// landing exactly on the stop is not a breach
	if n*per == *c.MaxDrawdown {
		n++
	}
	return int(n)
}
