package sim

// tradeResult is the signed, commission-adjusted P/L of one trade.
func tradeResult(c SimulationConfig, win bool) float64 {
	if win {
		return c.WinPnL()
	}
	return c.LossPnL()
}

// drawWin draws one Bernoulli trial with success probability p.
func drawWin(rng Source, p float64) bool {
	return rng.Float64() < p
}
