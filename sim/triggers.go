package sim

// terminationPolicy is built once per session from the config's capability
// set and evaluated before every trade.
type terminationPolicy struct {
	hasDrawdown bool
	drawdown    float64

	hasGoal bool
	goal    float64

	hasTradeLimit bool
	tradeLimit    int

	hasCeiling bool
	ceiling    int
}

func newTerminationPolicy(c SimulationConfig) terminationPolicy {
	var p terminationPolicy
	if c.MaxDrawdown != nil {
		p.hasDrawdown, p.drawdown = true, *c.MaxDrawdown
	}
	if c.CapitalGrowthGoal != nil {
		p.hasGoal, p.goal = true, *c.CapitalGrowthGoal
	}
	if c.TradeCount != nil {
		p.hasTradeLimit, p.tradeLimit = true, *c.TradeCount
	}
	if c.MaxIterations != nil {
		p.hasCeiling, p.ceiling = true, *c.MaxIterations
	}
	return p
}

// check returns the terminal outcome for the current state, if any.
// Precedence is drawdown, then goal, then trade count, then the ceiling.
func (p terminationPolicy) check(s *sessionState) (Outcome, bool) {
	switch {
	case p.hasDrawdown && s.capital < s.minAllowed:
		return DrawdownBreached, true
	case p.hasGoal && s.capital >= p.goal:
		return TargetAchieved, true
	case p.hasTradeLimit && s.trades == p.tradeLimit:
		return TradesExhausted, true
	case p.hasCeiling && s.trades == p.ceiling:
		return TradesExhausted, true
	}
	return 0, false
}

// raiseStop moves the trailing stop up after a new capital high.
func (p terminationPolicy) raiseStop(s *sessionState) {
	if p.hasDrawdown {
		s.minAllowed = s.maxCapital - p.drawdown
	}
}
