package sim

import "math"

// SimulationConfig holds the fixed parameters of one session. Optional limits
// are pointers: nil disables the corresponding stopping condition.
type SimulationConfig struct {
	StartingCapital float64 `json:"starting_capital" yaml:"starting_capital"`
	WinProbability  float64 `json:"win_probability" yaml:"win_probability"`
	AmountRisked    float64 `json:"amount_risked" yaml:"amount_risked"`
	RiskRewardRatio float64 `json:"risk_reward_ratio" yaml:"risk_reward_ratio"`
	Commission      float64 `json:"commission" yaml:"commission"`

	MaxDrawdown       *float64 `json:"max_drawdown,omitempty" yaml:"max_drawdown,omitempty"`
	CapitalGrowthGoal *float64 `json:"capital_growth_goal,omitempty" yaml:"capital_growth_goal,omitempty"`
	TradeCount        *int     `json:"trade_count,omitempty" yaml:"trade_count,omitempty"`

	// MaxIterations caps a session that would otherwise only stop on the goal.
	MaxIterations *int `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`
}

// Float and Int return pointers for the optional config fields.
func Float(v float64) *float64 { return &v }
func Int(v int) *int { return &v }

// WithRisk returns a copy of c risking amount per trade.
func (c SimulationConfig) WithRisk(amount float64) SimulationConfig {
	c.AmountRisked = amount
	return c
}

// WinPnL is the signed, commission-adjusted result of a winning trade.
func (c SimulationConfig) WinPnL() float64 {
	return c.AmountRisked*c.RiskRewardRatio - c.Commission
}

// LossPnL is the signed, commission-adjusted result of a losing trade.
func (c SimulationConfig) LossPnL() float64 {
	return -c.AmountRisked - c.Commission
}

// Validate checks the config invariants. Every failure is a *ConfigurationError.
func (c SimulationConfig) Validate() error {
	if !finite(c.StartingCapital) || c.StartingCapital <= 0 {
		return configErr("starting_capital", "must be positive, got %v", c.StartingCapital)
	}
	if math.IsNaN(c.WinProbability) || c.WinProbability < 0 || c.WinProbability > 1 {
		return configErr("win_probability", "must be in [0,1], got %v", c.WinProbability)
	}
	if !finite(c.AmountRisked) || c.AmountRisked <= 0 {
		return configErr("amount_risked", "must be positive, got %v", c.AmountRisked)
	}
	if !finite(c.RiskRewardRatio) || c.RiskRewardRatio <= 0 {
		return configErr("risk_reward_ratio", "must be positive, got %v", c.RiskRewardRatio)
	}
	if !finite(c.Commission) || c.Commission < 0 {
		return configErr("commission", "must not be negative, got %v", c.Commission)
	}
	if c.MaxDrawdown != nil && (!finite(*c.MaxDrawdown) || *c.MaxDrawdown <= 0) {
		return configErr("max_drawdown", "must be positive when set, got %v", *c.MaxDrawdown)
	}
	if c.CapitalGrowthGoal != nil && !finite(*c.CapitalGrowthGoal) {
		return configErr("capital_growth_goal", "must be finite, got %v", *c.CapitalGrowthGoal)
	}
	if c.TradeCount != nil && *c.TradeCount <= 0 {
		return configErr("trade_count", "must be positive when set, got %d", *c.TradeCount)
	}
	if c.MaxIterations != nil && *c.MaxIterations <= 0 {
		return configErr("max_iterations", "must be positive when set, got %d", *c.MaxIterations)
	}
	if c.CapitalGrowthGoal == nil && c.TradeCount == nil {
		return configErr("", "one of capital_growth_goal or trade_count is required")
	}

	// Goal-only sessions need something else that is guaranteed to end them.
	if c.CapitalGrowthGoal != nil && c.TradeCount == nil && c.MaxIterations == nil {
		if c.MaxDrawdown == nil {
			return configErr("max_iterations", "is required when neither max_drawdown nor trade_count is set")
		}
		if c.StartingCapital < *c.CapitalGrowthGoal && !c.movesCapital() {
			return configErr("max_iterations", "is required: trade results of %v and %v do not change capital so the session never ends",
				c.WinPnL(), c.LossPnL())
		}
	}
	return nil
}

// movesCapital reports whether the trades that can occur change capital at
// every magnitude between the drawdown floor and the goal. A result below
// one ULP of capital is absorbed by the addition.
func (c SimulationConfig) movesCapital() bool {
	x := math.Max(math.Abs(c.StartingCapital), math.Abs(*c.CapitalGrowthGoal))
	if c.MaxDrawdown != nil {
		x = math.Max(x, math.Abs(c.StartingCapital-*c.MaxDrawdown))
	}
	moves := func(pnl float64) bool { return x+pnl != x }

	switch c.WinProbability {
	case 0:
		return moves(c.LossPnL())
	case 1:
		return moves(c.WinPnL())
	}
	return moves(c.WinPnL()) || moves(c.LossPnL())
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
