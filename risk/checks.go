package risk

import (
	"fmt"

	"github.com/rustyeddy/tradesim/sim"
)

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

type Decision struct {
	Allowed    bool        `json:"allowed"`
	Violations []Violation `json:"violations,omitempty"`

	RiskPct          float64 `json:"risk_pct"`
	Expectancy       float64 `json:"expectancy"`
	BreakEvenWinRate float64 `json:"break_even_win_rate"`
	LossesToBreach   int     `json:"losses_to_breach"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Evaluate checks a simulation config against p. The config is assumed valid.
func Evaluate(p Policy, c sim.SimulationConfig) Decision {
	d := Decision{Allowed: true}

	d.RiskPct = RiskPct(c.AmountRisked, c.StartingCapital)
	d.Expectancy = Expectancy(c)
	d.BreakEvenWinRate = BreakEvenWinRate(c)
	d.LossesToBreach = LossesToBreach(c)

	if p.MaxRiskPct > 0 && d.RiskPct > p.MaxRiskPct {
		d.add("RISK_TOO_HIGH",
			fmt.Sprintf("risk per trade %.2f%% exceeds max %.2f%%", 100*d.RiskPct, 100*p.MaxRiskPct))
	}
	if c.RiskRewardRatio < p.MinRR {
		d.add("RR_TOO_LOW",
			fmt.Sprintf("RR %.2f below minimum %.2f", c.RiskRewardRatio, p.MinRR))
	}
	if d.Expectancy <= 0 {
		d.add("NEGATIVE_EXPECTANCY",
			fmt.Sprintf("expectancy %.2f per trade; break-even win rate is %.1f%%", d.Expectancy, 100*d.BreakEvenWinRate))
	}
	if c.MaxDrawdown != nil && d.LossesToBreach < p.MinLossesToBreach {
		d.add("DRAWDOWN_TOO_TIGHT",
			fmt.Sprintf("trailing stop breaches after %d losses, minimum %d", d.LossesToBreach, p.MinLossesToBreach))
	}
	if c.CapitalGrowthGoal != nil && *c.CapitalGrowthGoal <= c.StartingCapital {
		d.add("GOAL_ALREADY_MET",
			fmt.Sprintf("growth goal %.2f is not above starting capital %.2f", *c.CapitalGrowthGoal, c.StartingCapital))
	}

	return d
}
