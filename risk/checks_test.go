package risk

import (
	"testing"

	"github.com/rustyeddy/tradesim/sim"
	"github.com/stretchr/testify/assert"
)

func codes(d Decision) []string {
	var out []string
	for _, v := range d.Violations {
		out = append(out, v.Code)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *sim.SimulationConfig)
		want   []string
	}{
		{
			name: "sane config",
			mutate: func(c *sim.SimulationConfig) {
				c.StartingCapital = 10000
				c.MaxDrawdown = sim.Float(2500)
				c.CapitalGrowthGoal = sim.Float(20000)
			},
		},
		{
			name:   "risk too high and tight stop",
			mutate: func(c *sim.SimulationConfig) { c.MaxDrawdown = sim.Float(150) },
			want:   []string{"RISK_TOO_HIGH", "DRAWDOWN_TOO_TIGHT"},
		},
		{
			name: "losing edge",
			mutate: func(c *sim.SimulationConfig) {
				c.StartingCapital = 10000
				c.MaxDrawdown = sim.Float(2500)
				c.CapitalGrowthGoal = sim.Float(20000)
				c.RiskRewardRatio = 0.5
				c.WinProbability = 0.4
			},
			want: []string{"RR_TOO_LOW", "NEGATIVE_EXPECTANCY"},
		},
		{
			name: "goal already met",
			mutate: func(c *sim.SimulationConfig) {
				c.StartingCapital = 10000
				c.MaxDrawdown = nil
				c.CapitalGrowthGoal = sim.Float(9000)
				c.MaxIterations = sim.Int(10)
			},
			want: []string{"GOAL_ALREADY_MET"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := baseConfig()
			tt.mutate(&c)
			d := Evaluate(DefaultPolicy(), c)
			assert.Equal(t, tt.want, codes(d))
			assert.Equal(t, len(tt.want) == 0, d.Allowed)
		})
	}
}
