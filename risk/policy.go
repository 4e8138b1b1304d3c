package risk

// Policy holds the advisory limits a config is checked against before a run.
// Violations never stop a simulation; they are printed as warnings.
type Policy struct {
	// Risk limits
	MaxRiskPct float64 // 0.02

	// Trade constraints
	MinRR float64 // 1.0

	// Trailing stop should survive at least this many straight losses.
	MinLossesToBreach int // 3
}

// DefaultPolicy mirrors common retail futures guidance.
func DefaultPolicy() Policy {
	return Policy{
		MaxRiskPct:        0.02,
		MinRR:             1.0,
		MinLossesToBreach: 3,
	}
}
