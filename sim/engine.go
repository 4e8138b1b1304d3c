package sim

// sessionState is the mutable state of a single session. It never escapes
// the goroutine running that session.
type sessionState struct {
	capital    float64
	maxCapital float64
	minAllowed float64
	trades     int
}

// SimulateSession runs one session trade by trade until the config's
// termination policy fires. When detailed is true every trade is recorded
// on the result.
func SimulateSession(cfg SimulationConfig, rng Source, detailed bool) (SessionResult, error) {
	if err := cfg.Validate(); err != nil {
		return SessionResult{}, err
	}
	if rng == nil {
		return SessionResult{}, configErr("source", "must not be nil")
	}
	return simulate(cfg, newTerminationPolicy(cfg), rng, detailed), nil
}

// simulate assumes cfg has been validated.
func simulate(cfg SimulationConfig, policy terminationPolicy, rng Source, detailed bool) SessionResult {
	s := sessionState{
		capital:    cfg.StartingCapital,
		maxCapital: cfg.StartingCapital,
	}
	if policy.hasDrawdown {
		s.minAllowed = cfg.StartingCapital - policy.drawdown
	}

	var records []TradeRecord
	for {
		if outcome, done := policy.check(&s); done {
			res := SessionResult{
				Outcome:      outcome,
				TradeCount:   s.trades,
				FinalCapital: s.capital,
				MaxCapital:   s.maxCapital,
				trades:       records,
				detailed:     detailed,
			}
			if policy.hasDrawdown {
				res.MinAllowedBalance = Float(s.minAllowed)
			}
			return res
		}

		win := drawWin(rng, cfg.WinProbability)
		pnl := tradeResult(cfg, win)
		s.capital += pnl
		s.trades++

		if s.capital > s.maxCapital {
			s.maxCapital = s.capital
			policy.raiseStop(&s)
		}

		if detailed {
			rec := TradeRecord{
				Index:        s.trades,
				Win:          win,
				PnL:          pnl,
				CapitalAfter: s.capital,
				MaxCapital:   s.maxCapital,
			}
			if policy.hasDrawdown {
				rec.MinAllowedBalance = Float(s.minAllowed)
			}
			records = append(records, rec)
		}
	}
}
