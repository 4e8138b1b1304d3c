package sim

import (
	"fmt"
	"iter"
)

// Outcome is the terminal state of a session.
type Outcome int

const (
	TargetAchieved Outcome = iota + 1
	DrawdownBreached
	TradesExhausted
)

var outcomeNames = map[Outcome]string{
	TargetAchieved:   "target_achieved",
	DrawdownBreached: "drawdown_breached",
	TradesExhausted:  "trades_exhausted",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Label is the human readable form used in reports.
func (o Outcome) Label() string {
	switch o {
	case TargetAchieved:
		return "Target Achieved"
	case DrawdownBreached:
		return "Max Drawdown Hit"
	case TradesExhausted:
		return "Trades Exhausted"
	}
	return o.String()
}

func (o Outcome) MarshalText() ([]byte, error) {
	if _, ok := outcomeNames[o]; !ok {
		return nil, fmt.Errorf("unknown outcome %d", int(o))
	}
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	out, err := ParseOutcome(string(b))
	if err != nil {
		return err
	}
	*o = out
	return nil
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, error) {
	for o, name := range outcomeNames {
		if name == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

// TradeRecord is one executed trade of a detailed session.
type TradeRecord struct {
	Index        int     `json:"index"`
	Win          bool    `json:"win"`
	PnL          float64 `json:"pnl"`
	CapitalAfter float64 `json:"capital_after"`
	MaxCapital   float64 `json:"max_capital"`

	// MinAllowedBalance is nil when the session has no drawdown stop.
	MinAllowedBalance *float64 `json:"min_allowed_balance,omitempty"`
}

// DisplayCapital floors the running capital at zero. It is for rendering
// only; the session keeps trading on the unfloored value.
func (t TradeRecord) DisplayCapital() float64 {
	if t.CapitalAfter < 0 {
		return 0
	}
	return t.CapitalAfter
}

func (t TradeRecord) Result() string {
	if t.Win {
		return "Win"
	}
	return "Loss"
}

// SessionResult is the outcome of one full session.
type SessionResult struct {
	Outcome      Outcome `json:"outcome"`
	TradeCount   int     `json:"trade_count"`
	FinalCapital float64 `json:"final_capital"`
	MaxCapital   float64 `json:"max_capital"`

	// MinAllowedBalance is the trailing stop at termination, nil without a drawdown stop.
	MinAllowedBalance *float64 `json:"min_allowed_balance,omitempty"`

	trades   []TradeRecord
	detailed bool
}

// Detailed reports whether the session recorded its trades.
func (r SessionResult) Detailed() bool { return r.detailed }

// Trades yields the recorded trades in order. The sequence can be ranged over
// any number of times; it is empty unless the session ran in detailed mode.
func (r SessionResult) Trades() iter.Seq[TradeRecord] {
	return func(yield func(TradeRecord) bool) {
		for _, t := range r.trades {
			if !yield(t) {
				return
			}
		}
	}
}

// Records returns a copy of the recorded trades.
func (r SessionResult) Records() []TradeRecord {
	out := make([]TradeRecord, len(r.trades))
	copy(out, r.trades)
	return out
}
