package journal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/tradesim/sim"
)

// ErrRunNotFound is returned by GetRun for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `run_id, created, mode, seed, sessions, config, outcome, trade_count, final_capital, optimal_risk, notes`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r       Run
		seed    int64
		cfg     string
		optimal sql.NullFloat64
		notes   string
	)
	err := row.Scan(&r.RunID, &r.Created, &r.Mode, &seed, &r.Sessions, &cfg,
		&r.Outcome, &r.TradeCount, &r.FinalCapital, &optimal, &notes)
	if err != nil {
		return Run{}, err
	}
	r.Seed = uint64(seed)
	if optimal.Valid {
		r.OptimalRisk = sim.Float(optimal.Float64)
	}
	if notes != "" {
		r.Notes = strings.Split(notes, "\n")
	}
	if err := json.Unmarshal([]byte(cfg), &r.Config); err != nil {
		return Run{}, fmt.Errorf("decode run config: %w", err)
	}
	return r, nil
}

// GetRun returns a single run by ID.
func (j *SQLite) GetRun(runID string) (Run, error) {
	row := j.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	return r, err
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (j *SQLite) ListRuns(limit int) ([]Run, error) {
	q := `SELECT ` + runColumns + ` FROM runs ORDER BY created DESC, run_id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTrades returns the trades of a session run in order.
func (j *SQLite) ListTrades(runID string) ([]sim.TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT idx, win, pnl, capital_after, max_capital, min_allowed_balance
		FROM trades
		WHERE run_id = ?
		ORDER BY idx ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sim.TradeRecord
	for rows.Next() {
		var (
			rec  sim.TradeRecord
			stop sql.NullFloat64
		)
		if err := rows.Scan(&rec.Index, &rec.Win, &rec.PnL, &rec.CapitalAfter, &rec.MaxCapital, &stop); err != nil {
			return nil, err
		}
		if stop.Valid {
			rec.MinAllowedBalance = sim.Float(stop.Float64)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSummaries returns the summaries of a run ordered by risk amount.
// Distribution fields are not persisted and come back zero.
func (j *SQLite) ListSummaries(runID string) ([]SummaryRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, risk_amount, sessions_run, target_hits, drawdown_hits, exhausted_hits,
		       win_rate, loss_rate, exhausted_rate, avg_trades_to_target, avg_trades_to_drawdown, avg_final_capital
		FROM summaries
		WHERE run_id = ?
		ORDER BY risk_amount ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SummaryRecord
	for rows.Next() {
		var s SummaryRecord
		b := &s.Summary
		if err := rows.Scan(&s.RunID, &s.RiskAmount, &b.SessionsRun, &b.TargetHits, &b.DrawdownHits, &b.ExhaustedHits,
			&b.WinRate, &b.LossRate, &b.ExhaustedRate, &b.AvgTradesToTarget, &b.AvgTradesToDrawdown, &b.AvgFinalCapital,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
