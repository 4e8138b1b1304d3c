package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/tradesim/sim"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer; the API shares one journal across requests.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r Run) error {
	cfg, err := json.Marshal(r.Config)
	if err != nil {
		return fmt.Errorf("encode run config: %w", err)
	}
	_, err = j.db.Exec(`
		INSERT INTO runs
		(run_id, created, mode, seed, sessions, config, outcome, trade_count, final_capital, optimal_risk, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created.UTC(), r.Mode, int64(r.Seed), r.Sessions, string(cfg),
		r.Outcome, r.TradeCount, r.FinalCapital, r.OptimalRisk, strings.Join(r.Notes, "\n"),
	)
	return err
}

func (j *SQLite) RecordTrade(runID string, t sim.TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, idx, win, pnl, capital_after, max_capital, min_allowed_balance)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, t.Index, t.Win, t.PnL, t.CapitalAfter, t.MaxCapital, t.MinAllowedBalance,
	)
	return err
}

func (j *SQLite) RecordSummary(s SummaryRecord) error {
	b := s.Summary
	_, err := j.db.Exec(`
		INSERT INTO summaries
		(run_id, risk_amount, sessions_run, target_hits, drawdown_hits, exhausted_hits,
		 win_rate, loss_rate, exhausted_rate, avg_trades_to_target, avg_trades_to_drawdown, avg_final_capital)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, s.RiskAmount, b.SessionsRun, b.TargetHits, b.DrawdownHits, b.ExhaustedHits,
		b.WinRate, b.LossRate, b.ExhaustedRate, b.AvgTradesToTarget, b.AvgTradesToDrawdown, b.AvgFinalCapital,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
