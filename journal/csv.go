package journal

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rustyeddy/tradesim/sim"
)

// CSVJournal writes trades and summaries to two flat files. Run metadata is
// only carried as the run_id column.
type CSVJournal struct {
	trades  *csv.Writer
	summary *csv.Writer
	tf, sf  *os.File
}

var (
	tradeHeader   = []string{"run_id", "index", "result", "pnl", "capital_after", "max_capital", "min_allowed_balance"}
	summaryHeader = []string{"run_id", "risk_amount", "sessions_run", "target_hits", "drawdown_hits", "exhausted_hits",
		"win_rate", "loss_rate", "exhausted_rate", "avg_trades_to_target", "avg_trades_to_drawdown", "avg_final_capital"}
)

func NewCSV(tradesPath, summaryPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	sf, err := os.Create(summaryPath)
	if err != nil {
		_ = tf.Close()
		return nil, err
	}

	j := &CSVJournal{trades: csv.NewWriter(tf), summary: csv.NewWriter(sf), tf: tf, sf: sf}
	if err := j.write(j.trades, tradeHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	if err := j.write(j.summary, summaryHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) RecordRun(Run) error { return nil }

func (j *CSVJournal) RecordTrade(runID string, t sim.TradeRecord) error {
	stop := ""
	if t.MinAllowedBalance != nil {
		stop = f(*t.MinAllowedBalance)
	}
	return j.write(j.trades, []string{
		runID,
		strconv.Itoa(t.Index),
		t.Result(),
		f(t.PnL),
		f(t.CapitalAfter),
		f(t.MaxCapital),
		stop,
	})
}

func (j *CSVJournal) RecordSummary(s SummaryRecord) error {
	b := s.Summary
	return j.write(j.summary, []string{
		s.RunID,
		f(s.RiskAmount),
		strconv.Itoa(b.SessionsRun),
		strconv.Itoa(b.TargetHits),
		strconv.Itoa(b.DrawdownHits),
		strconv.Itoa(b.ExhaustedHits),
		f(b.WinRate),
		f(b.LossRate),
		f(b.ExhaustedRate),
		f(b.AvgTradesToTarget),
		f(b.AvgTradesToDrawdown),
		f(b.AvgFinalCapital),
	})
}

func (j *CSVJournal) write(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.summary.Flush()
	if err := j.summary.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.sf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
