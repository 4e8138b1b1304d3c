package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/sim"
)

func newTestServer(t *testing.T) (*Server, *journal.SQLite) {
	t.Helper()

	j, err := journal.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return NewServer(":0", j, zap.NewNop()), j
}

func testConfig(p float64) sim.SimulationConfig {
	return sim.SimulationConfig{
		StartingCapital:   1000,
		WinProbability:    p,
		AmountRisked:      100,
		RiskRewardRatio:   2,
		MaxDrawdown:       sim.Float(250),
		CapitalGrowthGoal: sim.Float(1200),
	}
}

func do(t *testing.T, s *Server, ctx context.Context, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequestWithContext(ctx, method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, context.Background(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSessionDetailed(t *testing.T) {
	s, j := newTestServer(t)

	w := do(t, s, context.Background(), http.MethodPost, "/api/session",
		SessionRequest{Config: testConfig(0), Seed: 7, Detailed: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[SessionResponse](t, w)
	assert.Equal(t, sim.DrawdownBreached, resp.Result.Outcome)
	assert.Equal(t, 3, resp.Result.TradeCount)
	assert.Equal(t, 700.0, resp.Result.FinalCapital)
	assert.Len(t, resp.Trades, 3)
	assert.False(t, resp.Risk.Allowed)

	run, err := j.GetRun(resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, journal.ModeSession, run.Mode)
	assert.Equal(t, "drawdown_breached", run.Outcome)

	trades, err := j.ListTrades(resp.RunID)
	require.NoError(t, err)
	assert.Len(t, trades, 3)
}

func TestSessionBadRequests(t *testing.T) {
	s, _ := newTestServer(t)

	bad := testConfig(1.5)
	w := do(t, s, context.Background(), http.MethodPost, "/api/session", SessionRequest{Config: bad})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "win_probability", body["field"])

	req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatch(t *testing.T) {
	s, j := newTestServer(t)

	w := do(t, s, context.Background(), http.MethodPost, "/api/batch",
		BatchRequest{Config: testConfig(1), Sessions: 10, Seed: 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[BatchResponse](t, w)
	assert.Equal(t, 10, resp.Summary.SessionsRun)
	assert.Equal(t, 10, resp.Summary.TargetHits)
	assert.Equal(t, 100.0, resp.Summary.WinRate)
	assert.Equal(t, 1.0, resp.Summary.AvgTradesToTarget)

	sums, err := j.ListSummaries(resp.RunID)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, 10, sums[0].Summary.TargetHits)
}

func TestBatchLimits(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, context.Background(), http.MethodPost, "/api/batch",
		BatchRequest{Config: testConfig(0.5), Sessions: MaxSessions + 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, context.Background(), http.MethodPost, "/api/batch",
		BatchRequest{Config: testConfig(0.5), Sessions: 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "session_count", body["field"])
}

func TestBatchCancelled(t *testing.T) {
	s, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := do(t, s, ctx, http.MethodPost, "/api/batch",
		BatchRequest{Config: testConfig(0.5), Sessions: 100})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSweep(t *testing.T) {
	s, j := newTestServer(t)

	// with every trade a win, 100 reaches the goal in one trade and 50 in two
	w := do(t, s, context.Background(), http.MethodPost, "/api/sweep",
		SweepRequest{Config: testConfig(1), Sessions: 5, Risks: []float64{50, 100}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[SweepResponse](t, w)
	assert.Equal(t, 100.0, resp.Report.OptimalRisk)
	require.Len(t, resp.Report.Points, 2)
	assert.Equal(t, 2.0, resp.Report.Points[0].Summary.AvgTradesToTarget)

	run, err := j.GetRun(resp.RunID)
	require.NoError(t, err)
	require.NotNil(t, run.OptimalRisk)
	assert.Equal(t, 100.0, *run.OptimalRisk)
}

func TestSweepRange(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, context.Background(), http.MethodPost, "/api/sweep",
		SweepRequest{Config: testConfig(1), Sessions: 2, MinRisk: 20, MaxRiskFraction: 0.1, Steps: 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[SweepResponse](t, w)
	assert.Len(t, resp.Report.Points, 5)
	assert.Equal(t, 100.0, resp.Report.OptimalRisk)

	w = do(t, s, context.Background(), http.MethodPost, "/api/sweep",
		SweepRequest{Config: testConfig(1), Sessions: 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSweepInfeasible(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, context.Background(), http.MethodPost, "/api/sweep",
		SweepRequest{Config: testConfig(0), Sessions: 5, Risks: []float64{50, 100}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	body := decode[struct {
		Error  string            `json:"error"`
		Points []sim.SweepResult `json:"points"`
	}](t, w)
	assert.Contains(t, body.Error, "no feasible risk amount")
	assert.Len(t, body.Points, 2)
}

func TestSweepLimits(t *testing.T) {
	s, _ := newTestServer(t)

	tooMany := make([]float64, MaxCandidates+1)
	for i := range tooMany {
		tooMany[i] = float64(i + 1)
	}

	tests := []struct {
		name string
		req  SweepRequest
		msg  string
	}{
		{
			name: "huge step count",
			req:  SweepRequest{Config: testConfig(1), Sessions: 1, MinRisk: 10, MaxRiskFraction: 0.1, Steps: 2_000_000_000},
			msg:  "too many risk candidates",
		},
		{
			name: "too many explicit risks",
			req:  SweepRequest{Config: testConfig(1), Sessions: 1, Risks: tooMany},
			msg:  "too many risk candidates",
		},
		{
			name: "candidates times sessions",
			req:  SweepRequest{Config: testConfig(1), Sessions: MaxSessions, MinRisk: 10, MaxRiskFraction: 0.1, Steps: 11},
			msg:  "sweep too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, context.Background(), http.MethodPost, "/api/sweep", tt.req)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body := decode[map[string]any](t, w)
			assert.Equal(t, tt.msg, body["error"])
		})
	}
}
