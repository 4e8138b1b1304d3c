package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/pkg/id"
	"github.com/rustyeddy/tradesim/risk"
	"github.com/rustyeddy/tradesim/sim"
)

// Request limits. A sweep runs Sessions sessions per candidate, so its total
// work is bounded separately from the per-batch session cap.
const (
	MaxSessions      = 1_000_000
	MaxCandidates    = 1_000
	MaxSweepSessions = 10_000_000
)

// SessionRequest runs one session.
type SessionRequest struct {
	Config   sim.SimulationConfig `json:"config"`
	Seed     uint64               `json:"seed"`
	Detailed bool                 `json:"detailed"`
}

// BatchRequest runs Sessions sessions of Config.
type BatchRequest struct {
	Config   sim.SimulationConfig `json:"config"`
	Sessions int                  `json:"sessions"`
	Seed     uint64               `json:"seed"`
}

// SweepRequest evaluates Risks, or when empty, Steps amounts from MinRisk
// up to MaxRiskFraction of starting capital.
type SweepRequest struct {
	Config          sim.SimulationConfig `json:"config"`
	Sessions        int                  `json:"sessions"`
	Seed            uint64               `json:"seed"`
	Risks           []float64            `json:"risks,omitempty"`
	MinRisk         float64              `json:"min_risk,omitempty"`
	MaxRiskFraction float64              `json:"max_risk_fraction,omitempty"`
	Steps           int                  `json:"steps,omitempty"`
}

type SessionResponse struct {
	RunID  string            `json:"run_id"`
	Result sim.SessionResult `json:"result"`
	Trades []sim.TradeRecord `json:"trades,omitempty"`
	Risk   risk.Decision     `json:"risk"`
}

type BatchResponse struct {
	RunID   string           `json:"run_id"`
	Summary sim.BatchSummary `json:"summary"`
	Risk    risk.Decision    `json:"risk"`
}

type SweepResponse struct {
	RunID  string          `json:"run_id"`
	Report sim.SweepReport `json:"report"`
}

// Handler serves the simulation endpoints.
type Handler struct {
	journal journal.Journal
	logger  *zap.Logger
	policy  risk.Policy
}

func NewHandler(j journal.Journal, logger *zap.Logger) *Handler {
	return &Handler{journal: j, logger: logger, policy: risk.DefaultPolicy()}
}

// Session simulates a single session.
func (h *Handler) Session(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := sim.SimulateSession(req.Config, sim.Seeded(req.Seed)(0), req.Detailed)
	if err != nil {
		h.fail(c, err)
		return
	}

	run := h.newRun(req.Config, req.Seed, 1)
	if err := journal.RecordSession(h.journal, run, res); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		RunID:  run.RunID,
		Result: res,
		Trades: res.Records(),
		Risk:   risk.Evaluate(h.policy, req.Config),
	})
}

// Batch runs a batch and returns its summary.
func (h *Handler) Batch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Sessions > MaxSessions {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many sessions", "max": MaxSessions})
		return
	}

	sum, err := sim.RunBatch(c.Request.Context(), req.Config, req.Sessions, sim.Seeded(req.Seed), sim.WithLogger(h.logger))
	if err != nil {
		h.fail(c, err)
		return
	}

	run := h.newRun(req.Config, req.Seed, req.Sessions)
	run.Mode = journal.ModeBatch
	if err := h.journal.RecordRun(run); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.journal.RecordSummary(journal.SummaryRecord{RunID: run.RunID, RiskAmount: req.Config.AmountRisked, Summary: sum}); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, BatchResponse{
		RunID:   run.RunID,
		Summary: sum,
		Risk:    risk.Evaluate(h.policy, req.Config),
	})
}

// Sweep searches for the risk amount that reaches the goal fastest.
func (h *Handler) Sweep(c *gin.Context) {
	var req SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Sessions > MaxSessions {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many sessions", "max": MaxSessions})
		return
	}

	candidates := len(req.Risks)
	if candidates == 0 {
		candidates = req.Steps
	}
	if candidates > MaxCandidates {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many risk candidates", "max": MaxCandidates})
		return
	}
	if candidates*req.Sessions > MaxSweepSessions {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sweep too large", "max_sessions": MaxSweepSessions})
		return
	}

	risks := req.Risks
	if len(risks) == 0 {
		var err error
		risks, err = risk.CapitalFractionRange(req.MinRisk, req.Config.StartingCapital, req.MaxRiskFraction, req.Steps)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	rep, err := sim.OptimizeRisk(c.Request.Context(), req.Config, risks, req.Sessions, sim.Seeded(req.Seed), sim.WithLogger(h.logger))
	if err != nil && !errors.Is(err, sim.ErrInfeasible) {
		h.fail(c, err)
		return
	}

	run := h.newRun(req.Config, req.Seed, req.Sessions)
	if jerr := journal.RecordSweep(h.journal, run, rep); jerr != nil {
		h.fail(c, jerr)
		return
	}

	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  err.Error(),
			"run_id": run.RunID,
			"points": rep.Points,
		})
		return
	}
	c.JSON(http.StatusOK, SweepResponse{RunID: run.RunID, Report: rep})
}

func (h *Handler) newRun(cfg sim.SimulationConfig, seed uint64, sessions int) journal.Run {
	now := time.Now()
	return journal.Run{
		RunID:    id.NewAt(now),
		Created:  now,
		Seed:     seed,
		Sessions: sessions,
		Config:   cfg,
	}
}

// fail maps engine errors onto status codes.
func (h *Handler) fail(c *gin.Context, err error) {
	var cfgErr *sim.ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": cfgErr.Field})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
