package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/tradesim/risk"
	"github.com/rustyeddy/tradesim/sim"
	"gopkg.in/yaml.v3"
)

// Config represents a complete simulation run file
type Config struct {
	Simulation sim.SimulationConfig `json:"simulation" yaml:"simulation"`
	Batch      BatchConfig          `json:"batch" yaml:"batch"`
	Sweep      SweepConfig          `json:"sweep" yaml:"sweep"`
	Journal    JournalConfig        `json:"journal" yaml:"journal"`
}

// BatchConfig controls how many sessions are run and how they are seeded
type BatchConfig struct {
	Sessions int    `json:"sessions" yaml:"sessions"`
	Seed     uint64 `json:"seed" yaml:"seed"`
	Workers  int    `json:"workers,omitempty" yaml:"workers,omitempty"` // 0 = GOMAXPROCS
}

// SweepConfig describes the amount_risked candidates of a risk sweep:
// Steps values from MinRisk up to MaxRiskFraction of starting capital.
type SweepConfig struct {
	MinRisk         float64 `json:"min_risk" yaml:"min_risk"`
	MaxRiskFraction float64 `json:"max_risk_fraction" yaml:"max_risk_fraction"`
	Steps           int     `json:"steps" yaml:"steps"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile  string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	SummaryFile string `json:"summary_file,omitempty" yaml:"summary_file,omitempty"`
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Parse decodes a config document without validating it.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err := yaml.Unmarshal(data, cfg)
	if err != nil {
		*cfg = Config{}
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	if c.Batch.Sessions <= 0 {
		return fmt.Errorf("batch.sessions must be positive")
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must not be negative")
	}
	if c.Sweep != (SweepConfig{}) {
		if _, err := c.RiskCandidates(); err != nil {
			return fmt.Errorf("sweep: %w", err)
		}
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.SummaryFile == "" {
			return fmt.Errorf("journal trades_file and summary_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// RiskCandidates expands the sweep section into amount_risked values.
func (c *Config) RiskCandidates() ([]float64, error) {
	return risk.CapitalFractionRange(c.Sweep.MinRisk, c.Simulation.StartingCapital, c.Sweep.MaxRiskFraction, c.Sweep.Steps)
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Simulation: sim.SimulationConfig{
			StartingCapital:   5000,
			WinProbability:    0.5,
			AmountRisked:      100,
			RiskRewardRatio:   2,
			Commission:        5,
			MaxDrawdown:       sim.Float(2500),
			CapitalGrowthGoal: sim.Float(8000),
		},
		Batch: BatchConfig{
			Sessions: 1000,
			Seed:     1,
		},
		Sweep: SweepConfig{
			MinRisk:         10,
			MaxRiskFraction: 0.1,
			Steps:           50,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./tradesim.sqlite",
		},
	}
}
