// Package config loads and validates the bot configuration from YAML or
// JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Vitaliy-Finiuk/sol-signal-bot/risk"
)

// Config is the complete bot configuration.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Risk    RiskConfig    `json:"risk" yaml:"risk"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Runs    []RunConfig   `json:"runs" yaml:"runs"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	Balance float64 `json:"balance" yaml:"balance"`
}

// RiskConfig contains sizing and filtering parameters shared by all runs.
type RiskConfig struct {
	PerTrade       float64 `json:"per_trade" yaml:"per_trade"`
	MaxLeverage    float64 `json:"max_leverage" yaml:"max_leverage"`
	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate"`
	MinRiskReward  float64 `json:"min_risk_reward" yaml:"min_risk_reward"`
	SizingPolicy   string  `json:"sizing_policy" yaml:"sizing_policy"` // "implied-leverage" or "max-leverage"
}

// Policy resolves the configured sizing policy.
func (r RiskConfig) Policy() (risk.Policy, error) {
	return risk.ParsePolicy(r.SizingPolicy)
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	RunsFile   string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// RunConfig describes one backtest run: dataset plus market identity.
// Strategy is optional; empty means pick by timeframe.
type RunConfig struct {
	Symbol    string `json:"symbol" yaml:"symbol"`
	Timeframe string `json:"timeframe" yaml:"timeframe"`
	Dataset   string `json:"dataset" yaml:"dataset"`
	Strategy  string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	From      string `json:"from,omitempty" yaml:"from,omitempty"` // RFC3339
	To        string `json:"to,omitempty" yaml:"to,omitempty"`     // RFC3339
}

// Range parses the optional From/To bounds.
func (r RunConfig) Range() (from, to time.Time, err error) {
	if r.From != "" {
		from, err = time.Parse(time.RFC3339, r.From)
		if err != nil {
			return from, to, fmt.Errorf("run %s/%s: bad from: %w", r.Symbol, r.Timeframe, err)
		}
	}
	if r.To != "" {
		to, err = time.Parse(time.RFC3339, r.To)
		if err != nil {
			return from, to, fmt.Errorf("run %s/%s: bad to: %w", r.Symbol, r.Timeframe, err)
		}
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return from, to, fmt.Errorf("run %s/%s: from must precede to", r.Symbol, r.Timeframe)
	}
	return from, to, nil
}

// LoadFromFile loads configuration, trying YAML first and JSON second.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, format chosen by extension.
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

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Risk.PerTrade <= 0 || c.Risk.PerTrade > 1 {
		return fmt.Errorf("risk.per_trade must be between 0 and 1")
	}
	if c.Risk.MaxLeverage < 1 {
		return fmt.Errorf("risk.max_leverage must be at least 1")
	}
	if c.Risk.CommissionRate < 0 {
		return fmt.Errorf("risk.commission_rate must not be negative")
	}
	if c.Risk.MinRiskReward <= 0 {
		return fmt.Errorf("risk.min_risk_reward must be positive")
	}
	if _, err := c.Risk.Policy(); err != nil {
		return fmt.Errorf("risk.sizing_policy: %w", err)
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.RunsFile == "" {
			return fmt.Errorf("journal trades_file and runs_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if len(c.Runs) == 0 {
		return fmt.Errorf("at least one run is required")
	}
	for i, r := range c.Runs {
		if r.Symbol == "" {
			return fmt.Errorf("runs[%d].symbol is required", i)
		}
		if r.Timeframe == "" {
			return fmt.Errorf("runs[%d].timeframe is required", i)
		}
		if r.Dataset == "" {
			return fmt.Errorf("runs[%d].dataset is required", i)
		}
		if _, _, err := r.Range(); err != nil {
			return err
		}
	}
	return nil
}

// Default returns a configuration with the stock parameters: balance
// 100, 3% risk per trade, 7x leverage cap, 0.06% commission per leg,
// 2:1 minimum reward:risk, implied-leverage sizing.
func Default() *Config {
	return &Config{
		Account: AccountConfig{Balance: 100},
		Risk: RiskConfig{
			PerTrade:       0.03,
			MaxLeverage:    7,
			CommissionRate: 0.0006,
			MinRiskReward:  2.0,
			SizingPolicy:   "implied-leverage",
		},
		Journal: JournalConfig{Type: "none"},
		Runs: []RunConfig{
			{Symbol: "SOLUSDT", Timeframe: "4h", Dataset: "data/sol_4h.csv"},
		},
	}
}
