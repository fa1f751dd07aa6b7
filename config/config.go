package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/bsbench/market"
)

// Config represents the complete benchmark configuration
type Config struct {
	Data    DataConfig    `json:"data" yaml:"data"`
	Market  MarketConfig  `json:"market" yaml:"market"`
	Bench   BenchConfig   `json:"bench" yaml:"bench"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// DataConfig controls synthetic contract generation
type DataConfig struct {
	market.Ranges `json:",inline" yaml:",inline"`

	Seed     uint64 `json:"seed" yaml:"seed"`
	Size     int    `json:"size" yaml:"size"`
	TestSize int    `json:"test_size" yaml:"test_size"`
}

// MarketConfig holds the parameters shared by every contract in a batch
type MarketConfig struct {
	Rate       float64 `json:"rate" yaml:"rate"`
	Volatility float64 `json:"volatility" yaml:"volatility"`
}

// BenchConfig controls the timing harness
type BenchConfig struct {
	Repeat  int `json:"repeat" yaml:"repeat"`
	Workers int `json:"workers" yaml:"workers"` // 1 = sequential, 0 = GOMAXPROCS
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	RunsFile   string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	QuotesFile string `json:"quotes_file,omitempty" yaml:"quotes_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LogConfig controls the optional rotating log file. Logs always go to
// stderr; File adds a copy on disk.
type LogConfig struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty"`
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `json:"compress" yaml:"compress"`
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Unset fields keep their defaults.
	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
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
	if err := c.Data.Ranges.Validate(); err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if c.Data.Size < 0 {
		return fmt.Errorf("data.size must not be negative")
	}
	if c.Data.TestSize < 0 {
		return fmt.Errorf("data.test_size must not be negative")
	}
	if math.IsNaN(c.Market.Rate) || math.IsInf(c.Market.Rate, 0) {
		return fmt.Errorf("market.rate must be finite")
	}
	if !(c.Market.Volatility > 0) || math.IsInf(c.Market.Volatility, 1) {
		return fmt.Errorf("market.volatility must be positive")
	}
	if c.Bench.Repeat <= 0 {
		return fmt.Errorf("bench.repeat must be positive")
	}
	if c.Bench.Workers < 0 {
		return fmt.Errorf("bench.workers must not be negative")
	}
	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.RunsFile == "" || c.Journal.QuotesFile == "" {
			return fmt.Errorf("journal runs_file and quotes_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation limits must not be negative")
	}
	return nil
}

// Default returns a configuration with the reference benchmark settings
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Ranges:   market.DefaultRanges(),
			Seed:     market.DefaultSeed,
			Size:     market.DefaultBatchSize,
			TestSize: market.TestBatchSize,
		},
		Market: MarketConfig{
			Rate:       0.1,
			Volatility: 0.2,
		},
		Bench: BenchConfig{
			Repeat:  10,
			Workers: 1,
		},
		Journal: JournalConfig{
			Type:       "sqlite",
			RunsFile:   "./bsbench-runs.csv",
			QuotesFile: "./bsbench-quotes.csv",
			DBPath:     "./bsbench.sqlite",
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}
