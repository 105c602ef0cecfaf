// Package config loads holdem settings from HCL with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/lox/holdem-env/internal/game"
)

// EnvPrefix prefixes every environment override, e.g. HOLDEM_SEED
const EnvPrefix = "holdem"

// Config represents the complete configuration file
type Config struct {
	Settings *Settings    `hcl:"settings,block"`
	Tables   []TableConfig `hcl:"table,block"`
}

// Settings contains process-level configuration
type Settings struct {
	Address    string `hcl:"address,optional" envconfig:"address"`
	LogLevel   string `hcl:"log_level,optional" envconfig:"log_level"`
	LogFile    string `hcl:"log_file,optional" envconfig:"log_file"`
	Seed       int64  `hcl:"seed,optional" envconfig:"seed"`
	ThinkTime  string `hcl:"think_time,optional" envconfig:"think_time"`
	HistoryDir string `hcl:"history_dir,optional" envconfig:"history_dir"`
}

// TableConfig defines a table
type TableConfig struct {
	Name     string `hcl:"name,label"`
	Seats    int    `hcl:"seats,optional"`
	StackCap int    `hcl:"stack_cap,optional"`
	Blinds   string `hcl:"blinds,optional"`
}

const (
	defaultAddress   = "localhost:8080"
	defaultLogLevel  = "info"
	defaultThinkTime = "30s"
	defaultSeats     = 6
	defaultStackCap  = 20000
	defaultBlinds    = "50/100"
)

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	cfg := &Config{Tables: []TableConfig{{Name: "main"}}}
	cfg.applyDefaults()
	return cfg
}

// Load reads an HCL configuration file. A missing file yields DefaultConfig.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv loads envFile if it exists, then overrides settings from
// HOLDEM_* variables. Variables already set in the process win over the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, c.Settings); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return c.Validate()
}

func (c *Config) applyDefaults() {
	if c.Settings == nil {
		c.Settings = &Settings{}
	}
	if c.Settings.Address == "" {
		c.Settings.Address = defaultAddress
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaultLogLevel
	}
	if c.Settings.ThinkTime == "" {
		c.Settings.ThinkTime = defaultThinkTime
	}

	for i := range c.Tables {
		if c.Tables[i].Seats == 0 {
			c.Tables[i].Seats = defaultSeats
		}
		if c.Tables[i].StackCap == 0 {
			c.Tables[i].StackCap = defaultStackCap
		}
		if c.Tables[i].Blinds == "" {
			c.Tables[i].Blinds = defaultBlinds
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Settings.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Settings.LogLevel, err)
	}
	if d, err := time.ParseDuration(c.Settings.ThinkTime); err != nil || d <= 0 {
		return fmt.Errorf("invalid think time %q", c.Settings.ThinkTime)
	}
	if len(c.Tables) == 0 {
		return errors.New("at least one table is required")
	}

	names := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if names[t.Name] {
			return fmt.Errorf("duplicate table name: %s", t.Name)
		}
		names[t.Name] = true
		if _, err := t.GameConfig(); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
	}
	return nil
}

// Level returns the parsed log level, defaulting to info
func (s *Settings) Level() log.Level {
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ThinkTimeout returns how long a remote seat may take to act
func (s *Settings) ThinkTimeout() time.Duration {
	d, err := time.ParseDuration(s.ThinkTime)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Table looks up a table by name. An empty name selects the first table.
func (c *Config) Table(name string) (TableConfig, error) {
	if name == "" && len(c.Tables) > 0 {
		return c.Tables[0], nil
	}
	for _, t := range c.Tables {
		if t.Name == name {
			return t, nil
		}
	}
	return TableConfig{}, fmt.Errorf("table %q not found", name)
}

// GameConfig converts the table block into an engine configuration
func (t TableConfig) GameConfig() (game.Config, error) {
	blinds, err := game.ParseBlinds(t.Blinds)
	if err != nil {
		return game.Config{}, err
	}
	cfg := game.Config{Seats: t.Seats, StackCap: t.StackCap, Blinds: blinds}
	if err := cfg.Validate(); err != nil {
		return game.Config{}, err
	}
	return cfg, nil
}
