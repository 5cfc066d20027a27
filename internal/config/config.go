package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/barbaramelovalor031/expenses-valor/internal/fx"
	"github.com/barbaramelovalor031/expenses-valor/internal/names"
)

// Config represents the expenses.yaml configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	FX      FXConfig      `yaml:"fx"`
	Extract ExtractConfig `yaml:"extract"`
	Names   NamesConfig   `yaml:"names"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	BodyLimitMB int    `yaml:"body_limit_mb"`
}

// FXConfig points at the PTAX rate service.
type FXConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
}

// ExtractConfig holds extraction policy.
type ExtractConfig struct {
	DropNullAmounts bool `yaml:"drop_null_amounts"`
}

// NamesConfig replaces or extends the built-in cardholder table. When
// Canonical is empty the built-in list is used; Aliases are added on top.
type NamesConfig struct {
	Canonical []string          `yaml:"canonical,omitempty"`
	Aliases   map[string]string `yaml:"aliases,omitempty"`
}

// LogConfig sets the log level and output format ("console" or "json").
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config with the production defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			BodyLimitMB: 32,
		},
		FX: FXConfig{
			BaseURL:     fx.DefaultPTAXBaseURL,
			Timeout:     fx.DefaultTimeout,
			MaxAttempts: fx.DefaultMaxAttempts,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads an expenses.yaml file from disk on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from EXPENSES_ADDR, EXPENSES_PTAX_URL and
// EXPENSES_LOG_LEVEL when they are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("EXPENSES_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("EXPENSES_PTAX_URL"); v != "" {
		c.FX.BaseURL = v
	}
	if v := os.Getenv("EXPENSES_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// NameTable builds the cardholder table this config describes.
func (c *Config) NameTable() (*names.Table, error) {
	table := names.Default()
	if len(c.Names.Canonical) > 0 {
		table = names.NewTable(c.Names.Canonical, nil)
	}
	for alias, canonical := range c.Names.Aliases {
		next, err := table.WithAlias(alias, canonical)
		if err != nil {
			return nil, fmt.Errorf("names.aliases[%q]: %w", alias, err)
		}
		table = next
	}
	return table, nil
}

// RateProvider returns the PTAX client this config describes.
func (c *Config) RateProvider() *fx.PTAXClient {
	return fx.NewPTAXClient(c.FX.BaseURL, c.FX.Timeout)
}
