package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/supplymate/core/allocation"
	"github.com/kilianp07/supplymate/core/allocation/logging"
	"github.com/kilianp07/supplymate/core/metrics"
	"github.com/kilianp07/supplymate/infra/monitoring"
)

type Config struct {
	Allocation allocation.Config `json:"allocation"`
	Logging    logging.Config    `json:"logging"`
	Metrics    metrics.Config    `json:"metrics"`
	API        APIConfig         `json:"api"`
	Log        LogConfig         `json:"log"`
	Sentry     monitoring.Config `json:"sentry"`
}

// APIConfig configures the HTTP API served by the serve command.
type APIConfig struct {
	Address string `json:"address"`
	// Token protects the run log endpoint. Empty disables authentication.
	Token string `json:"token"`
}

// LogConfig sets the application log level.
type LogConfig struct {
	Level string `json:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{Allocation: allocation.DefaultConfig()}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults applies sane defaults to every section.
func (c *Config) SetDefaults() {
	c.Allocation.SetDefaults()
	c.Logging.SetDefaults()
	if c.API.Address == "" {
		c.API.Address = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Allocation.Validate(); err != nil {
		return fmt.Errorf("allocation: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Load reads the configuration file at path, applies K_ prefixed environment
// overrides (K_ALLOCATION__BASE_CAPACITY=30) and validates the result. An
// empty path loads the defaults and the environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	// Allocation defaults are applied up front since a zero base capacity is valid.
	cfg := Config{Allocation: allocation.DefaultConfig()}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
