// Package config provides configuration management for the scanner service.
package config

import (
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/openquant/bwb-scanner/internal/strategy"
)

// Chain source kinds.
const (
	SourceFile      = "file"
	SourceSynthetic = "synthetic"
	SourceHTTP      = "http"
)

// Config represents the complete application configuration.
type Config struct {
	Environment EnvironmentConfig `yaml:"environment"`
	Server      ServerConfig      `yaml:"server"`
	Chain       ChainConfig       `yaml:"chain"`
	Scanner     ScannerConfig     `yaml:"scanner"`
	Cache       CacheConfig       `yaml:"cache"`
}

// EnvironmentConfig defines runtime environment settings.
type EnvironmentConfig struct {
	LogLevel string `yaml:"log_level"` // debug | info | warn | error
}

// ServerConfig defines the HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
	// CORSOrigins lists allowed origins; ["*"] allows all without credentials.
	CORSOrigins []string `yaml:"cors_origins"`
}

// ChainConfig defines where the options chain comes from.
type ChainConfig struct {
	Source string `yaml:"source"` // file | synthetic | http
	Path   string `yaml:"path"`   // file source
	URL    string `yaml:"url"`    // http source

	// Synthetic source parameters.
	Ticker  string  `yaml:"ticker"`
	Spot    float64 `yaml:"spot"`
	Seed    int64   `yaml:"seed"`
	DTEs    []int   `yaml:"dtes"`
	Strikes int     `yaml:"strikes"`
}

// ScannerConfig defines the eligibility thresholds for BWB candidates.
type ScannerConfig struct {
	MinDTE    int     `yaml:"min_dte"`
	MaxDTE    int     `yaml:"max_dte"`
	MinDelta  float64 `yaml:"min_delta"`
	MaxDelta  float64 `yaml:"max_delta"`
	MinCredit float64 `yaml:"min_credit"`
}

// CacheConfig defines the result memoization settings.
type CacheConfig struct {
	Enabled  bool `yaml:"enabled"`
	Capacity int  `yaml:"capacity"`
}

// Default returns the configuration used when fields are absent from the
// file. Decoding over these defaults means an explicit zero in the file
// sticks, while an omitted field keeps its default.
func Default() *Config {
	return &Config{
		Environment: EnvironmentConfig{LogLevel: "info"},
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"*"},
		},
		Chain: ChainConfig{
			Source:  SourceSynthetic,
			Ticker:  "SPY",
			Spot:    450.0,
			Seed:    42,
			DTEs:    []int{3, 5, 7, 10},
			Strikes: 30,
		},
		Scanner: ScannerConfig{
			MinDTE:    strategy.DefaultMinDTE,
			MaxDTE:    strategy.DefaultMaxDTE,
			MinDelta:  strategy.DefaultMinDelta,
			MaxDelta:  strategy.DefaultMaxDelta,
			MinCredit: strategy.DefaultMinCredit,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 32,
		},
	}
}

// Load reads and parses the configuration file from the specified path.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- configPath is a user-provided config file path
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	config := Default()
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Validate checks that all configuration values are valid and consistent.
func (c *Config) Validate() error {
	switch c.Environment.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("environment.log_level must be debug|info|warn|error")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0,65535]")
	}

	switch c.Chain.Source {
	case SourceFile:
		if c.Chain.Path == "" {
			return fmt.Errorf("chain.path is required for file source")
		}
	case SourceHTTP:
		if c.Chain.URL == "" {
			return fmt.Errorf("chain.url is required for http source")
		}
	case SourceSynthetic:
		if c.Chain.Ticker == "" {
			return fmt.Errorf("chain.ticker is required for synthetic source")
		}
		if c.Chain.Spot <= 0 {
			return fmt.Errorf("chain.spot must be > 0")
		}
		if len(c.Chain.DTEs) == 0 {
			return fmt.Errorf("chain.dtes must not be empty")
		}
		for _, dte := range c.Chain.DTEs {
			if dte < 0 {
				return fmt.Errorf("chain.dtes entries must be >= 0")
			}
		}
		if c.Chain.Strikes < 3 {
			return fmt.Errorf("chain.strikes must be >= 3")
		}
	default:
		return fmt.Errorf("chain.source must be file|synthetic|http")
	}

	if c.Scanner.MinDTE < 0 {
		return fmt.Errorf("scanner.min_dte must be >= 0")
	}
	if c.Scanner.MinDTE > c.Scanner.MaxDTE {
		return fmt.Errorf("scanner.min_dte (%d) must be <= scanner.max_dte (%d)",
			c.Scanner.MinDTE, c.Scanner.MaxDTE)
	}
	if c.Scanner.MinDelta < 0 || c.Scanner.MaxDelta > 1 {
		return fmt.Errorf("scanner delta bounds must lie within [0,1]")
	}
	if c.Scanner.MinDelta > c.Scanner.MaxDelta {
		return fmt.Errorf("scanner.min_delta (%.4f) must be <= scanner.max_delta (%.4f)",
			c.Scanner.MinDelta, c.Scanner.MaxDelta)
	}

	if c.Cache.Enabled && c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache.capacity must be > 0 when cache is enabled")
	}

	return nil
}

// Policy converts the scanner section into the strategy policy value.
func (c *Config) Policy() strategy.Policy {
	return strategy.Policy{
		MinDTE:    c.Scanner.MinDTE,
		MaxDTE:    c.Scanner.MaxDTE,
		MinDelta:  c.Scanner.MinDelta,
		MaxDelta:  c.Scanner.MaxDelta,
		MinCredit: c.Scanner.MinCredit,
	}
}
