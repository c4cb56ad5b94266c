package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultUserAgent is a browser-like user agent string to avoid bot detection
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Wallet is a named destination address operators can receive payments on.
type Wallet struct {
	Label   string `yaml:"label"`
	Address string `yaml:"address"`
}

// Config holds all application settings. Secrets can be overridden through
// environment variables after the file is loaded.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		PriceOracle struct {
			BaseURL       string `yaml:"base_url"`
			APIKey        string `yaml:"api_key"`
			Asset         string `yaml:"asset"`
			MaxRetries    int    `yaml:"max_retries"`
			RetryDelaySec int    `yaml:"retry_delay_sec"`
		} `yaml:"price_oracle"`
		Ledger struct {
			BaseURL      string `yaml:"base_url"`
			APIKey       string `yaml:"api_key"`
			ExplorerBase string `yaml:"explorer_base"`
		} `yaml:"ledger"`
	} `yaml:"api"`

	Verification struct {
		SessionTTLSec    int `yaml:"session_ttl_sec"`
		SweepIntervalSec int `yaml:"sweep_interval_sec"`
	} `yaml:"verification"`

	Wallets []Wallet `yaml:"wallets"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if !hasPrefix(c.API.PriceOracle.BaseURL, "http://") && !hasPrefix(c.API.PriceOracle.BaseURL, "https://") {
		return fmt.Errorf("invalid price oracle base URL: %s", c.API.PriceOracle.BaseURL)
	}
	if !hasPrefix(c.API.Ledger.BaseURL, "http://") && !hasPrefix(c.API.Ledger.BaseURL, "https://") {
		return fmt.Errorf("invalid ledger base URL: %s", c.API.Ledger.BaseURL)
	}
	if c.API.PriceOracle.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if c.Verification.SessionTTLSec <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if len(c.Wallets) == 0 {
		return fmt.Errorf("at least one wallet address is required")
	}
	for _, w := range c.Wallets {
		if w.Address == "" {
			return fmt.Errorf("wallet %q has an empty address", w.Label)
		}
	}
	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv replaces secret values with environment variables when present.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("LTCPAY_ORACLE_KEY"); key != "" {
		cfg.API.PriceOracle.APIKey = key
	}
	if key := os.Getenv("LTCPAY_LEDGER_KEY"); key != "" {
		cfg.API.Ledger.APIKey = key
	}
}
