package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds all configuration for the skillkit tools.
type Config struct {
	// AlphaVantageAPIKey authenticates market data requests. Only required
	// by the market command; the other tools never validate it.
	AlphaVantageAPIKey string `mapstructure:"alphavantage_api_key"`

	// Base URLs for API endpoints (configurable for testing)
	AlphaVantageBaseURL string `mapstructure:"alphavantage_base_url"`
	TimedTextBaseURL    string `mapstructure:"timedtext_base_url"`

	// SkillDirs are the directories scanned for SKILL.md manifests.
	SkillDirs []string `mapstructure:"skill_dirs"`
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values.
//
// Expected environment variables:
//   - ALPHAVANTAGE_API_KEY (required for market commands)
//   - ALPHAVANTAGE_BASE_URL (optional, defaults to production)
//   - TIMEDTEXT_BASE_URL (optional, defaults to production)
func Load() (*Config, error) {
	v := viper.New()

	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("alphavantage_base_url", "https://www.alphavantage.co/query")
	v.SetDefault("timedtext_base_url", "https://timedtext.googleapis.com/v1")
	v.SetDefault("skill_dirs", defaultSkillDirs())

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(Dir())

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	// Bind environment variables
	v.BindEnv("alphavantage_api_key", "ALPHAVANTAGE_API_KEY")
	v.BindEnv("alphavantage_base_url", "ALPHAVANTAGE_BASE_URL")
	v.BindEnv("timedtext_base_url", "TIMEDTEXT_BASE_URL")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return config, nil
}

// RequireMarketKey validates that the market data API key is present. It is
// checked lazily so subtitle and document tools run without any credentials.
func (c *Config) RequireMarketKey() error {
	if c.AlphaVantageAPIKey == "" {
		return errors.New("missing required configuration: ALPHAVANTAGE_API_KEY")
	}
	return nil
}

// Dir returns the per-user configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skillkit"
	}
	return filepath.Join(home, ".skillkit")
}

func defaultSkillDirs() []string {
	return []string{
		"./skills",                     // repo-local skills (highest precedence)
		filepath.Join(Dir(), "skills"), // user-global skills
	}
}
