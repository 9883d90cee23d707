package config

import (
	"testing"
)

func TestLoad_WithDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.AlphaVantageBaseURL != "https://www.alphavantage.co/query" {
		t.Errorf("AlphaVantageBaseURL = %q, want production default", cfg.AlphaVantageBaseURL)
	}
	if cfg.TimedTextBaseURL == "" {
		t.Error("TimedTextBaseURL default is empty")
	}
	if len(cfg.SkillDirs) == 0 {
		t.Error("SkillDirs default is empty")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	envVars := map[string]string{
		"ALPHAVANTAGE_API_KEY":  "test_key",
		"ALPHAVANTAGE_BASE_URL": "https://test.alphavantage.co",
		"TIMEDTEXT_BASE_URL":    "https://test.timedtext.example",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"AlphaVantageAPIKey", cfg.AlphaVantageAPIKey, "test_key"},
		{"AlphaVantageBaseURL", cfg.AlphaVantageBaseURL, "https://test.alphavantage.co"},
		{"TimedTextBaseURL", cfg.TimedTextBaseURL, "https://test.timedtext.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestRequireMarketKey(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireMarketKey(); err == nil {
		t.Error("RequireMarketKey() expected error for empty key, got nil")
	}

	cfg.AlphaVantageAPIKey = "present"
	if err := cfg.RequireMarketKey(); err != nil {
		t.Errorf("RequireMarketKey() returned unexpected error: %v", err)
	}
}
