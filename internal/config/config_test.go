package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8082" {
		t.Errorf("Port = %s, want 8082", cfg.Port)
	}
	if cfg.BaseCurrencyCode != "PLN" {
		t.Errorf("BaseCurrencyCode = %s, want PLN", cfg.BaseCurrencyCode)
	}
	if cfg.DashboardWindow != 30 {
		t.Errorf("DashboardWindow = %d, want 30", cfg.DashboardWindow)
	}
	if cfg.RatesInterval != 12*time.Hour {
		t.Errorf("RatesInterval = %v, want 12h", cfg.RatesInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BASE_CURRENCY_CODE", "EUR")
	t.Setenv("RATES_INTERVAL", "1h")
	t.Setenv("DASHBOARD_WINDOW_DAYS", "7")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.BaseCurrencyCode != "EUR" {
		t.Errorf("BaseCurrencyCode = %s, want EUR", cfg.BaseCurrencyCode)
	}
	if cfg.RatesInterval != time.Hour {
		t.Errorf("RatesInterval = %v, want 1h", cfg.RatesInterval)
	}
	if cfg.DashboardWindow != 7 {
		t.Errorf("DashboardWindow = %d, want 7", cfg.DashboardWindow)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"bad port", func(c *Config) { c.Port = "not-a-port" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"empty db path", func(c *Config) { c.SQLiteDBPath = "" }, "database path"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }, "AMQP URL scheme"},
		{"empty amqp queue", func(c *Config) { c.AMQPQueue = "" }, "queue name"},
		{"short rates interval", func(c *Config) { c.RatesInterval = time.Second }, "rates interval"},
		{"bad currency code", func(c *Config) { c.BaseCurrencyCode = "ZLOTY" }, "base currency code"},
		{"zero window", func(c *Config) { c.DashboardWindow = 0 }, "dashboard window"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not mention %q", err, tt.message)
			}
		})
	}
}
