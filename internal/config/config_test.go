package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Monitor.URLs = []string{"https://example.com/p"}
	cfg.Monitor.Interval = 300 * time.Second
	cfg.Monitor.RequestTimeout = 15 * time.Second
	cfg.History.Path = "price_data.json"
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateRequiresURLs(t *testing.T) {
	cfg := validConfig()
	cfg.Monitor.URLs = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty url list must be fatal")
	}

	cfg.Monitor.URLs = []string{"  ", ""}
	if err := cfg.Validate(); err == nil {
		t.Fatal("blank-only url list must be fatal")
	}
}

func TestValidateRejectsBadDurations(t *testing.T) {
	cfg := validConfig()
	cfg.Monitor.Interval = 0
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "interval") {
		t.Fatalf("expected interval error, got %v", err)
	}

	cfg = validConfig()
	cfg.Monitor.RequestTimeout = 0
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "request_timeout") {
		t.Fatalf("expected request_timeout error, got %v", err)
	}

	cfg = validConfig()
	cfg.Monitor.PageDelay = -time.Second
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "page_delay") {
		t.Fatalf("expected page_delay error, got %v", err)
	}
}

func TestValidateRequiresSomeHistoryBackend(t *testing.T) {
	cfg := validConfig()
	cfg.History.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("no history backend must be fatal")
	}

	cfg.History.DSN = "postgres://localhost/prices"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("dsn alone should be enough: %v", err)
	}
}

func TestCleanURLs(t *testing.T) {
	m := MonitorConfig{URLs: []string{" https://example.com/a ", "", "https://example.com/b", "  "}}
	got := m.CleanURLs()
	if len(got) != 2 || got[0] != "https://example.com/a" || got[1] != "https://example.com/b" {
		t.Fatalf("unexpected cleaned urls %v", got)
	}
}
