package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected default read timeout 30s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Timer.IdleThreshold != 10*time.Minute {
		t.Errorf("expected default idle threshold 10m, got %v", cfg.Timer.IdleThreshold)
	}
	if cfg.Timer.ReportMinSeconds != 60 {
		t.Errorf("expected default report minimum 60s, got %d", cfg.Timer.ReportMinSeconds)
	}
	if cfg.Journal.BatchSize != 100 {
		t.Errorf("expected default batch size 100, got %d", cfg.Journal.BatchSize)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
server:
  port: 9090
  host: "127.0.0.1"
  read_timeout: 10s
  write_timeout: 15s
timer:
  idle_threshold: 5m
  report_min_seconds: 30
journal:
  batch_size: 50
  flush_interval: 2s
cors:
  allowed_origins: ["https://example.com"]
`
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected host 127.0.0.1, got %s", cfg.Server.Host)
	}
	if cfg.Timer.IdleThreshold != 5*time.Minute {
		t.Errorf("expected idle threshold 5m, got %v", cfg.Timer.IdleThreshold)
	}
	if cfg.Timer.ReportMinSeconds != 30 {
		t.Errorf("expected report minimum 30s, got %d", cfg.Timer.ReportMinSeconds)
	}
	if cfg.Journal.BatchSize != 50 {
		t.Errorf("expected batch size 50, got %d", cfg.Journal.BatchSize)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("expected cors origins [https://example.com], got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with empty path should use defaults: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CADENCE_PORT", "3000")
	t.Setenv("CADENCE_HOST", "10.0.0.1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "10.0.0.1" {
		t.Errorf("expected host 10.0.0.1, got %s", cfg.Server.Host)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, true},
		{"zero write timeout", func(c *Config) { c.Server.WriteTimeout = 0 }, true},
		{"zero idle threshold", func(c *Config) { c.Timer.IdleThreshold = 0 }, true},
		{"negative report minimum", func(c *Config) { c.Timer.ReportMinSeconds = -1 }, true},
		{"zero report minimum ok", func(c *Config) { c.Timer.ReportMinSeconds = 0 }, false},
		{"zero batch size", func(c *Config) { c.Journal.BatchSize = 0 }, true},
		{"zero flush interval", func(c *Config) { c.Journal.FlushInterval = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddr(t *testing.T) {
	cfg := defaults()
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("expected 0.0.0.0:8080, got %s", cfg.Addr())
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_CADENCE_VAR", "hello")
	result := expandEnvVars("value: ${TEST_CADENCE_VAR}")
	if result != "value: hello" {
		t.Errorf("expected 'value: hello', got %s", result)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}
