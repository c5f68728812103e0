package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	CORS    CORSConfig    `yaml:"cors"`
	Timer   TimerConfig   `yaml:"timer"`
	Journal JournalConfig `yaml:"journal"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"` // default: [] (same-origin only when empty; ["*"] for dev)
}

type TimerConfig struct {
	// IdleThreshold is how long a running timer may see no activity before
	// Tick raises the advisory idle flag.
	IdleThreshold time.Duration `yaml:"idle_threshold"`
	// ReportMinSeconds is the reporting-layer floor: stopped entries
	// shorter than this are excluded from summaries, never rejected.
	ReportMinSeconds int64 `yaml:"report_min_seconds"`
}

type JournalConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		expanded := expandEnvVars(string(data))

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Timer: TimerConfig{
			IdleThreshold:    10 * time.Minute,
			ReportMinSeconds: 60,
		},
		Journal: JournalConfig{
			BatchSize:     100,
			FlushInterval: 5 * time.Second,
		},
	}
}

func expandEnvVars(s string) string {
	return os.ExpandEnv(s)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CADENCE_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CADENCE_HOST"); v != "" {
		cfg.Server.Host = v
	}
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}
	if c.Timer.IdleThreshold <= 0 {
		return fmt.Errorf("timer.idle_threshold must be positive")
	}
	if c.Timer.ReportMinSeconds < 0 {
		return fmt.Errorf("timer.report_min_seconds must not be negative")
	}
	if c.Journal.BatchSize <= 0 {
		return fmt.Errorf("journal.batch_size must be positive")
	}
	if c.Journal.FlushInterval <= 0 {
		return fmt.Errorf("journal.flush_interval must be positive")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
