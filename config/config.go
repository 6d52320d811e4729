package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabaseDriver     string        `yaml:"database_driver"`
	DatabaseURL        string        `yaml:"database_url"`
	ServerPort         string        `yaml:"server_port"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	DeadlineWindowDays int           `yaml:"deadline_window_days"`
	SeedDemo           bool          `yaml:"seed_demo"`
}

func Load() *Config {
	return &Config{
		DatabaseDriver:     getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:        getEnv("DATABASE_URL", "postgresql://postgres@localhost:5432/workforce"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		DeadlineWindowDays: getEnvInt("DEADLINE_WINDOW_DAYS", 1),
		SeedDemo:           getEnv("SEED_DEMO", "") == "true",
	}
}

// LoadFile starts from Load and overlays the YAML document at path. Keys
// missing from the file keep their environment or default value.
func LoadFile(path string) (*Config, error) {
	cfg := Load()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if c.DeadlineWindowDays < 0 {
		return fmt.Errorf("config: deadline_window_days must not be negative")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: request_timeout must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
