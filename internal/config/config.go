package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BackupConfig controls the periodic SQLite backup.
type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	IntervalHours int    `yaml:"interval_hours"`
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

type Config struct {
	Server struct {
		Addr               string   `yaml:"addr"`
		APIKeys            []string `yaml:"api_keys"`
		RateLimitPerSecond float64  `yaml:"rate_limit_per_second"`
		RateLimitBurst     int      `yaml:"rate_limit_burst"`
		ReadTimeoutSeconds int      `yaml:"read_timeout_seconds"`
		WriteTimeoutSecs   int      `yaml:"write_timeout_seconds"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup BackupConfig `yaml:"backup"`

	Redis struct {
		Enabled           bool   `yaml:"enabled"`
		Address           string `yaml:"address"`
		Password          string `yaml:"password"`
		DB                int    `yaml:"db"`
		CatalogTTLSeconds int    `yaml:"catalog_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Booking struct {
		MinAdvanceMinutes    int `yaml:"min_advance_minutes"`
		MaxAdvanceDays       int `yaml:"max_advance_days"`
		MaxActivePerCustomer int `yaml:"max_active_per_customer"`
	} `yaml:"booking"`

	Report struct {
		Enabled              bool   `yaml:"enabled"`
		PendingRetentionDays int    `yaml:"pending_retention_days"`
		OutputPath           string `yaml:"output_path"`
	} `yaml:"report"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/cancha.db"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) BookingMinAdvance() time.Duration {
	if c.Booking.MinAdvanceMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Booking.MinAdvanceMinutes) * time.Minute
}

func (c *Config) BookingMaxAdvance() time.Duration {
	if c.Booking.MaxAdvanceDays <= 0 {
		return 90 * 24 * time.Hour
	}
	return time.Duration(c.Booking.MaxAdvanceDays) * 24 * time.Hour
}

func (c *Config) CatalogTTL() time.Duration {
	if c.Redis.CatalogTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Redis.CatalogTTLSeconds) * time.Second
}
