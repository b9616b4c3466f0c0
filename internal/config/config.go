// Package config loads the service configuration from YAML with
// ${ENV_VAR} placeholders and environment overrides.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr" envconfig:"SERVER_ADDR"`
	} `yaml:"server"`

	Database struct {
		Path           string `yaml:"path" envconfig:"DATABASE_PATH"`
		TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"DATABASE_TIMEOUT_SECONDS"`
	} `yaml:"database"`

	Redis struct {
		Address  string `yaml:"address" envconfig:"REDIS_ADDRESS"`
		Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" envconfig:"REDIS_DB"`
		Channel  string `yaml:"channel" envconfig:"REDIS_CHANNEL"`
	} `yaml:"redis"`

	Telegram struct {
		BotToken  string `yaml:"bot_token" envconfig:"TELEGRAM_BOT_TOKEN"`
		OpsChatID int64  `yaml:"ops_chat_id" envconfig:"TELEGRAM_OPS_CHAT_ID"`
	} `yaml:"telegram"`

	Backup struct {
		Enabled       bool   `yaml:"enabled" envconfig:"BACKUP_ENABLED"`
		Path          string `yaml:"path" envconfig:"BACKUP_PATH"`
		IntervalHours int    `yaml:"interval_hours" envconfig:"BACKUP_INTERVAL_HOURS"`
		RetentionDays int    `yaml:"retention_days" envconfig:"BACKUP_RETENTION_DAYS"`
	} `yaml:"backup"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port" envconfig:"HEALTH_CHECK_PORT"`
		PrometheusEnabled bool `yaml:"prometheus_enabled" envconfig:"PROMETHEUS_ENABLED"`
		PrometheusPort    int  `yaml:"prometheus_port" envconfig:"PROMETHEUS_PORT"`
	} `yaml:"monitoring"`
}

// Load reads the YAML config file, expands ${ENV_VAR} placeholders and
// applies environment variable overrides on top. A missing file is not
// an error: the environment alone can carry the full configuration.
func Load(path string) (*Config, error) {
	// Local development convenience; absent .env files are ignored.
	_ = godotenv.Load()

	if path == "" {
		path = "configs/config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		data = []byte(os.ExpandEnv(string(data)))
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	if err := envconfig.Process("digierge", &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/digierge.db"
	}
	if cfg.Redis.Channel == "" {
		cfg.Redis.Channel = "digierge:events"
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// BackupInterval is the time between database snapshots.
func (c *Config) BackupInterval() time.Duration {
	if c.Backup.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Backup.IntervalHours) * time.Hour
}

// BackupRetention is how long snapshots are kept.
func (c *Config) BackupRetention() time.Duration {
	if c.Backup.RetentionDays <= 0 {
		return 14 * 24 * time.Hour
	}
	return time.Duration(c.Backup.RetentionDays) * 24 * time.Hour
}

// StoreTimeout bounds every store operation.
func (c *Config) StoreTimeout() time.Duration {
	if c.Database.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Database.TimeoutSeconds) * time.Second
}
