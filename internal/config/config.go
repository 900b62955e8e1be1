// Package config loads scanner configuration from a YAML file with
// environment-variable overrides for credentials.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all scanner configuration.
type Config struct {
	Snapshots struct {
		Dir string `yaml:"dir"`
	} `yaml:"snapshots"`

	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`

	Engine struct {
		Cooldown time.Duration `yaml:"cooldown"`
	} `yaml:"engine"`

	State struct {
		Backend string `yaml:"backend"` // file | redis | postgres
		Path    string `yaml:"path"`    // file backend
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Key      string `yaml:"key"`
		} `yaml:"redis"`
		Postgres struct {
			DSN string `yaml:"dsn"`
		} `yaml:"postgres"`
	} `yaml:"state"`

	History struct {
		Enabled       bool   `yaml:"enabled"`
		ClickhouseDSN string `yaml:"clickhouse_dsn"`
	} `yaml:"history"`

	Metrics struct {
		PushgatewayURL string `yaml:"pushgateway_url"`
		Job            string `yaml:"job"`
	} `yaml:"metrics"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json or console
	} `yaml:"logging"`
}

// Default returns a Config with working defaults for a local run.
func Default() *Config {
	c := &Config{}
	c.Snapshots.Dir = "data/snapshots"
	c.Output.Dir = "data/output"
	c.Engine.Cooldown = 4 * time.Hour
	c.State.Backend = "file"
	c.State.Path = "data/state/cooldowns.json"
	c.Metrics.Job = "squeeze_radar_scan"
	c.Logging.Level = "info"
	c.Logging.Format = "json"
	return c
}

// Load reads and parses a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// applyEnv overrides credentials from the environment so secrets stay out
// of the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.State.Redis.Password = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.State.Postgres.DSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		c.History.ClickhouseDSN = v
	}
}

// Validate checks backend selections and required paths.
func (c *Config) Validate() error {
	if c.Snapshots.Dir == "" {
		return fmt.Errorf("snapshots.dir is required")
	}
	if c.Engine.Cooldown <= 0 {
		return fmt.Errorf("engine.cooldown must be positive")
	}

	switch c.State.Backend {
	case "file":
		if c.State.Path == "" {
			return fmt.Errorf("state.path is required for the file backend")
		}
	case "redis":
		if c.State.Redis.Addr == "" {
			return fmt.Errorf("state.redis.addr is required for the redis backend")
		}
	case "postgres":
		if c.State.Postgres.DSN == "" {
			return fmt.Errorf("state.postgres.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown state backend %q", c.State.Backend)
	}

	if c.History.Enabled && c.History.ClickhouseDSN == "" {
		return fmt.Errorf("history.clickhouse_dsn is required when history is enabled")
	}
	return nil
}
