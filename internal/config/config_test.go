package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
snapshots:
  dir: /var/lib/radar/snapshots
engine:
  cooldown: 2h
logging:
  level: debug
  format: console
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Snapshots.Dir != "/var/lib/radar/snapshots" {
		t.Errorf("snapshots.dir = %q", c.Snapshots.Dir)
	}
	if c.Engine.Cooldown != 2*time.Hour {
		t.Errorf("cooldown = %s, want 2h", c.Engine.Cooldown)
	}
	// Untouched fields keep their defaults.
	if c.State.Backend != "file" || c.State.Path == "" {
		t.Errorf("state defaults = %q %q", c.State.Backend, c.State.Path)
	}
	if c.Logging.Level != "debug" || c.Logging.Format != "console" {
		t.Errorf("logging = %q %q", c.Logging.Level, c.Logging.Format)
	}
}

func TestLoad_EnvOverridesCredentials(t *testing.T) {
	t.Setenv("REDIS_PASSWORD", "hunter2")

	path := writeConfig(t, `
state:
  backend: redis
  redis:
    addr: localhost:6379
    password: from-file
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.State.Redis.Password != "hunter2" {
		t.Errorf("redis password = %q, want env override", c.State.Redis.Password)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.State.Backend = "etcd" }},
		{"file backend without path", func(c *Config) { c.State.Path = "" }},
		{"redis backend without addr", func(c *Config) { c.State.Backend = "redis" }},
		{"postgres backend without dsn", func(c *Config) { c.State.Backend = "postgres" }},
		{"history without dsn", func(c *Config) { c.History.Enabled = true }},
		{"non-positive cooldown", func(c *Config) { c.Engine.Cooldown = 0 }},
		{"missing snapshots dir", func(c *Config) { c.Snapshots.Dir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}
