package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: test-groundstation
  site: spaceport-a
link:
  url: ws://radio-bridge:9001/radio
database:
  postgres:
    host: localhost
    port: 5432
    name: test_db
    user: testuser
    password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-groundstation" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-groundstation")
	}
	if cfg.Link.URL != "ws://radio-bridge:9001/radio" {
		t.Errorf("Link.URL = %q, want %q", cfg.Link.URL, "ws://radio-bridge:9001/radio")
	}
	if cfg.Database.Postgres.Host != "localhost" {
		t.Errorf("Database.Postgres.Host = %q, want %q", cfg.Database.Postgres.Host, "localhost")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
instance:
  id: test-groundstation
database:
  postgres:
    host: localhost
    name: test_db
    user: testuser
    password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Postgres.Password != "secret123" {
		t.Errorf("Password = %q, want %q", cfg.Database.Postgres.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: test-groundstation
database:
  postgres:
    host: localhost
    name: test_db
    user: testuser
    password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Link.PingInterval != 15*time.Second {
		t.Errorf("Link.PingInterval = %v, want 15s", cfg.Link.PingInterval)
	}
	if cfg.Database.Postgres.Port != 5432 {
		t.Errorf("Database.Postgres.Port = %d, want 5432", cfg.Database.Postgres.Port)
	}
	if cfg.Router.QueueMax != DefaultQueueMax {
		t.Errorf("Router.QueueMax = %d, want %d", cfg.Router.QueueMax, DefaultQueueMax)
	}
	if cfg.Store.BatchSize != DefaultBatchSize {
		t.Errorf("Store.BatchSize = %d, want %d", cfg.Store.BatchSize, DefaultBatchSize)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want /metrics", cfg.Metrics.Path)
	}
}

func TestQueueMaxValue(t *testing.T) {
	cfg := GroundstationConfig{}
	cfg.Router.QueueMax = -1
	if got := cfg.QueueMaxValue(); got != 0 {
		t.Errorf("QueueMaxValue() = %d for -1, want 0 (unbounded)", got)
	}
	cfg.Router.QueueMax = 500
	if got := cfg.QueueMaxValue(); got != 500 {
		t.Errorf("QueueMaxValue() = %d, want 500", got)
	}
}

func TestValidate(t *testing.T) {
	valid := func() GroundstationConfig {
		var cfg GroundstationConfig
		cfg.Instance.ID = "gs-1"
		cfg.Database.Postgres = DBConfig{
			Host: "localhost", Port: 5432, Name: "db", User: "u", Password: "p",
			MaxConns: 10, MinConns: 2,
		}
		cfg.Router = RouterConfig{QueueInitial: 64, QueueMax: 10000, DrainTimeoutMS: 250}
		cfg.Store = StoreConfig{BatchSize: 500, FlushInterval: time.Second, RecentSize: 1000}
		cfg.Metrics = MetricsConfig{Port: 9090, Path: "/metrics"}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*GroundstationConfig)
		wantErr string
	}{
		{"valid", func(*GroundstationConfig) {}, ""},
		{"missing instance id", func(c *GroundstationConfig) { c.Instance.ID = "" }, "instance.id is required"},
		{"missing db host", func(c *GroundstationConfig) { c.Database.Postgres.Host = "" }, "database.postgres.host is required"},
		{"zero queue initial", func(c *GroundstationConfig) { c.Router.QueueInitial = 0 }, "router.queue_initial must be >= 1"},
		{"initial above max", func(c *GroundstationConfig) { c.Router.QueueInitial = 20000 }, "router.queue_initial (20000) cannot exceed queue_max (10000)"},
		{"zero batch size", func(c *GroundstationConfig) { c.Store.BatchSize = 0 }, "store.batch_size must be >= 1"},
		{"bad metrics port", func(c *GroundstationConfig) { c.Metrics.Port = 70000 }, "metrics.port must be between 1 and 65535, got 70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
