package config

import "time"

// GroundstationConfig is the root configuration for a groundstation instance.
type GroundstationConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	Link     LinkConfig     `yaml:"link"`
	Database DatabaseConfig `yaml:"database"`
	Router   RouterConfig   `yaml:"router"`
	Store    StoreConfig    `yaml:"store"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Layout   LayoutConfig   `yaml:"layout"`
}

// InstanceConfig identifies this groundstation.
type InstanceConfig struct {
	ID   string `yaml:"id"`
	Site string `yaml:"site"`
}

// LinkConfig holds radio bridge connection settings.
type LinkConfig struct {
	URL                string        `yaml:"url"`
	PingInterval       time.Duration `yaml:"ping_interval"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
}

// DatabaseConfig holds the telemetry store connection.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// RouterConfig holds dispatch core settings.
type RouterConfig struct {
	QueueInitial   int   `yaml:"queue_initial"`
	QueueMax       int   `yaml:"queue_max"` // -1 = unbounded, 0 = default
	DrainTimeoutMS int64 `yaml:"drain_timeout_ms"`
}

// StoreConfig holds telemetry store writer settings.
type StoreConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	RecentSize    int           `yaml:"recent_size"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// LayoutConfig points at the dashboard layout document.
type LayoutConfig struct {
	Path string `yaml:"path"`
}
