package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultLinkURL            = "ws://localhost:9001/radio"
	DefaultPingInterval       = 15 * time.Second
	DefaultReadTimeout        = 30 * time.Second
	DefaultReconnectBaseDelay = 1 * time.Second
	DefaultReconnectMaxDelay  = 60 * time.Second
	DefaultDBPort             = 5432
	DefaultDBSSLMode          = "prefer"
	DefaultMaxConns           = 10
	DefaultMinConns           = 2
	DefaultQueueInitial       = 64
	DefaultQueueMax           = 10000
	DefaultDrainTimeoutMS     = 250
	DefaultBatchSize          = 500
	DefaultFlushInterval      = 1 * time.Second
	DefaultRecentSize         = 1000
	DefaultMetricsPort        = 9090
	DefaultMetricsPath        = "/metrics"
	DefaultLayoutPath         = "configs/layout.json"
)

func (c *GroundstationConfig) applyDefaults() {
	// Link defaults
	if c.Link.URL == "" {
		c.Link.URL = DefaultLinkURL
	}
	if c.Link.PingInterval == 0 {
		c.Link.PingInterval = DefaultPingInterval
	}
	if c.Link.ReadTimeout == 0 {
		c.Link.ReadTimeout = DefaultReadTimeout
	}
	if c.Link.ReconnectBaseDelay == 0 {
		c.Link.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Link.ReconnectMaxDelay == 0 {
		c.Link.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// Router defaults
	if c.Router.QueueInitial == 0 {
		c.Router.QueueInitial = DefaultQueueInitial
	}
	if c.Router.QueueMax == 0 {
		c.Router.QueueMax = DefaultQueueMax
	}
	if c.Router.DrainTimeoutMS == 0 {
		c.Router.DrainTimeoutMS = DefaultDrainTimeoutMS
	}

	// Store defaults
	if c.Store.BatchSize == 0 {
		c.Store.BatchSize = DefaultBatchSize
	}
	if c.Store.FlushInterval == 0 {
		c.Store.FlushInterval = DefaultFlushInterval
	}
	if c.Store.RecentSize == 0 {
		c.Store.RecentSize = DefaultRecentSize
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	// Layout defaults
	if c.Layout.Path == "" {
		c.Layout.Path = DefaultLayoutPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
