package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAuthMode             = "handshake"
	DefaultMaxReconnectAttempts = 5
	DefaultReconnectBase        = 2 * time.Second
	DefaultBackoffCeiling       = 30 * time.Second
	DefaultKeepaliveInterval    = 30 * time.Second
	DefaultHistoryLimit         = 100
	DefaultDBPort               = 5432
	DefaultDBSSLMode            = "prefer"
	DefaultMaxConns             = 10
	DefaultMinConns             = 2
	DefaultRedisAddr            = "localhost:6379"
	DefaultRedisPrefix          = "venuestream:"
	DefaultRedisBufferSize      = 1000
	DefaultBatchSize            = 500
	DefaultFlushInterval        = 1 * time.Second
	DefaultBufferSize           = 10000
	DefaultMetricsPort          = 9090
	DefaultMetricsPath          = "/metrics"
)

func (c *ServiceConfig) applyDefaults() {
	// Realtime defaults
	if c.Realtime.AuthMode == "" {
		c.Realtime.AuthMode = DefaultAuthMode
	}
	if c.Realtime.MaxReconnectAttempts == 0 {
		c.Realtime.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if c.Realtime.ReconnectBase == 0 {
		c.Realtime.ReconnectBase = DefaultReconnectBase
	}
	if c.Realtime.BackoffCeiling == 0 {
		c.Realtime.BackoffCeiling = DefaultBackoffCeiling
	}
	if c.Realtime.KeepaliveInterval == 0 {
		c.Realtime.KeepaliveInterval = DefaultKeepaliveInterval
	}
	if c.Realtime.HistoryLimit == 0 {
		c.Realtime.HistoryLimit = DefaultHistoryLimit
	}

	// Database defaults
	applyDBDefaults(&c.Database)

	// Redis defaults
	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = DefaultRedisPrefix
	}
	if c.Redis.BufferSize == 0 {
		c.Redis.BufferSize = DefaultRedisBufferSize
	}

	// Recorder defaults
	if c.Recorder.BatchSize == 0 {
		c.Recorder.BatchSize = DefaultBatchSize
	}
	if c.Recorder.FlushInterval == 0 {
		c.Recorder.FlushInterval = DefaultFlushInterval
	}
	if c.Recorder.BufferSize == 0 {
		c.Recorder.BufferSize = DefaultBufferSize
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
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
