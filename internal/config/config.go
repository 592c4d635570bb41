package config

import (
	"time"

	"github.com/restosuite/venuestream/internal/realtime"
)

// ServiceConfig is the root configuration for a venuestream instance.
type ServiceConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	Realtime RealtimeConfig `yaml:"realtime"`
	Database DBConfig       `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Recorder RecorderConfig `yaml:"recorder"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// InstanceConfig identifies this service instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// RealtimeConfig holds venue stream client settings.
type RealtimeConfig struct {
	URL                  string        `yaml:"url"`
	VenueID              int           `yaml:"venue_id"`
	Channels             []string      `yaml:"channels"`
	AuthMode             string        `yaml:"auth_mode"`
	Token                string        `yaml:"token"`
	AutoReconnect        *bool         `yaml:"auto_reconnect"` // nil means enabled
	MaxReconnectAttempts int           `yaml:"max_reconnect_attempts"`
	ReconnectBase        time.Duration `yaml:"reconnect_base"`
	BackoffCeiling       time.Duration `yaml:"backoff_ceiling"`
	KeepaliveInterval    time.Duration `yaml:"keepalive_interval"`
	HistoryLimit         int           `yaml:"history_limit"`
}

// ClientConfig maps the realtime section onto a stream client config.
// Unset fields keep the client defaults.
func (c RealtimeConfig) ClientConfig() realtime.Config {
	out := realtime.DefaultConfig()
	out.BaseURL = c.URL
	out.VenueID = c.VenueID
	out.Channels = append([]string(nil), c.Channels...)
	out.Token = c.Token
	if c.AuthMode != "" {
		out.AuthMode = realtime.AuthMode(c.AuthMode)
	}
	if c.AutoReconnect != nil {
		out.AutoReconnect = *c.AutoReconnect
	}
	if c.MaxReconnectAttempts != 0 {
		out.MaxReconnectAttempts = c.MaxReconnectAttempts
	}
	if c.ReconnectBase != 0 {
		out.ReconnectBase = c.ReconnectBase
	}
	if c.BackoffCeiling != 0 {
		out.BackoffCeiling = c.BackoffCeiling
	}
	if c.KeepaliveInterval != 0 {
		out.KeepaliveInterval = c.KeepaliveInterval
	}
	if c.HistoryLimit != 0 {
		out.HistoryLimit = c.HistoryLimit
	}
	return out
}

// DBConfig holds the events database connection.
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

// RedisConfig holds the optional fanout bridge settings.
type RedisConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	Prefix     string `yaml:"prefix"`
	BufferSize int    `yaml:"buffer_size"`
}

// RecorderConfig holds batch writer settings.
type RecorderConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
