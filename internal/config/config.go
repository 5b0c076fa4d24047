package config

import (
	"time"

	"github.com/vovakirdan/hangrelay/internal/core"
)

// WorkContext is a recognized category for work rooms.
type WorkContext struct {
	Key         string `mapstructure:"key" yaml:"key"`
	Label       string `mapstructure:"label" yaml:"label"`
	Description string `mapstructure:"description" yaml:"description"`
}

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	Mode              string        `mapstructure:"mode" yaml:"mode"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	MaxMessageBytes   int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	SendBuffer        int           `mapstructure:"send_buffer" yaml:"send_buffer"`
	ExcludeSender     bool          `mapstructure:"exclude_sender" yaml:"exclude_sender"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	WorkContexts      []WorkContext `mapstructure:"work_contexts" yaml:"work_contexts"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8000",
		Mode:              "release",
		LogLevel:          "info",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		WriteTimeout:      5 * time.Second,
		MaxMessageBytes:   32 << 10,
		SendBuffer:        64,
		AllowedOrigins:    []string{"*"},
		WorkContexts:      defaultWorkContexts(),
	}
}

func defaultWorkContexts() []WorkContext {
	defaults := core.DefaultWorkContexts()
	out := make([]WorkContext, 0, len(defaults))
	for _, c := range defaults {
		out = append(out, WorkContext{Key: c.Key, Label: c.Label, Description: c.Description})
	}
	return out
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.Mode != "" {
		c.Mode = other.Mode
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.WriteTimeout != 0 {
		c.WriteTimeout = other.WriteTimeout
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.SendBuffer != 0 {
		c.SendBuffer = other.SendBuffer
	}
	if other.ExcludeSender {
		c.ExcludeSender = true
	}
	if len(other.AllowedOrigins) > 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if len(other.WorkContexts) > 0 {
		c.WorkContexts = other.WorkContexts
	}
}
