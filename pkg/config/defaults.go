package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ccollicutt/logwindow/pkg/parser"
)

// Default values for configuration.
const (
	DefaultBufferSize = parser.DefaultBufferSize
	MaxBufferSize     = 64 * 1024 * 1024

	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvStart = "LOGWINDOW_START"
	EnvEnd   = "LOGWINDOW_END"
	EnvFast  = "LOGWINDOW_FAST"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BufferSize: DefaultBufferSize,
		Inputs:     []string{},
	}
}

// ApplyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvironmentOverrides() error {
	if start := os.Getenv(EnvStart); start != "" {
		c.Start = start
	}
	if end := os.Getenv(EnvEnd); end != "" {
		c.End = end
	}
	if fast := os.Getenv(EnvFast); fast != "" {
		v, err := strconv.ParseBool(fast)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFast, err)
		}
		c.Fast = v
	}
	return nil
}
