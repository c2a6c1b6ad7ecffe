// Package config provides configuration loading and validation for logwindow.
package config

import (
	"time"

	"github.com/ccollicutt/logwindow/pkg/filter"
	"github.com/ccollicutt/logwindow/pkg/timestamp"
)

// SummaryFormat selects how the run summary is reported.
type SummaryFormat string

const (
	// SummaryNone disables the run summary.
	SummaryNone SummaryFormat = ""
	SummaryText SummaryFormat = "text"
	SummaryJSON SummaryFormat = "json"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Start and End are the window boundaries, "dd.mm.yyyy HH:MM:SS".
	// An empty boundary leaves that side of the window open.
	Start string `yaml:"start,omitempty"`
	End   string `yaml:"end,omitempty"`

	// Century is used for two-digit years. Zero means the current century.
	Century int `yaml:"century,omitempty"`

	Fast    bool `yaml:"fast,omitempty"`
	Replace bool `yaml:"replace,omitempty"`
	Merge   bool `yaml:"merge,omitempty"`

	Verbosity  int           `yaml:"verbosity,omitempty"`
	BufferSize int           `yaml:"buffer_size,omitempty"`
	Summary    SummaryFormat `yaml:"summary,omitempty"`

	// Inputs are file paths or glob patterns. "-" is stdin.
	Inputs []string `yaml:"inputs,omitempty"`

	// Webhooks receive the run summary as JSON after the run.
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`

	// Populated during validation.
	century timestamp.Century
	window  filter.Window
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnFailure fires only when some input could not be
	// read (default).
	WebhookTriggerOnFailure WebhookTrigger = "on_failure"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for the run summary.
type WebhookConfig struct {
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token. ${VAR} and $VAR are expanded.
	Token string `yaml:"token,omitempty"`

	// Trigger defaults to on_failure.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout defaults to DefaultWebhookTimeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// DisplayName returns the name, or the URL for unnamed webhooks.
func (w WebhookConfig) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.URL
}

// ShouldFire reports whether the webhook fires for a run.
func (w WebhookConfig) ShouldFire(failed bool) bool {
	switch w.Trigger {
	case WebhookTriggerAlways:
		return true
	case WebhookTriggerNever:
		return false
	default:
		return failed
	}
}

// Window returns the parsed window. Only valid after Validate.
func (c *Config) Window() filter.Window {
	return c.window
}

// ResolvedCentury returns the century used for two-digit years. Only
// valid after Validate.
func (c *Config) ResolvedCentury() timestamp.Century {
	return c.century
}

// Bounded reports whether at least one window boundary is set.
func (c *Config) Bounded() bool {
	return c.Start != "" || c.End != ""
}

// FilterOptions returns the filter options described by the config.
func (c *Config) FilterOptions() []filter.Option {
	return []filter.Option{
		filter.WithCentury(c.century),
		filter.WithFast(c.Fast),
		filter.WithReplace(c.Replace),
		filter.WithMerge(c.Merge),
		filter.WithVerbosity(c.Verbosity),
		filter.WithBufferSize(c.BufferSize),
	}
}
