package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/logwindow/pkg/filter"
	"github.com/ccollicutt/logwindow/pkg/timestamp"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.ApplyEnvironmentOverrides(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors, fills in defaults and
// parses the window.
func Validate(cfg *Config) error {
	if err := validateCentury(cfg); err != nil {
		return fmt.Errorf("century: %w", err)
	}

	w, err := filter.ParseWindow(cfg.Start, cfg.End, cfg.century)
	if err != nil {
		return err
	}
	if !w.Validate() {
		return filter.ErrInvalidWindow
	}
	cfg.window = w

	if cfg.Verbosity < 0 {
		return fmt.Errorf("verbosity: must be >= 0, got %d", cfg.Verbosity)
	}

	if cfg.BufferSize < 0 || cfg.BufferSize > MaxBufferSize {
		return fmt.Errorf("buffer_size: must be between 0 and %d, got %d", MaxBufferSize, cfg.BufferSize)
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = DefaultBufferSize
	}

	switch cfg.Summary {
	case SummaryNone, SummaryText, SummaryJSON:
	default:
		return fmt.Errorf("summary: invalid format %q (must be text or json)", cfg.Summary)
	}

	for i, in := range cfg.Inputs {
		if in == "" {
			return fmt.Errorf("inputs[%d]: empty path", i)
		}
	}

	for i := range cfg.Webhooks {
		if err := ValidateWebhook(&cfg.Webhooks[i]); err != nil {
			return fmt.Errorf("webhooks[%d] (%s): %w", i, cfg.Webhooks[i].DisplayName(), err)
		}
	}

	return nil
}

// ValidateWebhook checks a webhook and fills in its defaults.
func ValidateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnFailure
	case WebhookTriggerOnFailure, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_failure, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands a value of the form ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	if strings.HasPrefix(s, "$") && len(s) > 1 {
		return os.Getenv(s[1:])
	}
	return s
}

func validateCentury(cfg *Config) error {
	if cfg.Century == 0 {
		cfg.century = timestamp.CurrentCentury(time.Now())
		return nil
	}
	if cfg.Century%100 != 0 {
		return fmt.Errorf("must be a multiple of 100, got %d", cfg.Century)
	}
	if cfg.Century < timestamp.MinYear || cfg.Century+99 > timestamp.MaxYear {
		return fmt.Errorf("must be between %d and %d, got %d", timestamp.MinYear, timestamp.MaxYear-99, cfg.Century)
	}
	cfg.century = timestamp.Century(cfg.Century)
	return nil
}
