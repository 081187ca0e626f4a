package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := c.Sync.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sync: %w", err))
	}
	if err := c.Tail.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tail: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks ServerConfig for errors.
func (c *ServerConfig) Validate() error {
	var errs []error

	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid base_url: %w", err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, fmt.Errorf("invalid base_url: %s (must be http or https)", c.BaseURL))
		}
	}
	if c.PushURL != "" {
		u, err := url.Parse(c.PushURL)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid push_url: %w", err))
		} else if u.Scheme != "ws" && u.Scheme != "wss" {
			errs = append(errs, fmt.Errorf("invalid push_url: %s (must be ws or wss)", c.PushURL))
		}
	}
	if c.PushPath != "" && !strings.HasPrefix(c.PushPath, "/") {
		errs = append(errs, fmt.Errorf("invalid push_path: %s (must start with /)", c.PushPath))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must be non-negative"))
	}

	return errors.Join(errs...)
}

// Validate checks SyncConfig for errors.
func (c *SyncConfig) Validate() error {
	if c.PollInterval < 0 || c.ReconnectDelay < 0 || c.QueueInterval < 0 {
		return errors.New("intervals must be non-negative")
	}
	if c.StaleFactor < 0 {
		return errors.New("stale_factor must be non-negative")
	}
	return nil
}

// Validate checks TailConfig for errors.
func (c *TailConfig) Validate() error {
	switch c.Format {
	case "", "compact", "verbose", "json":
		// valid
	default:
		return fmt.Errorf("invalid format: %s (must be compact, verbose, or json)", c.Format)
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "trace", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be trace, debug, info, warn, or error)", c.Level)
	}
	return nil
}
