package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Server ServerConfig `toml:"server"`
	Sync   SyncConfig   `toml:"sync"`
	Tail   TailConfig   `toml:"tail"`
	TUI    TUIConfig    `toml:"tui"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig holds jukebox server connection settings.
type ServerConfig struct {
	BaseURL  string `toml:"base_url"`
	PushURL  string `toml:"push_url"`  // overrides the URL derived from base_url
	PushPath string `toml:"push_path"` // used when push_url is empty
	Timeout  int    `toml:"timeout"`   // milliseconds
}

// SyncConfig holds live-sync timings, in milliseconds.
type SyncConfig struct {
	PollInterval   int  `toml:"poll_interval"`
	StaleFactor    int  `toml:"stale_factor"`
	ReconnectDelay int  `toml:"reconnect_delay"`
	QueueInterval  int  `toml:"queue_interval"`
	DisablePush    bool `toml:"disable_push"`
}

// TailConfig holds settings for tail/follow mode.
type TailConfig struct {
	Emoji     bool   `toml:"emoji"`
	Timestamp bool   `toml:"timestamp"`
	Format    string `toml:"format"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
	JSON  bool   `toml:"json"`
}

// TimeoutDuration returns the request timeout.
func (c ServerConfig) TimeoutDuration() time.Duration {
	return millis(c.Timeout)
}

// PollDuration returns the staleness watchdog period.
func (c SyncConfig) PollDuration() time.Duration {
	return millis(c.PollInterval)
}

// ReconnectDuration returns the push reconnect delay.
func (c SyncConfig) ReconnectDuration() time.Duration {
	return millis(c.ReconnectDelay)
}

// QueueDuration returns the queue refresh period.
func (c SyncConfig) QueueDuration() time.Duration {
	return millis(c.QueueInterval)
}

// RefreshDuration returns the display tick period.
func (c TUIConfig) RefreshDuration() time.Duration {
	return millis(c.RefreshInterval)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
