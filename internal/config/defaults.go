package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:  "http://localhost:8080",
			PushPath: "/api/ws/current-song",
			Timeout:  10000,
		},
		Sync: SyncConfig{
			PollInterval:   5000,
			StaleFactor:    3,
			ReconnectDelay: 3000,
			QueueInterval:  5000,
		},
		Tail: TailConfig{
			Emoji:     true,
			Timestamp: true,
			Format:    "compact",
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Server
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = d.Server.BaseURL
	}
	if c.Server.PushPath == "" {
		c.Server.PushPath = d.Server.PushPath
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = d.Server.Timeout
	}

	// Sync
	if c.Sync.PollInterval == 0 {
		c.Sync.PollInterval = d.Sync.PollInterval
	}
	if c.Sync.StaleFactor == 0 {
		c.Sync.StaleFactor = d.Sync.StaleFactor
	}
	if c.Sync.ReconnectDelay == 0 {
		c.Sync.ReconnectDelay = d.Sync.ReconnectDelay
	}
	if c.Sync.QueueInterval == 0 {
		c.Sync.QueueInterval = d.Sync.QueueInterval
	}

	// Tail
	if c.Tail.Format == "" {
		c.Tail.Format = d.Tail.Format
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
