package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.jukeboxrc, $XDG_CONFIG_HOME/jukebox/config.toml, ~/.config/jukebox/config.toml
func Load() (*Config, error) {
	cfg := Default()

	// Try loading from file
	path := FindConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadDotEnv loads JUKEBOX_* variables from a .env file in the working
// directory. Variables already set in the environment win. A missing file
// is not an error.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	var existing []string
	for _, f := range filenames {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// DefaultPath returns the path config init writes to.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jukeboxrc"
	}
	return filepath.Join(home, ".jukeboxrc")
}

// FindConfigFile returns the first existing config file path.
func FindConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".jukeboxrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "jukebox", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Server
	envString("JUKEBOX_SERVER_BASE_URL", &cfg.Server.BaseURL)
	envString("JUKEBOX_SERVER_PUSH_URL", &cfg.Server.PushURL)
	envString("JUKEBOX_SERVER_PUSH_PATH", &cfg.Server.PushPath)
	envInt("JUKEBOX_SERVER_TIMEOUT", &cfg.Server.Timeout)

	// Sync
	envInt("JUKEBOX_SYNC_POLL_INTERVAL", &cfg.Sync.PollInterval)
	envInt("JUKEBOX_SYNC_STALE_FACTOR", &cfg.Sync.StaleFactor)
	envInt("JUKEBOX_SYNC_RECONNECT_DELAY", &cfg.Sync.ReconnectDelay)
	envInt("JUKEBOX_SYNC_QUEUE_INTERVAL", &cfg.Sync.QueueInterval)
	envBool("JUKEBOX_SYNC_DISABLE_PUSH", &cfg.Sync.DisablePush)

	// TUI
	envString("JUKEBOX_TUI_THEME", &cfg.TUI.Theme)
	envInt("JUKEBOX_TUI_REFRESH_INTERVAL", &cfg.TUI.RefreshInterval)

	// Log
	envString("JUKEBOX_LOG_LEVEL", &cfg.Log.Level)
	envString("JUKEBOX_LOG_FILE", &cfg.Log.File)
	envBool("JUKEBOX_LOG_JSON", &cfg.Log.JSON)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
