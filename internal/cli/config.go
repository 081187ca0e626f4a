package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/tessro/jukebox/internal/config"
	jberrors "github.com/tessro/jukebox/internal/errors"
	"github.com/tessro/jukebox/internal/wizard"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing jukebox configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values, including defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a new configuration file with default values. In a terminal you
are asked for the server address.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  server.base_url        Jukebox server address
  server.push_url        Push channel URL (overrides the derived one)
  server.push_path       Push channel path on the server
  server.timeout         Request timeout in milliseconds
  sync.poll_interval     Staleness check period in milliseconds
  sync.stale_factor      Poll intervals without news before polling
  sync.reconnect_delay   Push reconnect delay in milliseconds
  sync.queue_interval    Queue refresh period in milliseconds
  sync.disable_push      Poll only (true/false)
  tail.emoji             Emoji in tail output (true/false)
  tail.timestamp         Timestamps in tail output (true/false)
  tail.format            Tail style (compact/verbose/json)
  tui.theme              Dashboard theme (auto/dark/light)
  tui.refresh_interval   Dashboard refresh in milliseconds
  log.level              Log level (debug/info/warn/error)
  log.file               Log file path
  log.json               JSON log lines (true/false)

Examples:
  jukebox config set server.base_url http://jukebox.local:8080
  jukebox config set sync.poll_interval 10000`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configThemeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Interactively select the dashboard theme",
	Args:  cobra.NoArgs,
	RunE:  runConfigTheme,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configThemeCmd)
	rootCmd.AddCommand(configCmd)
}

// configKeys maps each settable key to its value kind.
var configKeys = map[string]string{
	"server.base_url":      "string",
	"server.push_url":      "string",
	"server.push_path":     "string",
	"server.timeout":       "int",
	"sync.poll_interval":   "int",
	"sync.stale_factor":    "int",
	"sync.reconnect_delay": "int",
	"sync.queue_interval":  "int",
	"sync.disable_push":    "bool",
	"tail.emoji":           "bool",
	"tail.timestamp":       "bool",
	"tail.format":          "string",
	"tui.theme":            "string",
	"tui.refresh_interval": "int",
	"log.level":            "string",
	"log.file":             "string",
	"log.json":             "bool",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(cfg)
	}

	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return jberrors.WithSuggestion(
			fmt.Errorf("%w: %s", jberrors.ErrConfigNotFound, configPath),
			"Run 'jukebox config init' first",
		)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	defaultCfg := config.Default()

	if wizard.IsTerminal() && !JSONOutput() {
		baseURL := defaultCfg.Server.BaseURL
		err := huh.NewInput().
			Title("Jukebox server address").
			Description("The base URL of your jukebox server").
			Value(&baseURL).
			Validate(func(s string) error {
				c := config.Default()
				c.Server.BaseURL = strings.TrimSpace(s)
				return c.Server.Validate()
			}).
			Run()
		if err != nil {
			return fmt.Errorf("setup cancelled: %w", err)
		}
		defaultCfg.Server.BaseURL = strings.TrimSpace(baseURL)
	}

	if err := writeConfigFile(configPath, defaultCfg); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	fmt.Printf("Created config file: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Check server.base_url, or set JUKEBOX_SERVER_BASE_URL")
	fmt.Println("  2. Run 'jukebox status' to see what is playing")
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	configPath := getConfigPath()

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return jberrors.WithSuggestion(
			fmt.Errorf("%w: %s", jberrors.ErrConfigNotFound, configPath),
			"Run 'jukebox config init' first",
		)
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	rawConfig := map[string]any{}
	if _, err := toml.Decode(string(data), &rawConfig); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if err := setConfigValue(rawConfig, key, value); err != nil {
		return err
	}

	if err := writeConfigFile(configPath, rawConfig); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

// setConfigValue stores value under a "section.field" key in a raw TOML
// document, typed according to configKeys.
func setConfigValue(raw map[string]any, key, value string) error {
	kind, ok := configKeys[key]
	if !ok {
		return jberrors.WithSuggestion(
			fmt.Errorf("unknown config key: %s", key),
			"Run 'jukebox config set --help' for the list of keys",
		)
	}

	section, field, _ := strings.Cut(key, ".")

	var typed any
	switch kind {
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("value must be an integer for %s", key)
		}
		typed = n
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			switch strings.ToLower(value) {
			case "yes", "on":
				b = true
			case "no", "off":
				b = false
			default:
				return fmt.Errorf("value must be true or false for %s", key)
			}
		}
		typed = b
	default:
		typed = value
	}

	sectionMap, ok := raw[section].(map[string]any)
	if !ok {
		sectionMap = map[string]any{}
		raw[section] = sectionMap
	}
	sectionMap[field] = typed
	return nil
}

func writeConfigFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := encodeConfig(f, v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func encodeConfig(w io.Writer, v any) error {
	_, _ = fmt.Fprintln(w, "# Jukebox Configuration")
	_, _ = fmt.Fprintln(w, "")

	encoder := toml.NewEncoder(w)
	encoder.Indent = "  "
	return encoder.Encode(v)
}

func runConfigTheme(cmd *cobra.Command, args []string) error {
	if !wizard.IsTerminal() {
		return jberrors.WithSuggestion(
			fmt.Errorf("theme picker needs a terminal"),
			"Use 'jukebox config set tui.theme dark' instead",
		)
	}

	theme := cfg.TUI.Theme
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select dashboard theme").
				Description("auto follows the terminal background").
				Options(
					huh.NewOption("Auto", "auto"),
					huh.NewOption("Dark (Mocha)", "dark"),
					huh.NewOption("Light (Latte)", "light"),
				).
				Value(&theme),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("selection cancelled: %w", err)
	}

	return runConfigSet(cmd, []string{"tui.theme", theme})
}

