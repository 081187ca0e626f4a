package cli

import (
	"fmt"
	"io"
	"os"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tessro/jukebox/internal/config"
	jberrors "github.com/tessro/jukebox/internal/errors"
	"github.com/tessro/jukebox/internal/jukebox"
	"github.com/tessro/jukebox/internal/livesync"
	"github.com/tessro/jukebox/internal/logging"
	"github.com/tessro/jukebox/internal/media"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg      *config.Config
	log      logrus.FieldLogger = logging.Discard()
	closeLog                    = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "jukebox",
	Short: "Control a jukebox media server from the command line",
	Long: `Jukebox is a terminal client for a jukebox media server: see what is
playing, follow it live, manage the queue, and tune internet radio.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		if err := initConfig(); err != nil {
			return err
		}
		return setupLogging(os.Stderr)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.jukeboxrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return jberrors.WithSuggestion(
			fmt.Errorf("invalid config: %w", err),
			"Fix the values above with 'jukebox config set' or 'jukebox config edit'",
		)
	}

	return nil
}

// setupLogging (re)builds the logger. Without a log file, output goes to
// fallback and is limited to warnings unless --verbose is set.
func setupLogging(fallback io.Writer) error {
	_ = closeLog()

	logger, closeFn, err := logging.New(cfg.Log, fallback)
	if err != nil {
		return err
	}
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else if cfg.Log.File == "" && logger.GetLevel() > logrus.WarnLevel {
		logger.SetLevel(logrus.WarnLevel)
	}

	log = logger
	closeLog = closeFn
	return nil
}

// newClient returns an HTTP client for the configured server.
func newClient() (*jukebox.Client, error) {
	return jukebox.New(cfg.Server.BaseURL,
		jukebox.WithTimeout(cfg.Server.TimeoutDuration()),
		jukebox.WithLogger(log),
	)
}

// newPlayer returns a player for the configured server.
func newPlayer() (*jukebox.Client, *media.Player, error) {
	client, err := newClient()
	if err != nil {
		return nil, nil, err
	}
	return client, media.NewPlayer(client, log), nil
}

// pushURL resolves the push channel endpoint: the explicit override first,
// else derived from the base URL. Empty means push is disabled.
func pushURL(client *jukebox.Client) (string, error) {
	if cfg.Sync.DisablePush {
		return "", nil
	}
	if cfg.Server.PushURL != "" {
		return cfg.Server.PushURL, nil
	}
	return client.PushURL(cfg.Server.PushPath)
}

// newSession builds a live sync session against client. The caller starts
// and stops it.
func newSession(client *jukebox.Client) (*livesync.Session, error) {
	push, err := pushURL(client)
	if err != nil {
		return nil, err
	}

	return livesync.New(client, &livesync.WebsocketDialer{}, livesync.Options{
		PushURL:        push,
		PollInterval:   cfg.Sync.PollDuration(),
		StaleFactor:    cfg.Sync.StaleFactor,
		ReconnectDelay: cfg.Sync.ReconnectDuration(),
		QueueInterval:  cfg.Sync.QueueDuration(),
		Logger:         log,
	}), nil
}

// Execute runs the root command.
func Execute() {
	cc.Init(&cc.Config{
		RootCmd:       rootCmd,
		Headings:      cc.HiCyan + cc.Bold + cc.Underline,
		Commands:      cc.HiYellow + cc.Bold,
		Example:       cc.Italic,
		ExecName:      cc.Bold,
		Flags:         cc.Bold,
		FlagsDataType: cc.Italic + cc.HiBlue,
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, jberrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
