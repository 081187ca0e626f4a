package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/tessro/jukebox/internal/progress"
	"github.com/tessro/jukebox/internal/tui"
	"github.com/tessro/jukebox/internal/tui/styles"
)

var tuiRefresh int

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard provides a live view with:
  • Now Playing - current song, progress, connection
  • Queue - upcoming songs
  • Stations - internet radio
  • History - recently played songs

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  Space        Pause/Resume
  n            Next song
  s            Stop
  x            Empty queue
  r            Resync
  c            Copy song MRL
  Enter        Play selected station
  Backspace    Stop radio
  Tab          Switch panel`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&tuiRefresh, "refresh", 0, "refresh interval in milliseconds (default from config)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Log lines would corrupt the alt screen.
	if err := setupLogging(io.Discard); err != nil {
		return err
	}

	styles.Apply(cfg.TUI.Theme)

	client, player, err := newPlayer()
	if err != nil {
		return err
	}

	session, err := newSession(client)
	if err != nil {
		return err
	}
	if err := session.Start(cmd.Context()); err != nil {
		return fmt.Errorf("start live sync: %w", err)
	}
	defer session.Stop()

	refreshRate := cfg.TUI.RefreshDuration()
	if tuiRefresh > 0 {
		refreshRate = time.Duration(tuiRefresh) * time.Millisecond
	}

	return tui.Run(tui.NewApp(player, session, progress.New(nil), refreshRate))
}
