package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tessro/jukebox/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailStyle     string
)

var tailCmd = &cobra.Command{
	Use:     "tail",
	Aliases: []string{"follow"},
	Short:   "Follow playback changes in real-time",
	Long: `Watch the server's now-playing feed and print changes as they happen.

Events tracked:
  - Song changes (new song started)
  - Song completions (song finished)
  - Song skips (song changed before completion)
  - Pause/Resume/Stop
  - Live sync connection changes

Styles: compact, verbose, json. A --format template overrides the style and
may use {{.Title}}, {{.Artist}}, {{.Album}}, {{.MRL}}, {{.Type}}, {{.Position}}
and {{.Duration}}.`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	tailCmd.Flags().StringVar(&tailStyle, "style", "", "output style (compact, verbose, json)")

	rootCmd.AddCommand(tailCmd)
}

// tailFormatter combines the tail config section with any flags set on the
// command line.
func tailFormatter(cmd *cobra.Command) *tail.Formatter {
	emoji := cfg.Tail.Emoji
	if cmd.Flags().Changed("no-emoji") {
		emoji = !tailNoEmoji
	}
	timestamp := cfg.Tail.Timestamp
	if cmd.Flags().Changed("timestamp") {
		timestamp = tailTimestamp
	}
	style := cfg.Tail.Format
	if cmd.Flags().Changed("style") {
		style = tailStyle
	}
	if JSONOutput() {
		style = "json"
	}

	return tail.NewFormatter(
		tail.WithEmoji(emoji),
		tail.WithTimestamp(timestamp),
		tail.WithStyle(style),
		tail.WithTemplate(tailFormat),
	)
}

func runTail(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	session, err := newSession(client)
	if err != nil {
		return err
	}

	formatter := tailFormatter(cmd)

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.Start(ctx); err != nil {
		return fmt.Errorf("start live sync: %w", err)
	}
	defer session.Stop()

	watcher := tail.NewWatcher(session)

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	for event := range watcher.Events() {
		fmt.Println(formatter.Format(event))
	}

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
