package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tessro/jukebox/internal/core"
)

// controlCommand describes a playback command that maps to one player call.
type controlCommand struct {
	use     string
	aliases []string
	short   string
	status  string
	message string
	run     func(p core.Player, ctx context.Context) error
}

var controlCommands = []controlCommand{
	{
		use:     "pause",
		short:   "Pause playback",
		status:  "paused",
		message: "⏸ Paused",
		run:     func(p core.Player, ctx context.Context) error { return p.Pause(ctx) },
	},
	{
		use:     "resume",
		short:   "Resume playback",
		status:  "resumed",
		message: "▶ Resumed",
		run:     func(p core.Player, ctx context.Context) error { return p.Resume(ctx) },
	},
	{
		use:     "stop",
		short:   "Stop playback",
		status:  "stopped",
		message: "⏹ Stopped",
		run:     func(p core.Player, ctx context.Context) error { return p.Stop(ctx) },
	},
	{
		use:     "next",
		aliases: []string{"skip"},
		short:   "Skip to the next song",
		status:  "skipped",
		message: "⏭ Skipped",
		run:     func(p core.Player, ctx context.Context) error { return p.Next(ctx) },
	},
	{
		use:     "empty",
		aliases: []string{"clear"},
		short:   "Empty the play queue",
		status:  "emptied",
		message: "🗑 Queue emptied",
		run:     func(p core.Player, ctx context.Context) error { return p.EmptyQueue(ctx) },
	},
}

func init() {
	for _, c := range controlCommands {
		rootCmd.AddCommand(newControlCmd(c))
	}
}

func newControlCmd(c controlCommand) *cobra.Command {
	return &cobra.Command{
		Use:     c.use,
		Aliases: c.aliases,
		Short:   c.short,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := newPlayer()
			if err != nil {
				return err
			}

			if err := c.run(p, cmd.Context()); err != nil {
				return fmt.Errorf("failed to %s: %w", c.use, err)
			}

			if JSONOutput() {
				return printJSON(map[string]string{"status": c.status})
			}
			fmt.Println(c.message)
			return nil
		},
	}
}
