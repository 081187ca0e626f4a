package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tessro/jukebox/internal/core"
	jberrors "github.com/tessro/jukebox/internal/errors"
	"github.com/tessro/jukebox/internal/payload"
	"github.com/tessro/jukebox/internal/wizard"
)

var radioCmd = &cobra.Command{
	Use:   "radio",
	Short: "Internet radio stations",
	Long:  `List, play, and stop the internet radio stations known to the server.`,
}

var radioListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stations",
	Args:    cobra.NoArgs,
	RunE:    runRadioList,
}

var radioPlayCmd = &cobra.Command{
	Use:   "play [station]",
	Short: "Play a station",
	Long: `Play a station by name or MRL. Without an argument in a terminal,
pick one from a list.

Examples:
  jukebox radio play "Jazz FM"
  jukebox radio play http://streams.example/jazz
  jukebox radio play`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRadioPlay,
}

var radioStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the radio",
	Args:  cobra.NoArgs,
	RunE:  runRadioStop,
}

func init() {
	radioCmd.AddCommand(radioListCmd)
	radioCmd.AddCommand(radioPlayCmd)
	radioCmd.AddCommand(radioStopCmd)
	rootCmd.AddCommand(radioCmd)
}

func runRadioList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := newClient()
	if err != nil {
		return err
	}

	stations, err := client.Stations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stations: %w", err)
	}

	// Mark the station on air, if any.
	var onAir *core.Station
	if snap, err := client.NowPlaying(ctx); err == nil {
		onAir = findStation(stations, snap.Song)
	}

	if JSONOutput() {
		if stations == nil {
			stations = []core.Station{}
		}
		return printJSON(stations)
	}

	if len(stations) == 0 {
		fmt.Println("No stations")
		return nil
	}

	t := NewTable("", "NAME", "MRL")
	for _, s := range stations {
		t.Row(StatusIcon(onAir != nil && onAir.MRL == s.MRL), TruncateString(s.Name, 40), s.MRL)
	}
	t.Flush()
	return nil
}

func runRadioPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, p, err := newPlayer()
	if err != nil {
		return err
	}

	stations, err := client.Stations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stations: %w", err)
	}

	var station *core.Station
	if len(args) == 1 {
		station, err = resolveStation(stations, args[0])
		if err != nil {
			return err
		}
	} else {
		picker := wizard.NewInteractive()
		var current *core.Song
		if snap, err := client.NowPlaying(ctx); err == nil {
			current = snap.Song
		}
		picker.SetStations(stations, current)

		station, err = picker.PromptStation()
		if err != nil {
			return err
		}
		if station == nil {
			if !picker.CanInteract() {
				return jberrors.WithSuggestion(jberrors.ErrMissingMRL, "Pass a station name or MRL, e.g. jukebox radio play \"Jazz FM\"")
			}
			return nil // cancelled
		}
	}

	if err := p.PlayStation(ctx, station.MRL); err != nil {
		return fmt.Errorf("failed to play station: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "playing", "station": station.Name, "mrl": station.MRL})
	}
	fmt.Printf("📻 Tuned to %s\n", station.Name)
	return nil
}

func runRadioStop(cmd *cobra.Command, args []string) error {
	_, p, err := newPlayer()
	if err != nil {
		return err
	}

	if err := p.StopStation(cmd.Context()); err != nil {
		return fmt.Errorf("failed to stop radio: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "stopped"})
	}
	fmt.Println("⏹ Radio stopped")
	return nil
}

// resolveStation finds a station by MRL or case-insensitive name. An
// unknown argument that looks like a stream URL is played as-is.
func resolveStation(stations []core.Station, arg string) (*core.Station, error) {
	arg = strings.TrimSpace(arg)
	key := payload.CompareKey(arg)

	for i := range stations {
		if payload.CompareKey(stations[i].MRL) == key || strings.EqualFold(stations[i].Name, arg) {
			return &stations[i], nil
		}
	}

	if strings.Contains(arg, "://") {
		return &core.Station{MRL: arg, Name: arg}, nil
	}

	return nil, fmt.Errorf("%q: %w", arg, jberrors.ErrStationNotFound)
}

// findStation returns the station matching an internet radio song.
func findStation(stations []core.Station, song *core.Song) *core.Station {
	if !song.IsInternetRadio() {
		return nil
	}
	key := payload.CompareKey(song.MRL)
	for i := range stations {
		if payload.CompareKey(stations[i].MRL) == key {
			return &stations[i]
		}
	}
	return nil
}
