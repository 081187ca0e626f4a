package wizard

import (
	"os"

	"github.com/tessro/jukebox/internal/core"
	"golang.org/x/term"
)

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled  bool
	stations []core.Station
	current  *core.Song
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled: true,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// SetStations sets the stations offered by the station picker.
func (i *Interactive) SetStations(stations []core.Station, current *core.Song) {
	i.stations = stations
	i.current = current
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the width of stdout, or fallback when it is not a
// terminal.
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptStation launches the station picker if interactive mode is available.
// Returns the selected station, or nil if cancelled or not interactive.
func (i *Interactive) PromptStation() (*core.Station, error) {
	if !i.CanInteract() || len(i.stations) == 0 {
		return nil, nil
	}
	return RunStationPicker(i.stations, i.current)
}

// PromptItem launches a filter picker if interactive mode is available.
// Returns the selected item, or nil if cancelled or not interactive.
func (i *Interactive) PromptItem(title string, items []Item) (*Item, error) {
	if !i.CanInteract() || len(items) == 0 {
		return nil, nil
	}
	return RunFilter(title, items)
}

// NeedsArg returns true if a positional argument is required but missing.
func NeedsArg(args []string) bool {
	return len(args) == 0
}
