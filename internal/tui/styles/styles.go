package styles

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Colors, taken from the active catppuccin flavor.
var (
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	Border    lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	TextDim   lipgloss.Color
)

// Text styles
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	ErrorText lipgloss.Style
)

// Border styles
var (
	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style
)

func init() {
	Apply("dark")
}

// Flavor returns the catppuccin flavor for a theme name. "auto" picks by
// terminal background.
func Flavor(theme string) catppuccin.Flavor {
	switch theme {
	case "light":
		return catppuccin.Latte
	case "dark":
		return catppuccin.Mocha
	default:
		if lipgloss.HasDarkBackground() {
			return catppuccin.Mocha
		}
		return catppuccin.Latte
	}
}

// Apply rebuilds every style from the given theme ("auto", "dark", "light").
func Apply(theme string) {
	f := Flavor(theme)
	c := func(col catppuccin.Color) lipgloss.Color { return lipgloss.Color(col.Hex) }

	Primary = c(f.Mauve())
	Secondary = c(f.Teal())
	Accent = c(f.Peach())

	Success = c(f.Green())
	Warning = c(f.Yellow())
	Error = c(f.Red())
	Info = c(f.Blue())

	Border = c(f.Surface2())
	Text = c(f.Text())
	TextMuted = c(f.Subtext0())
	TextDim = c(f.Overlay1())

	Title = lipgloss.NewStyle().Bold(true).Foreground(Text)
	Subtitle = lipgloss.NewStyle().Foreground(TextMuted)
	Label = lipgloss.NewStyle().Foreground(TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	Dim = lipgloss.NewStyle().Foreground(TextDim)
	Playing = lipgloss.NewStyle().Foreground(Success)
	Paused = lipgloss.NewStyle().Foreground(Warning)
	ErrorText = lipgloss.NewStyle().Foreground(Error)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)
}

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar creates a progress bar string
func ProgressBar(percent float64, width int) string {
	if width < 0 {
		width = 0
	}
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// StatusIcon returns an icon for the play state.
func StatusIcon(playing, paused bool) string {
	switch {
	case playing:
		return Playing.Render("▶")
	case paused:
		return Paused.Render("⏸")
	default:
		return Dim.Render("⏹")
	}
}

// ConnectionBadge renders the live-sync health indicator.
func ConnectionBadge(state, label string) string {
	style := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	switch state {
	case "connected":
		style = style.Foreground(Success)
	case "fallback":
		style = style.Foreground(Warning)
	case "reconnecting":
		style = style.Foreground(Accent)
	default:
		style = style.Foreground(Info)
	}
	return style.Render("● " + label)
}
