package tail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// Style selects the built-in line layout.
type Style string

const (
	StyleCompact Style = "compact"
	StyleVerbose Style = "verbose"
	StyleJSON    Style = "json"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	style         Style
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithStyle selects compact, verbose, or json output.
func WithStyle(style string) FormatterOption {
	return func(f *Formatter) {
		switch Style(style) {
		case StyleCompact, StyleVerbose, StyleJSON:
			f.style = Style(style)
		}
	}
}

// WithTemplate sets a custom format template.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
		style:         StyleCompact,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	if f.style == StyleJSON {
		return f.formatJSON(e)
	}
	return f.formatLine(e)
}

// formatLine formats an event as a simple line.
func (f *Formatter) formatLine(e Event) string {
	var parts []string

	// Timestamp
	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}

	// Emoji
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}

	// Event description
	parts = append(parts, f.eventDescription(e))

	if f.style == StyleVerbose {
		if detail := verboseDetail(e); detail != "" {
			parts = append(parts, detail)
		}
	}

	return strings.Join(parts, " ")
}

// formatTemplate formats an event using a custom template.
func (f *Formatter) formatTemplate(e Event) string {
	var buf bytes.Buffer
	if err := f.template.Execute(&buf, newTemplateData(e)); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

func (f *Formatter) formatJSON(e Event) string {
	data, err := json.Marshal(newTemplateData(e))
	if err != nil {
		return f.formatLine(e)
	}
	return string(data)
}

type templateData struct {
	Type       string    `json:"type"`
	Emoji      string    `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
	Time       string    `json:"-"`
	Title      string    `json:"title,omitempty"`
	Artist     string    `json:"artist,omitempty"`
	Album      string    `json:"album,omitempty"`
	MRL        string    `json:"mrl,omitempty"`
	PlayState  string    `json:"play_state,omitempty"`
	Connection string    `json:"connection"`
	Position   float64   `json:"position,omitempty"`
	Duration   float64   `json:"duration,omitempty"`
}

func newTemplateData(e Event) templateData {
	data := templateData{
		Type:       eventTypeName(e.Type),
		Emoji:      eventEmoji(e.Type),
		Timestamp:  e.Timestamp,
		Time:       e.Timestamp.Format("15:04:05"),
		Connection: string(e.State),
	}

	snap := e.Current
	if !snap.HasSong() {
		snap = e.Previous
	}
	if s := snap.Song; s != nil {
		data.Title = s.Name
		data.Artist = s.ArtistName
		data.Album = s.AlbumName
		data.MRL = s.MRL
		data.PlayState = string(s.PlayState)
	}
	if p := snap.Progress; p != nil {
		data.Position = p.CurrentSeconds
		data.Duration = p.DurationSeconds
	}
	return data
}

// eventDescription returns a human-readable description of the event.
func (f *Formatter) eventDescription(e Event) string {
	switch e.Type {
	case EventTrackChange:
		if s := e.Current.Song; s != nil {
			return fmt.Sprintf("Now playing: %s - %s", s.ArtistName, s.Name)
		}
		return "Track changed"

	case EventTrackComplete:
		if s := e.Previous.Song; s != nil {
			return fmt.Sprintf("Finished: %s - %s", s.ArtistName, s.Name)
		}
		return "Track completed"

	case EventTrackSkip:
		if s := e.Previous.Song; s != nil {
			return fmt.Sprintf("Skipped: %s - %s", s.ArtistName, s.Name)
		}
		return "Track skipped"

	case EventPause:
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventStop:
		return "Stopped"

	case EventConnection:
		return fmt.Sprintf("Connection: %s", e.State.Label())

	default:
		return "Unknown event"
	}
}

// verboseDetail adds album, position, and play time to a line.
func verboseDetail(e Event) string {
	switch e.Type {
	case EventTrackChange:
		s := e.Current.Song
		if s == nil {
			return ""
		}
		detail := "(" + s.AlbumName
		if p := e.Current.Progress; p != nil {
			detail += ", " + FormatClock(p.CurrentSeconds) + "/" + FormatClock(p.DurationSeconds)
		}
		return detail + ")"

	case EventTrackComplete, EventTrackSkip:
		if e.Played <= 0 {
			return ""
		}
		played := humanize.RelTime(e.Timestamp.Add(-e.Played), e.Timestamp, "", "")
		return "(played " + strings.TrimSpace(played) + ")"

	default:
		return ""
	}
}

// FormatClock renders seconds as M:SS or H:MM:SS.
func FormatClock(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}

	total := int(math.Floor(seconds))
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventTrackChange:
		return "🎵"
	case EventTrackComplete:
		return "✅"
	case EventTrackSkip:
		return "⏭️"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventStop:
		return "⏹️"
	case EventConnection:
		return "📡"
	default:
		return "❓"
	}
}

// eventTypeName returns the name of the event type.
func eventTypeName(t EventType) string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventTrackComplete:
		return "track_complete"
	case EventTrackSkip:
		return "track_skip"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventStop:
		return "stop"
	case EventConnection:
		return "connection"
	default:
		return "unknown"
	}
}
