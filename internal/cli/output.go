package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"
)

// Table provides a simple table formatter.
type Table struct {
	w       *tabwriter.Writer
	headers []string
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return NewTableWriter(os.Stdout, headers...)
}

// NewTableWriter creates a table writing to a specific writer.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	t := &Table{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		headers: headers,
	}
	if len(headers) > 0 {
		_, _ = t.w.Write([]byte(strings.Join(headers, "\t") + "\n"))
	}
	return t
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

// Flush writes the table output.
func (t *Table) Flush() {
	_ = t.w.Flush()
}

// printJSON writes v to stdout as JSON.
func printJSON(v any) error {
	return writeJSON(os.Stdout, v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// StatusIcon returns an icon for the given boolean status.
func StatusIcon(active bool) string {
	if active {
		return "●"
	}
	return "○"
}

// TruncateString truncates a string to maxLen display cells, adding "..."
// if truncated.
func TruncateString(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}

// FormatDuration formats seconds as m:ss or h:mm:ss.
func FormatDuration(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatProgress formats a progress bar for a percentage.
func FormatProgress(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}
