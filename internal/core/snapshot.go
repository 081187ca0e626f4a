package core

import "strings"

// Progress is the play position within the current song, in seconds.
// CurrentSeconds never exceeds DurationSeconds.
type Progress struct {
	CurrentSeconds  float64 `json:"current_seconds"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Percent returns playback progress as a percentage (0-100).
func (p *Progress) Percent() float64 {
	if p == nil || p.DurationSeconds <= 0 {
		return 0
	}
	pct := p.CurrentSeconds / p.DurationSeconds * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// Snapshot is one atomic reading of the server's now-playing state.
// Progress is nil whenever Song is nil.
type Snapshot struct {
	Song     *Song     `json:"song"`
	Progress *Progress `json:"progress"`
}

// HasSong returns true if the snapshot carries a current song.
func (s Snapshot) HasSong() bool {
	return s.Song != nil
}

// IsEmpty returns true if the snapshot has neither song nor progress.
func (s Snapshot) IsEmpty() bool {
	return s.Song == nil && s.Progress == nil
}

// SameSong returns true if both snapshots refer to the same MRL.
func (s Snapshot) SameSong(other Snapshot) bool {
	if s.Song == nil || other.Song == nil {
		return s.Song == nil && other.Song == nil
	}
	return s.Song.MRL == other.Song.MRL
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
