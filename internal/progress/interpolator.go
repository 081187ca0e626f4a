// Package progress estimates the play position between server updates.
package progress

import (
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/tessro/jukebox/internal/core"
)

// anchor is the last server-reported position and when it was received.
type anchor struct {
	current  float64
	duration float64
	playing  bool
	at       time.Time
}

// Interpolator extrapolates the play position from the last authoritative
// snapshot. Every Apply overwrites the anchor, so the server always wins,
// even when it reports a position earlier than the local estimate.
type Interpolator struct {
	mu     sync.Mutex
	clock  clock.Clock
	anchor *anchor
}

// New creates an interpolator. A nil clock uses the wall clock.
func New(clk clock.Clock) *Interpolator {
	if clk == nil {
		clk = clock.New()
	}
	return &Interpolator{clock: clk}
}

// Apply anchors the estimate to snap. A snapshot without progress clears it.
func (i *Interpolator) Apply(snap core.Snapshot) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if snap.Progress == nil || snap.Progress.DurationSeconds <= 0 {
		i.anchor = nil
		return
	}

	i.anchor = &anchor{
		current:  snap.Progress.CurrentSeconds,
		duration: snap.Progress.DurationSeconds,
		playing:  snap.Song.IsPlaying(),
		at:       i.clock.Now(),
	}
}

// Position returns the estimated position in seconds, never beyond the
// duration. Position only advances while the anchored song is playing.
func (i *Interpolator) Position() float64 {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.anchor == nil {
		return 0
	}

	pos := i.anchor.current
	if i.anchor.playing {
		pos += i.clock.Since(i.anchor.at).Seconds()
	}
	return math.Min(math.Max(pos, 0), i.anchor.duration)
}

// Duration returns the anchored duration, or zero when nothing is anchored.
func (i *Interpolator) Duration() float64 {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.anchor == nil {
		return 0
	}
	return i.anchor.duration
}

// Progress returns the estimate as a core.Progress, or nil when nothing is
// anchored.
func (i *Interpolator) Progress() *core.Progress {
	if i.Duration() == 0 {
		return nil
	}
	return &core.Progress{
		CurrentSeconds:  i.Position(),
		DurationSeconds: i.Duration(),
	}
}

// Percent returns the estimated progress as a percentage (0-100).
func (i *Interpolator) Percent() float64 {
	return i.Progress().Percent()
}

// Remaining returns the estimated time left in the song.
func (i *Interpolator) Remaining() time.Duration {
	p := i.Progress()
	if p == nil {
		return 0
	}
	return time.Duration((p.DurationSeconds - p.CurrentSeconds) * float64(time.Second))
}
