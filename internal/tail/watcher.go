package tail

import (
	"context"
	"time"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/livesync"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventStop
	EventConnection
)

// Event represents a playback or connection state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  core.Snapshot
	Current   core.Snapshot
	State     core.ConnectionState
	Played    time.Duration // how long the previous song was tracked, if known
}

// Feed supplies live updates.
type Feed interface {
	Subscribe() (<-chan livesync.Update, func())
}

// Watcher turns a stream of live updates into discrete events.
type Watcher struct {
	feed   Feed
	events chan Event
	done   chan struct{}
}

// NewWatcher creates a new state watcher.
func NewWatcher(feed Feed) *Watcher {
	return &Watcher{
		feed:   feed,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start consumes updates until ctx is cancelled, Stop is called, or the feed
// closes.
func (w *Watcher) Start(ctx context.Context) error {
	updates, unsubscribe := w.feed.Subscribe()
	defer unsubscribe()
	defer close(w.events)

	var prev *livesync.Update
	var songStarted time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}

			events := diffUpdates(prev, u, songStarted)
			for _, e := range events {
				if e.Type == EventTrackChange {
					songStarted = u.At
				}
				select {
				case w.events <- e:
				default:
					// Drop event if channel is full
				}
			}

			prev = &u
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

// diffUpdates compares two updates and returns detected events.
func diffUpdates(prev *livesync.Update, curr livesync.Update, songStarted time.Time) []Event {
	at := curr.At
	if at.IsZero() {
		at = time.Now()
	}

	var events []Event

	// First update - no previous state
	if prev == nil {
		events = append(events, Event{
			Type:      EventConnection,
			Timestamp: at,
			Current:   curr.Snapshot,
			State:     curr.State,
		})
		if curr.Snapshot.HasSong() {
			events = append(events, Event{
				Type:      EventTrackChange,
				Timestamp: at,
				Current:   curr.Snapshot,
				State:     curr.State,
			})
		}
		return events
	}

	base := Event{
		Timestamp: at,
		Previous:  prev.Snapshot,
		Current:   curr.Snapshot,
		State:     curr.State,
	}

	if prev.State != curr.State {
		e := base
		e.Type = EventConnection
		events = append(events, e)
	}

	switch {
	case !curr.Snapshot.SameSong(prev.Snapshot):
		e := base
		if !songStarted.IsZero() {
			e.Played = at.Sub(songStarted)
		}

		if prev.Snapshot.HasSong() {
			e.Type = EventTrackSkip
			if wasCompleted(prev.Snapshot) {
				e.Type = EventTrackComplete
			}
			events = append(events, e)
		}

		if curr.Snapshot.HasSong() {
			e.Type = EventTrackChange
			e.Played = 0
			events = append(events, e)
		} else {
			e.Type = EventStop
			events = append(events, e)
		}

	case curr.Snapshot.HasSong():
		was, is := prev.Snapshot.Song, curr.Snapshot.Song
		switch {
		case was.IsPlaying() && is.IsPaused():
			e := base
			e.Type = EventPause
			events = append(events, e)
		case !was.IsPlaying() && is.IsPlaying():
			e := base
			e.Type = EventResume
			events = append(events, e)
		case !was.IsStopped() && is.IsStopped():
			e := base
			e.Type = EventStop
			events = append(events, e)
		}
	}

	return events
}

// wasCompleted returns true if the song likely finished naturally.
func wasCompleted(snap core.Snapshot) bool {
	if snap.Progress == nil || snap.Progress.DurationSeconds <= 0 {
		return false
	}
	// Consider completed if progress is >= 95% of duration
	return snap.Progress.Percent() >= 95
}
