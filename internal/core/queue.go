package core

import "github.com/samber/lo"

// QueueEntry is one song in the server's play queue.
type QueueEntry struct {
	MRL        string `json:"mrl"`
	Name       string `json:"name"`
	ArtistName string `json:"artist"`
	AlbumName  string `json:"album"`
}

// Queue represents the server's play queue, including already played entries.
type Queue struct {
	Entries []QueueEntry `json:"entries"`
}

// IndexOf returns the position of the first entry with the given MRL, or -1.
func (q *Queue) IndexOf(mrl string) int {
	if q == nil || mrl == "" {
		return -1
	}
	_, idx, ok := lo.FindIndexOf(q.Entries, func(e QueueEntry) bool {
		return e.MRL == mrl
	})
	if !ok {
		return -1
	}
	return idx
}

// Upcoming returns the entries strictly after the current song. If there is
// no current song or it is not in the queue, the whole queue is returned.
func (q *Queue) Upcoming(current *Song) []QueueEntry {
	if q == nil || len(q.Entries) == 0 {
		return nil
	}
	if current == nil {
		return q.Entries
	}
	idx := q.IndexOf(current.MRL)
	if idx == -1 {
		return q.Entries
	}
	return q.Entries[idx+1:]
}

// Len returns the total number of entries in the queue.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Entries)
}

// IsEmpty returns true if the queue has no entries.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}
