package components

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/tessro/jukebox/internal/core"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"日本語のタイトル", 7, "日本..."},
	}

	for _, tt := range tests {
		got := truncate(tt.in, tt.max)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
		if runewidth.StringWidth(got) > tt.max {
			t.Errorf("truncate(%q, %d) is %d cells wide", tt.in, tt.max, runewidth.StringWidth(got))
		}
	}
}

func TestFitPair(t *testing.T) {
	title, artist := fitPair("Short", "Band", 40, 10)
	if title != "Short" || artist != "Band" {
		t.Errorf("fitPair() = %q, %q; want untouched", title, artist)
	}

	title, artist = fitPair(strings.Repeat("t", 50), strings.Repeat("a", 50), 30, 10)
	if w := runewidth.StringWidth(title) + runewidth.StringWidth(artist); w > 30 {
		t.Errorf("fitPair() total width = %d, want <= 30", w)
	}
	if runewidth.StringWidth(artist) < 10 {
		t.Errorf("artist width = %d, want >= 10", runewidth.StringWidth(artist))
	}
}

func TestMatchStation(t *testing.T) {
	stations := []core.Station{
		{MRL: "http://radio.example/jazz", Name: "Jazz FM"},
		{MRL: "http://radio.example/my%20rock", Name: "My Rock"},
	}

	tests := []struct {
		name string
		song *core.Song
		want string
	}{
		{"nil song", nil, ""},
		{"not radio", &core.Song{MRL: "http://radio.example/jazz", ArtistName: "Someone"}, ""},
		{"exact", &core.Song{MRL: "http://radio.example/jazz", ArtistName: "Internet Radio"}, "Jazz FM"},
		{"encoding differs", &core.Song{MRL: "http://radio.example/my rock", ArtistName: "internet radio"}, "My Rock"},
		{"unknown", &core.Song{MRL: "http://radio.example/pop", ArtistName: "internet radio"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ""
			if st := MatchStation(tt.song, stations); st != nil {
				got = st.Name
			}
			if got != tt.want {
				t.Errorf("MatchStation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPushCapsHistory(t *testing.T) {
	var entries []HistoryEntry
	now := time.Now()
	for i := 0; i < MaxHistory+5; i++ {
		entries = Push(entries, core.Song{MRL: "m"}, now.Add(time.Duration(i)*time.Second))
	}
	if len(entries) != MaxHistory {
		t.Fatalf("len = %d, want %d", len(entries), MaxHistory)
	}
	if !entries[0].PlayedAt.After(entries[1].PlayedAt) {
		t.Error("newest entry is not first")
	}
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "now"},
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
		{48 * time.Hour, "May 8"},
	}

	for _, tt := range tests {
		if got := formatTimeAgo(now, now.Add(-tt.ago)); got != tt.want {
			t.Errorf("formatTimeAgo(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestQueueRendersUpcomingOnly(t *testing.T) {
	queue := &core.Queue{Entries: []core.QueueEntry{
		{MRL: "a", Name: "Played", ArtistName: "X"},
		{MRL: "b", Name: "Current", ArtistName: "X"},
		{MRL: "c", Name: "Next", ArtistName: "X"},
	}}

	out := NewQueue().Render(queue, &core.Song{MRL: "b"}, 60, 12, false)
	if strings.Contains(out, "Played") || strings.Contains(out, "Current") {
		t.Errorf("queue shows entries at or before the current song:\n%s", out)
	}
	if !strings.Contains(out, "Next") {
		t.Errorf("queue is missing the upcoming entry:\n%s", out)
	}
}
