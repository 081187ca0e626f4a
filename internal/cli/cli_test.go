package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tessro/jukebox/internal/config"
	"github.com/tessro/jukebox/internal/core"
	jberrors "github.com/tessro/jukebox/internal/errors"
	"github.com/tessro/jukebox/internal/jukebox"
)

type fakeStatusSource struct {
	snap        core.Snapshot
	snapErr     error
	queue       *core.Queue
	queueErr    error
	stations    []core.Station
	stationsErr error
	stationHits int
}

func (f *fakeStatusSource) NowPlaying(ctx context.Context) (core.Snapshot, error) {
	return f.snap, f.snapErr
}

func (f *fakeStatusSource) Queue(ctx context.Context) (*core.Queue, error) {
	return f.queue, f.queueErr
}

func (f *fakeStatusSource) Stations(ctx context.Context) ([]core.Station, error) {
	f.stationHits++
	return f.stations, f.stationsErr
}

func radioSong() *core.Song {
	return &core.Song{
		MRL:        "http://streams.example/jazz%20fm",
		Name:       "Live set",
		ArtistName: "Internet Radio",
		PlayState:  core.PlayStatePlaying,
	}
}

func TestFetchStatus(t *testing.T) {
	song := &core.Song{MRL: "file:///a.mp3", Name: "A", ArtistName: "X", AlbumName: "Y", PlayState: core.PlayStatePlaying}
	queue := &core.Queue{Entries: []core.QueueEntry{{MRL: "file:///a.mp3"}, {MRL: "file:///b.mp3"}}}

	tests := []struct {
		name         string
		src          *fakeStatusSource
		wantErr      bool
		wantPartial  int
		wantStation  string
		wantStations int
	}{
		{
			name:    "now playing failure is fatal",
			src:     &fakeStatusSource{snapErr: errors.New("boom")},
			wantErr: true,
		},
		{
			name:        "queue failure is partial",
			src:         &fakeStatusSource{snap: core.Snapshot{Song: song}, queueErr: errors.New("down")},
			wantPartial: 1,
		},
		{
			name: "local song skips station lookup",
			src:  &fakeStatusSource{snap: core.Snapshot{Song: song}, queue: queue},
		},
		{
			name: "radio song resolves station",
			src: &fakeStatusSource{
				snap:     core.Snapshot{Song: radioSong()},
				stations: []core.Station{{MRL: "http://streams.example/other", Name: "Other"}, {MRL: "http://streams.example/jazz fm", Name: "Jazz FM"}},
			},
			wantStation:  "Jazz FM",
			wantStations: 1,
		},
		{
			name:         "station failure is partial",
			src:          &fakeStatusSource{snap: core.Snapshot{Song: radioSong()}, stationsErr: errors.New("nope")},
			wantPartial:  1,
			wantStations: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := fetchStatus(context.Background(), tt.src)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result.Errors) != tt.wantPartial {
				t.Errorf("partial errors = %d, want %d (%v)", len(result.Errors), tt.wantPartial, result.Errors)
			}
			var station string
			if result.Data.Station != nil {
				station = result.Data.Station.Name
			}
			if station != tt.wantStation {
				t.Errorf("station = %q, want %q", station, tt.wantStation)
			}
			if tt.src.stationHits != tt.wantStations {
				t.Errorf("station lookups = %d, want %d", tt.src.stationHits, tt.wantStations)
			}
		})
	}
}

func TestWriteStatus(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	song := &core.Song{MRL: "file:///a.mp3", Name: "Blue", ArtistName: "Joni", AlbumName: "Blue", PlayState: core.PlayStatePlaying}

	tests := []struct {
		name string
		data statusData
		want []string
	}{
		{
			name: "nothing playing",
			data: statusData{},
			want: []string{"Nothing playing"},
		},
		{
			name: "playing with progress",
			data: statusData{
				Snapshot: core.Snapshot{Song: song, Progress: &core.Progress{CurrentSeconds: 60, DurationSeconds: 200}},
				Queue:    &core.Queue{Entries: []core.QueueEntry{{MRL: "file:///a.mp3"}, {MRL: "file:///b.mp3"}, {MRL: "file:///c.mp3"}}},
			},
			want: []string{"▶ Blue", "Joni — Blue", "1:00 / 3:20", "ends 2 minutes from now", "Up next: 2 songs"},
		},
		{
			name: "paused has no end estimate",
			data: statusData{
				Snapshot: core.Snapshot{Song: &core.Song{Name: "Blue", PlayState: core.PlayStatePaused}, Progress: &core.Progress{CurrentSeconds: 5, DurationSeconds: 10}},
			},
			want: []string{"⏸ Blue", "Up next: nothing queued"},
		},
		{
			name: "radio shows station",
			data: statusData{
				Snapshot: core.Snapshot{Song: radioSong()},
				Station:  &core.Station{Name: "Jazz FM"},
			},
			want: []string{"📻 Jazz FM", "Live set"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writeStatus(&buf, tt.data, now)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			if strings.Contains(tt.name, "paused") && strings.Contains(out, "ends") {
				t.Errorf("paused output should not estimate the end:\n%s", out)
			}
		})
	}
}

func TestStatusJSON(t *testing.T) {
	out := statusJSON(statusData{
		Snapshot: core.Snapshot{Song: radioSong(), Progress: &core.Progress{CurrentSeconds: 30, DurationSeconds: 120}},
		Station:  &core.Station{Name: "Jazz FM"},
	})
	if !out.Playing || out.Station != "Jazz FM" || out.Percent != 25 || out.Upcoming != 0 {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestQueueItems(t *testing.T) {
	q := &core.Queue{Entries: []core.QueueEntry{
		{MRL: "a", Name: "A"},
		{MRL: "b", Name: "B"},
		{MRL: "c", Name: "C"},
		{MRL: "d", Name: "D"},
	}}
	current := &core.Song{MRL: "b"}

	tests := []struct {
		name        string
		current     *core.Song
		all         bool
		limit       int
		wantTitles  string
		wantCurrent int
	}{
		{name: "upcoming only", current: current, wantTitles: "CD", wantCurrent: -1},
		{name: "all flags current", current: current, all: true, wantTitles: "ABCD", wantCurrent: 1},
		{name: "limit", current: current, all: true, limit: 2, wantTitles: "AB", wantCurrent: 1},
		{name: "no current", wantTitles: "ABCD", wantCurrent: -1},
		{name: "current not queued", current: &core.Song{MRL: "z"}, all: true, wantTitles: "ABCD", wantCurrent: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := queueItems(q, tt.current, tt.all, tt.limit)
			var titles strings.Builder
			gotCurrent := -1
			for i, it := range items {
				titles.WriteString(it.Title)
				if it.Position != i+1 {
					t.Errorf("item %d position = %d", i, it.Position)
				}
				if it.Current {
					gotCurrent = i
				}
			}
			if titles.String() != tt.wantTitles {
				t.Errorf("titles = %q, want %q", titles.String(), tt.wantTitles)
			}
			if gotCurrent != tt.wantCurrent {
				t.Errorf("current = %d, want %d", gotCurrent, tt.wantCurrent)
			}
		})
	}

	if items := queueItems(nil, current, false, 0); len(items) != 0 {
		t.Errorf("nil queue should give no items, got %v", items)
	}
}

func TestResolveStation(t *testing.T) {
	stations := []core.Station{
		{MRL: "http://streams.example/jazz fm", Name: "Jazz FM"},
		{MRL: "http://streams.example/news", Name: "News"},
	}

	tests := []struct {
		name    string
		arg     string
		wantMRL string
		wantErr error
	}{
		{name: "by name", arg: "jazz fm", wantMRL: "http://streams.example/jazz fm"},
		{name: "by encoded mrl", arg: "http://streams.example/jazz%20fm", wantMRL: "http://streams.example/jazz fm"},
		{name: "unknown url passes through", arg: "http://elsewhere/stream", wantMRL: "http://elsewhere/stream"},
		{name: "unknown name", arg: "Polka", wantErr: jberrors.ErrStationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveStation(stations, tt.arg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.MRL != tt.wantMRL {
				t.Errorf("mrl = %q, want %q", got.MRL, tt.wantMRL)
			}
		})
	}
}

func TestFindStationIgnoresLocalSongs(t *testing.T) {
	stations := []core.Station{{MRL: "file:///a.mp3", Name: "Odd"}}
	if s := findStation(stations, &core.Song{MRL: "file:///a.mp3", ArtistName: "X"}); s != nil {
		t.Errorf("expected no station for a local song, got %+v", s)
	}
	if s := findStation(stations, nil); s != nil {
		t.Errorf("expected no station for nil song, got %+v", s)
	}
}

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{key: "server.base_url", value: "http://jukebox.local", want: "http://jukebox.local"},
		{key: "sync.poll_interval", value: "5000", want: 5000},
		{key: "sync.poll_interval", value: "soon", wantErr: true},
		{key: "sync.disable_push", value: "yes", want: true},
		{key: "tail.emoji", value: "false", want: false},
		{key: "tail.emoji", value: "maybe", wantErr: true},
		{key: "defaults.device", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			raw := map[string]any{"server": map[string]any{"timeout": int64(10000)}}
			err := setConfigValue(raw, tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			section, field, _ := strings.Cut(tt.key, ".")
			got := raw[section].(map[string]any)[field]
			if got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
			if _, ok := raw["server"].(map[string]any)["timeout"]; !ok {
				t.Error("existing keys should be preserved")
			}
		})
	}
}

func TestEncodeConfigRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := encodeConfig(&buf, config.Default()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "# Jukebox Configuration") {
		t.Errorf("missing header:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "base_url") {
		t.Errorf("missing server section:\n%s", buf.String())
	}
}

func TestPushURL(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { cfg = saved })

	client, err := jukebox.New("https://jukebox.example:8443/app")
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	tests := []struct {
		name  string
		setup func(c *config.Config)
		want  string
	}{
		{
			name:  "derived from base url",
			setup: func(c *config.Config) { c.Server.PushPath = "/api/ws/current-song" },
			want:  "wss://jukebox.example:8443/api/ws/current-song",
		},
		{
			name:  "explicit override",
			setup: func(c *config.Config) { c.Server.PushURL = "ws://other:9000/push" },
			want:  "ws://other:9000/push",
		},
		{
			name: "disabled",
			setup: func(c *config.Config) {
				c.Server.PushURL = "ws://other:9000/push"
				c.Sync.DisablePush = true
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg = config.Default()
			tt.setup(cfg)
			got, err := pushURL(client)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("pushURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputHelpers(t *testing.T) {
	durations := map[float64]string{
		0:      "0:00",
		-5:     "0:00",
		65.9:   "1:05",
		3725:   "1:02:05",
		200.25: "3:20",
	}
	for in, want := range durations {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}

	if got := FormatProgress(50, 10); got != "━━━━━─────" {
		t.Errorf("FormatProgress(50) = %q", got)
	}
	if got := FormatProgress(150, 4); got != "━━━━" {
		t.Errorf("FormatProgress(150) = %q", got)
	}

	if got := TruncateString("hello world", 8); got != "hello..." {
		t.Errorf("TruncateString = %q", got)
	}
	if got := TruncateString("日本語の歌", 6); got != "日..." {
		t.Errorf("TruncateString wide = %q", got)
	}
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("TruncateString short = %q", got)
	}

	var buf bytes.Buffer
	tbl := NewTableWriter(&buf, "NAME", "MRL")
	tbl.Row("A", "file:///a.mp3")
	tbl.Flush()
	if !strings.Contains(buf.String(), "NAME") || !strings.Contains(buf.String(), "file:///a.mp3") {
		t.Errorf("table output:\n%s", buf.String())
	}
}
