package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/livesync"
	"github.com/tessro/jukebox/internal/progress"
)

type fakePlayer struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (p *fakePlayer) record(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, name)
	return p.err
}

func (p *fakePlayer) Pause(ctx context.Context) error      { return p.record("pause") }
func (p *fakePlayer) Resume(ctx context.Context) error     { return p.record("resume") }
func (p *fakePlayer) Stop(ctx context.Context) error       { return p.record("stop") }
func (p *fakePlayer) Next(ctx context.Context) error       { return p.record("next") }
func (p *fakePlayer) EmptyQueue(ctx context.Context) error { return p.record("empty") }
func (p *fakePlayer) StopStation(ctx context.Context) error {
	return p.record("stop-station")
}
func (p *fakePlayer) PlaySong(ctx context.Context, mrl string) error {
	return p.record("play:" + mrl)
}
func (p *fakePlayer) AddToQueue(ctx context.Context, mrl string) error {
	return p.record("add:" + mrl)
}
func (p *fakePlayer) PlayStation(ctx context.Context, mrl string) error {
	return p.record("station:" + mrl)
}
func (p *fakePlayer) NowPlaying(ctx context.Context) (core.Snapshot, error) {
	return core.Snapshot{}, nil
}
func (p *fakePlayer) GetQueue(ctx context.Context) (*core.Queue, error) {
	return &core.Queue{}, nil
}
func (p *fakePlayer) Stations(ctx context.Context) ([]core.Station, error) {
	return []core.Station{{MRL: "http://radio/jazz", Name: "Jazz"}}, nil
}

type fakeSession struct {
	resyncs int
}

func (s *fakeSession) Subscribe() (<-chan livesync.Update, func()) {
	return make(chan livesync.Update), func() {}
}

func (s *fakeSession) Resync() { s.resyncs++ }

func newTestModel(t *testing.T) (Model, *fakePlayer, *fakeSession, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	player := &fakePlayer{}
	session := &fakeSession{}
	app := NewApp(player, session, progress.New(mock), time.Second)
	return NewModel(app, nil), player, session, mock
}

func playing(mrl string, current, duration float64) core.Snapshot {
	return core.Snapshot{
		Song:     &core.Song{MRL: mrl, Name: mrl, ArtistName: "Artist", PlayState: core.PlayStatePlaying},
		Progress: &core.Progress{CurrentSeconds: current, DurationSeconds: duration},
	}
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return send(m, cmd())
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestUpdateAnchorsOnlyOnNewReadings(t *testing.T) {
	m, _, _, mock := newTestModel(t)

	m = send(m, updateMsg{Snapshot: playing("a", 10, 200), State: core.StateConnected, Reading: 1})
	mock.Add(5 * time.Second)

	// A queue refresh republishes the same reading.
	m = send(m, updateMsg{Snapshot: playing("a", 10, 200), Queue: &core.Queue{}, State: core.StateConnected, Reading: 1})
	if got := m.app.interp.Position(); got != 15 {
		t.Errorf("Position() after queue update = %v, want 15", got)
	}

	m = send(m, updateMsg{Snapshot: playing("a", 12, 200), State: core.StateConnected, Reading: 2})
	if got := m.app.interp.Position(); got != 12 {
		t.Errorf("Position() after new reading = %v, want 12 (server wins)", got)
	}
}

func TestHistoryTracksSongChanges(t *testing.T) {
	m, _, _, _ := newTestModel(t)

	m = send(m, updateMsg{Snapshot: playing("a", 10, 200), Reading: 1})
	m = send(m, updateMsg{Snapshot: playing("a", 20, 200), Reading: 2})
	if len(m.history) != 1 {
		t.Fatalf("history len = %d, want 1", len(m.history))
	}

	m = send(m, updateMsg{Snapshot: playing("b", 0, 100), Reading: 3})
	if len(m.history) != 2 {
		t.Fatalf("history len = %d, want 2", len(m.history))
	}
	if m.history[0].Song.MRL != "b" {
		t.Errorf("newest history entry = %q, want b", m.history[0].Song.MRL)
	}
	if !m.history[1].Skipped {
		t.Error("song left at 10% was not marked skipped")
	}

	m = send(m, updateMsg{Snapshot: playing("b", 99, 100), Reading: 4})
	m = send(m, updateMsg{Snapshot: playing("c", 0, 100), Reading: 5})
	if m.history[1].Skipped {
		t.Error("song that reached the end was marked skipped")
	}
}

func TestSpaceTogglesPause(t *testing.T) {
	m, player, session, _ := newTestModel(t)
	m = send(m, updateMsg{Snapshot: playing("a", 10, 200), Reading: 1})

	_, cmd := m.Update(key(" "))
	m = run(t, m, cmd)

	if len(player.calls) != 1 || player.calls[0] != "pause" {
		t.Fatalf("calls = %v, want [pause]", player.calls)
	}
	if session.resyncs != 1 {
		t.Errorf("resyncs = %d, want 1", session.resyncs)
	}
	if m.notice != "Paused" {
		t.Errorf("notice = %q, want Paused", m.notice)
	}

	paused := playing("a", 10, 200)
	paused.Song.PlayState = core.PlayStatePaused
	m = send(m, updateMsg{Snapshot: paused, Reading: 2})

	_, cmd = m.Update(key(" "))
	run(t, m, cmd)
	if player.calls[1] != "resume" {
		t.Errorf("calls = %v, want resume second", player.calls)
	}
}

func TestActionErrorShowsBannerThenExpires(t *testing.T) {
	m, player, session, _ := newTestModel(t)
	player.err = errors.New("no compatible media endpoint found")

	_, cmd := m.Update(key("n"))
	m = run(t, m, cmd)

	if m.lastError == nil {
		t.Fatal("error banner not shown")
	}
	if session.resyncs != 0 {
		t.Error("failed action triggered a resync")
	}

	m = send(m, tickMsg(m.now.Add(time.Second)))
	if m.lastError == nil {
		t.Error("error cleared too early")
	}
	m = send(m, tickMsg(m.now.Add(errorDisplay)))
	if m.lastError != nil {
		t.Error("error not cleared after expiry")
	}
}

func TestCopyMRL(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	var copied string
	m.app.copy = func(s string) error {
		copied = s
		return nil
	}

	_, cmd := m.Update(key("c"))
	if cmd != nil {
		t.Fatal("copy with nothing playing should do nothing")
	}

	m = send(m, updateMsg{Snapshot: playing("file:///music/a.mp3", 0, 100), Reading: 1})
	_, cmd = m.Update(key("c"))
	run(t, m, cmd)

	if copied != "file:///music/a.mp3" {
		t.Errorf("copied %q", copied)
	}
}

func TestPlayStationFromPanel(t *testing.T) {
	m, player, _, _ := newTestModel(t)
	m = run(t, m, m.fetchStations())
	m.focusedPanel = PanelStations

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(t, m, cmd)

	if len(player.calls) != 1 || player.calls[0] != "station:http://radio/jazz" {
		t.Errorf("calls = %v", player.calls)
	}
}

func TestTabCyclesPanels(t *testing.T) {
	m, _, _, _ := newTestModel(t)

	for i := 0; i < panelCount; i++ {
		m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.focusedPanel != PanelNowPlaying {
		t.Errorf("focusedPanel = %v after a full cycle", m.focusedPanel)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focusedPanel != PanelHistory {
		t.Errorf("shift+tab focusedPanel = %v, want history", m.focusedPanel)
	}
}

func TestSessionClosedQuits(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	m = send(m, sessionClosedMsg{})
	if !m.quitting {
		t.Error("model did not quit when the session closed")
	}
}

func TestStatusBarKeepsLongErrorsOnOneLine(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	m.width = 30
	m.lastError = errors.New(strings.Repeat("connection refused ", 10))

	bar := m.renderStatusBar()
	if strings.Contains(bar, "\n") {
		t.Errorf("status bar wrapped:\n%s", bar)
	}
	if !strings.Contains(bar, "…") {
		t.Errorf("long error not truncated: %q", bar)
	}
}
