package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/livesync"
	"github.com/tessro/jukebox/internal/progress"
	"github.com/tessro/jukebox/internal/tui/components"
	"github.com/tessro/jukebox/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelQueue
	PanelStations
	PanelHistory
)

const panelCount = 4

const (
	errorDisplay   = 5 * time.Second
	noticeDisplay  = 2 * time.Second
	actionTimeout  = 5 * time.Second
	completedRatio = 95
)

// Session is the live now-playing feed the dashboard follows.
type Session interface {
	Subscribe() (<-chan livesync.Update, func())
	Resync()
}

// App holds the TUI application dependencies
type App struct {
	player      core.Player
	session     Session
	interp      *progress.Interpolator
	refreshRate time.Duration
	copy        func(string) error
}

// NewApp creates a new TUI application
func NewApp(player core.Player, session Session, interp *progress.Interpolator, refreshRate time.Duration) *App {
	if interp == nil {
		interp = progress.New(nil)
	}
	if refreshRate <= 0 {
		refreshRate = time.Second
	}
	return &App{
		player:      player,
		session:     session,
		interp:      interp,
		refreshRate: refreshRate,
		copy:        clipboard.WriteAll,
	}
}

// Model is the main TUI model
type Model struct {
	app          *App
	width        int
	height       int
	focusedPanel Panel
	now          time.Time

	// Live state
	updates     <-chan livesync.Update
	update      livesync.Update
	lastReading uint64
	stations    []core.Station
	history     []components.HistoryEntry

	// Components
	nowPlaying   *components.NowPlaying
	queueView    *components.Queue
	stationsView *components.Stations
	historyView  *components.History

	showHelp bool

	// Transient status line messages
	lastError    error
	errorExpiry  time.Time
	notice       string
	noticeExpiry time.Time

	quitting bool
}

// NewModel creates a new TUI model reading from updates.
func NewModel(app *App, updates <-chan livesync.Update) Model {
	return Model{
		app:          app,
		focusedPanel: PanelNowPlaying,
		now:          time.Now(),
		updates:      updates,
		update:       livesync.Update{State: core.StateConnecting},
		nowPlaying:   components.NewNowPlaying(),
		queueView:    components.NewQueue(),
		stationsView: components.NewStations(),
		historyView:  components.NewHistory(),
	}
}

// Messages
type tickMsg time.Time
type updateMsg livesync.Update
type sessionClosedMsg struct{}
type stationsMsg []core.Station
type errMsg error
type actionDoneMsg struct{ notice string }

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.app.refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForUpdate(updates <-chan livesync.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return sessionClosedMsg{}
		}
		return updateMsg(u)
	}
}

func (m Model) fetchStations() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		stations, err := m.app.player.Stations(ctx)
		if err != nil {
			return errMsg(err)
		}
		return stationsMsg(stations)
	}
}

// action runs fn against the player; success refreshes the live session.
func (m Model) action(notice string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			return errMsg(err)
		}
		return actionDoneMsg{notice: notice}
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		waitForUpdate(m.updates),
		m.fetchStations(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		m.expireMessages()
		return m, m.tick()

	case updateMsg:
		m.applyUpdate(livesync.Update(msg))
		return m, waitForUpdate(m.updates)

	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case stationsMsg:
		m.stations = msg
		return m, nil

	case errMsg:
		m.lastError = msg
		m.errorExpiry = m.now.Add(errorDisplay)
		return m, nil

	case actionDoneMsg:
		if msg.notice != "" {
			m.notice = msg.notice
			m.noticeExpiry = m.now.Add(noticeDisplay)
		}
		m.app.session.Resync()
		return m, nil
	}

	return m, nil
}

// applyUpdate folds a live update into the model. The interpolator is only
// re-anchored when the update carries a new server reading.
func (m *Model) applyUpdate(u livesync.Update) {
	prev := m.update.Snapshot
	changed := !u.Snapshot.SameSong(prev)

	if changed && prev.HasSong() && len(m.history) > 0 {
		m.history[0].Skipped = m.app.interp.Progress() != nil && m.app.interp.Percent() < completedRatio
	}

	if u.Reading != m.lastReading {
		m.app.interp.Apply(u.Snapshot)
		m.lastReading = u.Reading
	}

	if changed && u.Snapshot.HasSong() {
		at := u.At
		if at.IsZero() {
			at = m.now
		}
		m.history = components.Push(m.history, *u.Snapshot.Song, at)
	}

	m.update = u
}

func (m *Model) expireMessages() {
	if m.lastError != nil && m.now.After(m.errorExpiry) {
		m.lastError = nil
	}
	if m.notice != "" && m.now.After(m.noticeExpiry) {
		m.notice = ""
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys (always work)
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil
	}

	// Playback controls
	switch msg.String() {
	case " ":
		return m, m.togglePause()
	case "n":
		return m, m.action("Skipped", m.app.player.Next)
	case "s":
		return m, m.action("Stopped", m.app.player.Stop)
	case "x":
		return m, m.action("Queue emptied", m.app.player.EmptyQueue)
	case "r":
		m.app.session.Resync()
		return m, m.fetchStations()
	case "c":
		return m, m.copyMRL()
	}

	// Panel-specific keys
	switch m.focusedPanel {
	case PanelQueue:
		switch msg.String() {
		case "j", "down":
			m.queueView.ScrollDown()
		case "k", "up":
			m.queueView.ScrollUp()
		}
	case PanelStations:
		switch msg.String() {
		case "j", "down":
			m.stationsView.SelectNext()
		case "k", "up":
			m.stationsView.SelectPrev()
		case "enter":
			return m, m.playStation()
		case "backspace":
			return m, m.action("Radio stopped", m.app.player.StopStation)
		}
	}

	return m, nil
}

func (m Model) togglePause() tea.Cmd {
	song := m.update.Snapshot.Song
	if song.IsPlaying() {
		return m.action("Paused", m.app.player.Pause)
	}
	return m.action("Resumed", m.app.player.Resume)
}

func (m Model) playStation() tea.Cmd {
	selected := m.stationsView.Selected()
	if selected < 0 || selected >= len(m.stations) {
		return nil
	}
	station := m.stations[selected]
	return m.action("Tuned to "+station.Name, func(ctx context.Context) error {
		return m.app.player.PlayStation(ctx, station.MRL)
	})
}

func (m Model) copyMRL() tea.Cmd {
	song := m.update.Snapshot.Song
	if song == nil {
		return nil
	}
	mrl := song.MRL
	write := m.app.copy
	return func() tea.Msg {
		if err := write(mrl); err != nil {
			return errMsg(fmt.Errorf("copy to clipboard: %w", err))
		}
		return actionDoneMsg{notice: "Copied MRL"}
	}
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	// Left: Now Playing (top), Queue (bottom)
	// Right: Stations (top), History (bottom)
	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := m.height * 40 / 100
	bottomHeight := m.height - topHeight - 2

	snap := m.update.Snapshot
	view := components.NowPlayingView{
		Song:       snap.Song,
		Progress:   m.app.interp.Progress(),
		Connection: m.update.State,
	}
	if st := components.MatchStation(snap.Song, m.stations); st != nil {
		view.StationName = st.Name
	}

	nowPlaying := m.nowPlaying.Render(view, leftWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying)
	queueView := m.queueView.Render(m.update.Queue, snap.Song, leftWidth-2, bottomHeight-2, m.focusedPanel == PanelQueue)
	stationsView := m.stationsView.Render(m.stations, snap.Song, rightWidth-2, topHeight-2, m.focusedPanel == PanelStations)
	historyView := m.historyView.Render(m.history, m.now, rightWidth-2, bottomHeight-2, m.focusedPanel == PanelHistory)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, queueView)
	rightCol := lipgloss.JoinVertical(lipgloss.Left, stationsView, historyView)

	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  space:pause/resume  n:next  s:stop  c:copy mrl  tab:switch panel")

	switch {
	case m.lastError != nil:
		// Keep the bar on one line; errors can be long.
		msg := "Error: " + m.lastError.Error()
		if w := m.width - 2; w > 0 {
			msg = truncate.StringWithTail(msg, uint(w), "…")
		}
		status = styles.ErrorText.Render(msg)
	case m.notice != "":
		status = styles.Highlight.Render(m.notice)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	help := `
  Jukebox - Keyboard Shortcuts
  ════════════════════════════

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  Tab          Next panel
  Shift+Tab    Previous panel
  r            Refresh now
  c            Copy song MRL

  Playback
  ────────
  Space        Pause/Resume
  n            Next song
  s            Stop
  x            Empty queue

  Up Next Panel
  ─────────────
  j/↓          Scroll down
  k/↑          Scroll up

  Radio Panel
  ───────────
  j/↓          Select next
  k/↑          Select previous
  Enter        Play station
  Backspace    Stop radio

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

// Run starts the TUI application and blocks until it exits.
func Run(app *App) error {
	updates, unsubscribe := app.session.Subscribe()
	defer unsubscribe()

	p := tea.NewProgram(NewModel(app, updates), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
