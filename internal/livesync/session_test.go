package livesync

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/tessro/jukebox/internal/core"
)

type fakeSource struct {
	mu         sync.Mutex
	snap       core.Snapshot
	err        error
	nowPlaying int
	queue      int
}

func (f *fakeSource) NowPlaying(ctx context.Context) (core.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nowPlaying++
	return f.snap, f.err
}

func (f *fakeSource) Queue(ctx context.Context) (*core.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue++
	return &core.Queue{}, nil
}

func (f *fakeSource) set(snap core.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = snap
}

func (f *fakeSource) nowPlayingCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nowPlaying
}

// fakeDialer hands out connections the test feeds it. A nil connection
// fails the dial.
type fakeDialer struct {
	conns chan *fakeConn
	dials atomic.Int32
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{conns: make(chan *fakeConn)}
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (Conn, error) {
	d.dials.Add(1)
	select {
	case c := <-d.conns:
		if c == nil {
			return nil, errors.New("connection refused")
		}
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type fakeConn struct {
	msgs   chan any
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{msgs: make(chan any), closed: make(chan struct{})}
}

func (c *fakeConn) ReadMessage() (any, error) {
	select {
	case m := <-c.msgs:
		return m, nil
	case <-c.closed:
		return nil, io.EOF
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func song(mrl string) core.Snapshot {
	return core.Snapshot{Song: &core.Song{MRL: mrl, Name: mrl, PlayState: core.PlayStatePlaying}}
}

func currentMRL(s *Session) string {
	if snap := s.Current().Snapshot; snap.Song != nil {
		return snap.Song.MRL
	}
	return ""
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func startSession(t *testing.T, src *fakeSource, d Dialer, opts Options) *Session {
	t.Helper()
	s := New(src, d, opts)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(s.Stop)
	waitFor(t, "seed", func() bool { return currentMRL(s) == "seed" })
	return s
}

func TestConnectionStateScenario(t *testing.T) {
	mock := clock.NewMock()
	d := newFakeDialer()
	s := startSession(t, &fakeSource{snap: song("seed")}, d, Options{PushURL: "ws://jukebox/push", Clock: mock})

	waitFor(t, "first dial", func() bool { return d.dials.Load() == 1 })
	if got := s.Current().State; got != core.StateConnecting {
		t.Fatalf("state before handshake = %s, want connecting", got)
	}

	conn := newFakeConn()
	d.conns <- conn
	waitFor(t, "connected", func() bool { return s.Current().State == core.StateConnected })

	conn.msgs <- `{"data":{"mrl":"file:///a.mp3","playState":"PLAYING","duration":100,"current":5}}`
	waitFor(t, "push snapshot", func() bool { return currentMRL(s) == "file:///a.mp3" })
	if got := s.Current().Source; got != SourcePush {
		t.Errorf("Source = %s, want push", got)
	}

	conn.Close()
	waitFor(t, "reconnecting", func() bool { return s.Current().State == core.StateReconnecting })
	if d.dials.Load() != 1 {
		t.Fatalf("redialed before the reconnect delay")
	}

	mock.Add(DefaultReconnectDelay)
	waitFor(t, "second dial", func() bool { return d.dials.Load() == 2 })
	waitFor(t, "connecting again", func() bool { return s.Current().State == core.StateConnecting })

	d.conns <- newFakeConn()
	waitFor(t, "reconnected", func() bool { return s.Current().State == core.StateConnected })

	if currentMRL(s) != "file:///a.mp3" {
		t.Errorf("snapshot lost across reconnect: %q", currentMRL(s))
	}
}

func TestDialFailureBeforeConnectStaysConnecting(t *testing.T) {
	mock := clock.NewMock()
	d := newFakeDialer()
	s := startSession(t, &fakeSource{snap: song("seed")}, d, Options{PushURL: "ws://jukebox/push", Clock: mock})

	waitFor(t, "first dial", func() bool { return d.dials.Load() == 1 })
	d.conns <- nil

	// The failed attempt schedules a reconnect; the state never reports
	// reconnecting because no attempt has connected yet.
	time.Sleep(10 * time.Millisecond)
	if got := s.Current().State; got != core.StateConnecting {
		t.Fatalf("state = %s, want connecting", got)
	}

	waitFor(t, "second dial", func() bool {
		mock.Add(DefaultReconnectDelay)
		return d.dials.Load() == 2
	})
	d.conns <- newFakeConn()
	waitFor(t, "connected", func() bool { return s.Current().State == core.StateConnected })
}

func TestStalenessFallsBackToPolling(t *testing.T) {
	mock := clock.NewMock()
	src := &fakeSource{snap: song("seed")}
	d := newFakeDialer()
	s := startSession(t, src, d, Options{PushURL: "ws://jukebox/push", Clock: mock})

	conn := newFakeConn()
	d.conns <- conn
	waitFor(t, "connected", func() bool { return s.Current().State == core.StateConnected })
	seedCalls := src.nowPlayingCalls()

	// Two watchdog ticks inside the staleness window must not poll.
	mock.Add(2 * DefaultPollInterval)
	time.Sleep(10 * time.Millisecond)
	if got := src.nowPlayingCalls(); got != seedCalls {
		t.Fatalf("polled %d times before going stale", got-seedCalls)
	}
	if got := s.Current().State; got != core.StateConnected {
		t.Fatalf("state = %s, want connected", got)
	}

	src.set(song("polled"))
	waitFor(t, "fallback", func() bool {
		mock.Add(DefaultPollInterval)
		return s.Current().State == core.StateFallback
	})
	if currentMRL(s) != "polled" {
		t.Errorf("snapshot = %q, want the polled song", currentMRL(s))
	}
	if conn.isClosed() {
		t.Error("watchdog closed the push channel")
	}

	// A push message takes over again.
	conn.msgs <- `{"mrl":"pushed"}`
	waitFor(t, "connected after push", func() bool { return s.Current().State == core.StateConnected })
	if currentMRL(s) != "pushed" {
		t.Errorf("snapshot = %q, want the pushed song", currentMRL(s))
	}
}

func TestPollingOnlyWithoutPushURL(t *testing.T) {
	mock := clock.NewMock()
	src := &fakeSource{snap: song("seed")}
	d := newFakeDialer()
	s := startSession(t, src, d, Options{Clock: mock})

	src.set(song("polled"))
	waitFor(t, "fallback", func() bool {
		mock.Add(DefaultPollInterval)
		return s.Current().State == core.StateFallback
	})
	if d.dials.Load() != 0 {
		t.Errorf("dialed %d times with push disabled", d.dials.Load())
	}
	if currentMRL(s) != "polled" {
		t.Errorf("snapshot = %q, want polled", currentMRL(s))
	}
}

func TestResync(t *testing.T) {
	src := &fakeSource{snap: song("seed")}
	s := startSession(t, src, nil, Options{Clock: clock.NewMock()})

	before := src.nowPlayingCalls()
	src.set(song("after-command"))
	s.Resync()

	waitFor(t, "resync", func() bool { return currentMRL(s) == "after-command" })
	if src.nowPlayingCalls() <= before {
		t.Error("Resync did not fetch now playing")
	}
	if got := s.Current().Source; got != SourceResync {
		t.Errorf("Source = %s, want resync", got)
	}
}

func TestStopTearsDown(t *testing.T) {
	mock := clock.NewMock()
	d := newFakeDialer()
	s := New(&fakeSource{snap: song("seed")}, d, Options{PushURL: "ws://jukebox/push", Clock: mock})
	sub, _ := s.Subscribe()

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}

	conn := newFakeConn()
	d.conns <- conn
	waitFor(t, "connected", func() bool { return s.Current().State == core.StateConnected })

	s.Stop()
	s.Stop()

	if !conn.isClosed() {
		t.Error("push connection left open")
	}

	drained := make(chan struct{})
	go func() {
		for range sub {
		}
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("subscriber channel not closed")
	}

	last := s.Current()
	dials := d.dials.Load()
	mock.Add(time.Hour)
	time.Sleep(10 * time.Millisecond)
	if s.Current() != last {
		t.Error("update published after Stop")
	}
	if d.dials.Load() != dials {
		t.Error("dialed after Stop")
	}

	late, _ := s.Subscribe()
	if _, ok := <-late; ok {
		t.Error("Subscribe after Stop returned an open channel")
	}
}

func TestSupersededAttemptIgnored(t *testing.T) {
	s := New(&fakeSource{}, nil, Options{Clock: clock.NewMock()})
	s.attempt = 2

	s.handle(messageEvent{attempt: 1, data: `{"mrl":"stale"}`})
	if currentMRL(s) != "" {
		t.Fatalf("applied message from superseded attempt")
	}

	old := newFakeConn()
	s.handle(connectedEvent{attempt: 1, conn: old})
	if !old.isClosed() {
		t.Error("superseded connection not closed")
	}
	if s.Current().State != core.StateConnecting {
		t.Errorf("state = %s, want connecting", s.Current().State)
	}

	s.handle(closedEvent{attempt: 1, err: io.EOF})
	if s.reconnect != nil {
		t.Error("superseded close scheduled a reconnect")
	}

	s.handle(messageEvent{attempt: 2, data: `{"mrl":"fresh"}`})
	if currentMRL(s) != "fresh" {
		t.Errorf("snapshot = %q, want fresh", currentMRL(s))
	}
	if s.Current().State != core.StateConnected {
		t.Errorf("state = %s, want connected", s.Current().State)
	}
}

func TestIdenticalUpdatesNotRepublished(t *testing.T) {
	s := New(&fakeSource{}, nil, Options{Clock: clock.NewMock()})
	sub, unsubscribe := s.Subscribe()
	defer unsubscribe()

	msg := messageEvent{data: `{"mrl":"file:///a.mp3","duration":100,"current":10}`}
	s.handle(msg)
	select {
	case u := <-sub:
		if u.Snapshot.Song == nil || u.Snapshot.Song.MRL != "file:///a.mp3" {
			t.Fatalf("update = %+v", u)
		}
	default:
		t.Fatal("first update not delivered")
	}

	s.handle(msg)
	select {
	case u := <-sub:
		t.Errorf("duplicate update delivered: %+v", u)
	default:
	}
}

func TestMalformedMessageDropped(t *testing.T) {
	s := New(&fakeSource{}, nil, Options{Clock: clock.NewMock()})
	s.handle(messageEvent{data: `{"mrl":"file:///a.mp3"}`})

	before := s.Current()
	s.handle(messageEvent{data: `{"mrl":`})
	s.handle(messageEvent{data: 42})

	if s.Current() != before {
		t.Error("malformed message changed state")
	}
}

func TestLatestWinsDelivery(t *testing.T) {
	s := New(&fakeSource{}, nil, Options{Clock: clock.NewMock()})
	sub, unsubscribe := s.Subscribe()

	s.handle(messageEvent{data: `{"mrl":"one"}`})
	s.handle(messageEvent{data: `{"mrl":"two"}`})
	s.handle(messageEvent{data: `{"mrl":"three"}`})

	u := <-sub
	if u.Snapshot.Song.MRL != "three" {
		t.Errorf("delivered %q, want the latest update", u.Snapshot.Song.MRL)
	}

	unsubscribe()
	if _, ok := <-sub; ok {
		t.Error("channel still open after unsubscribe")
	}
	unsubscribe()
}

func TestReadingOnlyAdvancesWithSnapshots(t *testing.T) {
	d := newFakeDialer()
	s := startSession(t, &fakeSource{snap: song("seed")}, d, Options{PushURL: "ws://jukebox/push", Clock: clock.NewMock()})

	seeded := s.Current().Reading
	if seeded == 0 {
		t.Fatal("Reading = 0 after seed")
	}

	conn := newFakeConn()
	d.conns <- conn
	waitFor(t, "connected", func() bool { return s.Current().State == core.StateConnected })
	if got := s.Current().Reading; got != seeded {
		t.Errorf("Reading after state change = %d, want %d", got, seeded)
	}

	conn.msgs <- `{"mrl":"file:///b.mp3","playState":"PLAYING"}`
	waitFor(t, "push snapshot", func() bool { return currentMRL(s) == "file:///b.mp3" })
	if got := s.Current().Reading; got <= seeded {
		t.Errorf("Reading after push = %d, want > %d", got, seeded)
	}
}

func TestPollingOnlyPollsEveryInterval(t *testing.T) {
	mock := clock.NewMock()
	src := &fakeSource{snap: song("seed")}
	s := startSession(t, src, nil, Options{Clock: mock})

	waitFor(t, "first poll", func() bool {
		mock.Add(DefaultPollInterval)
		return s.Current().State == core.StateFallback
	})

	// The poll that flipped the state also stamped freshness; a single
	// interval later it polls again anyway.
	before := src.nowPlayingCalls()
	mock.Add(DefaultPollInterval)
	waitFor(t, "next poll", func() bool { return src.nowPlayingCalls() > before })
}
