// Package livesync keeps a live view of what the jukebox is playing.
//
// A Session prefers the server's push channel and falls back to polling when
// pushes go quiet. All sync state is owned by a single event loop goroutine;
// network I/O runs in helper goroutines that report back as events. Events
// from a push connection that has since been replaced are dropped, so a slow
// reader from an old connection can never overwrite newer state.
package livesync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/sirupsen/logrus"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/payload"
)

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("session already started")

// Source identifies what produced an update.
type Source string

const (
	SourceSeed   Source = "seed"
	SourcePush   Source = "push"
	SourcePoll   Source = "poll"
	SourceResync Source = "resync"
	SourceQueue  Source = "queue"
	SourceState  Source = "state"
)

// Update is the session's view after a change.
type Update struct {
	Snapshot core.Snapshot
	Queue    *core.Queue
	State    core.ConnectionState
	Source   Source
	At       time.Time

	// Reading increments each time Snapshot is replaced by a server
	// reading. Queue and state updates carry the previous snapshot and
	// reading unchanged.
	Reading uint64
}

// NowPlayingSource fetches authoritative state on demand.
type NowPlayingSource interface {
	NowPlaying(ctx context.Context) (core.Snapshot, error)
	Queue(ctx context.Context) (*core.Queue, error)
}

// Session synchronizes now-playing state from push and poll channels.
type Session struct {
	source NowPlayingSource
	dialer Dialer
	opts   Options
	clock  clock.Clock
	log    logrus.FieldLogger
	id     string

	events chan event
	resync chan struct{}

	mu        sync.Mutex
	subs      map[int]chan Update
	nextSub   int
	current   Update
	published bool
	started   bool
	closed    bool
	cancel    context.CancelFunc
	done      chan struct{}
	stopOnce  sync.Once
	helpers   sync.WaitGroup

	// Owned by the event loop.
	ctx           context.Context
	attempt       uint64
	conn          Conn
	everConnected bool
	lastUpdate    time.Time
	reading       uint64
	polling       bool
	queueing      bool
	reconnect     *clock.Timer
	snapshot      core.Snapshot
	queue         *core.Queue
	state         core.ConnectionState
	lastHash      uint64
}

// New creates a session. It does nothing until Start.
func New(source NowPlayingSource, dialer Dialer, opts Options) *Session {
	opts = opts.withDefaults()
	id := uuid.NewString()

	return &Session{
		source:  source,
		dialer:  dialer,
		opts:    opts,
		clock:   opts.Clock,
		log:     opts.Logger.WithField("session", id),
		id:      id,
		events:  make(chan event),
		resync:  make(chan struct{}, 1),
		subs:    make(map[int]chan Update),
		current: Update{State: core.StateConnecting},
		done:    make(chan struct{}),
		state:   core.StateConnecting,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Start seeds state, opens the push channel, and starts the watchdog and
// queue timers. It returns immediately.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	watchdog := s.clock.Ticker(s.opts.PollInterval)
	queueTicker := s.clock.Ticker(s.opts.QueueInterval)

	s.log.WithFields(logrus.Fields{
		"push_url":      s.opts.PushURL,
		"poll_interval": s.opts.PollInterval,
		"stale_after":   s.opts.StaleAfter(),
	}).Info("starting live sync")

	s.fetchNowPlaying(SourceSeed)
	s.fetchQueue()
	s.connect()

	go s.run(watchdog, queueTicker)
	return nil
}

// Stop tears the session down: the push channel is closed, every timer is
// stopped, and all subscriber channels are closed. No update is delivered
// after Stop returns.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		started := s.started
		cancel := s.cancel
		s.mu.Unlock()

		if !started {
			s.closeSubscribers()
			return
		}

		cancel()
		<-s.done
		s.helpers.Wait()
	})
}

// Done is closed when the event loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Subscribe returns a channel of updates and a function to unsubscribe.
// Delivery is latest-wins: a slow reader sees the newest update, not every
// update. The current state is delivered immediately if one exists.
func (s *Session) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	if s.published {
		ch <- s.current
	}

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Current returns the latest update.
func (s *Session) Current() Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Resync requests an immediate now-playing and queue refresh. Requests made
// while one is pending are coalesced.
func (s *Session) Resync() {
	select {
	case s.resync <- struct{}{}:
	default:
	}
}

func (s *Session) run(watchdog, queueTicker *clock.Ticker) {
	defer close(s.done)
	defer s.closeSubscribers()
	defer func() {
		watchdog.Stop()
		queueTicker.Stop()
		if s.reconnect != nil {
			s.reconnect.Stop()
			s.reconnect = nil
		}
		if s.conn != nil {
			_ = s.conn.Close()
			s.conn = nil
		}
		s.log.Info("live sync stopped")
	}()

	for {
		var reconnectC <-chan time.Time
		if s.reconnect != nil {
			reconnectC = s.reconnect.C
		}

		select {
		case <-s.ctx.Done():
			return
		case ev := <-s.events:
			s.handle(ev)
		case <-s.resync:
			s.fetchNowPlaying(SourceResync)
			s.fetchQueue()
		case <-watchdog.C:
			s.checkStale()
		case <-queueTicker.C:
			s.fetchQueue()
		case <-reconnectC:
			s.reconnect = nil
			s.connect()
		}
	}
}

func (s *Session) handle(ev event) {
	switch e := ev.(type) {
	case connectedEvent:
		if e.attempt != s.attempt {
			_ = e.conn.Close()
			return
		}
		s.conn = e.conn
		s.everConnected = true
		s.lastUpdate = s.clock.Now()
		s.setState(core.StateConnected)
		s.publish(SourceState)

	case messageEvent:
		if e.attempt != s.attempt {
			return
		}
		snap, err := payload.Message(e.data)
		if err != nil {
			s.log.WithField("attempt", e.attempt).WithError(err).Debug("ignoring malformed push message")
			return
		}
		s.snapshot = snap
		s.lastUpdate = s.clock.Now()
		s.reading++
		s.setState(core.StateConnected)
		s.publish(SourcePush)

	case closedEvent:
		if e.attempt != s.attempt {
			return
		}
		s.conn = nil
		s.reconnect = s.clock.Timer(s.opts.ReconnectDelay)
		s.log.WithField("attempt", e.attempt).WithError(e.err).Warn("push channel closed")
		if s.everConnected {
			s.setState(core.StateReconnecting)
		} else {
			s.setState(core.StateConnecting)
		}
		s.publish(SourceState)

	case snapshotEvent:
		if e.source == SourcePoll {
			s.polling = false
		}
		if e.err != nil {
			s.log.WithField("source", e.source).WithError(e.err).Debug("now playing fetch failed")
			return
		}
		s.snapshot = e.snap
		s.lastUpdate = s.clock.Now()
		s.reading++
		if e.source == SourcePoll {
			s.setState(core.StateFallback)
		}
		s.publish(e.source)

	case queueEvent:
		s.queueing = false
		if e.err != nil {
			s.log.WithError(e.err).Debug("queue fetch failed")
			return
		}
		s.queue = e.queue
		s.publish(SourceQueue)
	}
}

// connect starts a new push attempt. Any earlier attempt is superseded.
func (s *Session) connect() {
	s.attempt++
	attempt := s.attempt
	s.setState(core.StateConnecting)
	s.publish(SourceState)

	if !s.pushEnabled() {
		s.log.Debug("push channel disabled, relying on polling")
		return
	}

	s.log.WithField("attempt", attempt).Debug("dialing push channel")
	s.spawn(func(ctx context.Context) {
		conn, err := s.dialer.Dial(ctx, s.opts.PushURL)
		if err != nil {
			s.send(closedEvent{attempt: attempt, err: err})
			return
		}
		if !s.send(connectedEvent{attempt: attempt, conn: conn}) {
			_ = conn.Close()
			return
		}

		for {
			data, err := conn.ReadMessage()
			if err != nil {
				_ = conn.Close()
				s.send(closedEvent{attempt: attempt, err: err})
				return
			}
			if !s.send(messageEvent{attempt: attempt, data: data}) {
				return
			}
		}
	})
}

// checkStale polls when no update has been processed for StaleAfter. It
// runs regardless of push state and leaves any pending reconnect alone.
// Without a push channel every tick polls.
func (s *Session) checkStale() {
	fresh := !s.lastUpdate.IsZero() && s.clock.Since(s.lastUpdate) <= s.opts.StaleAfter()
	if fresh && s.pushEnabled() {
		return
	}
	if s.polling {
		return
	}
	s.polling = true
	s.log.WithField("last_update", s.lastUpdate).Debug("updates stale, polling")
	s.fetchNowPlaying(SourcePoll)
}

func (s *Session) pushEnabled() bool {
	return s.opts.PushURL != "" && s.dialer != nil
}

func (s *Session) fetchNowPlaying(source Source) {
	s.spawn(func(ctx context.Context) {
		snap, err := s.source.NowPlaying(ctx)
		s.send(snapshotEvent{source: source, snap: snap, err: err})
	})
}

func (s *Session) fetchQueue() {
	if s.queueing {
		return
	}
	s.queueing = true
	s.spawn(func(ctx context.Context) {
		q, err := s.source.Queue(ctx)
		s.send(queueEvent{queue: q, err: err})
	})
}

// spawn runs fn in a tracked helper goroutine.
func (s *Session) spawn(fn func(ctx context.Context)) {
	s.helpers.Add(1)
	go func() {
		defer s.helpers.Done()
		fn(s.ctx)
	}()
}

// send delivers ev to the event loop. It returns false once the session is
// shutting down.
func (s *Session) send(ev event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *Session) setState(state core.ConnectionState) {
	if s.state == state {
		return
	}
	s.log.WithFields(logrus.Fields{"from": s.state, "state": state, "attempt": s.attempt}).Debug("connection state changed")
	s.state = state
}

// updateKey is the part of an Update that decides whether it is new.
type updateKey struct {
	Snapshot core.Snapshot
	Queue    *core.Queue
	State    core.ConnectionState
}

// publish delivers the current view to subscribers unless it is identical to
// the last one delivered.
func (s *Session) publish(source Source) {
	h, err := hashstructure.Hash(updateKey{
		Snapshot: s.snapshot,
		Queue:    s.queue,
		State:    s.state,
	}, hashstructure.FormatV2, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil && s.published && h == s.lastHash {
		return
	}
	s.lastHash = h

	u := Update{
		Snapshot: s.snapshot,
		Queue:    s.queue,
		State:    s.state,
		Source:   source,
		At:       s.clock.Now(),
		Reading:  s.reading,
	}
	s.current = u
	s.published = true

	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- u:
		default:
		}
	}
}

func (s *Session) closeSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
