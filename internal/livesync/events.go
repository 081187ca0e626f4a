package livesync

import "github.com/tessro/jukebox/internal/core"

// event is a message from a helper goroutine to the event loop.
type event interface{}

type connectedEvent struct {
	attempt uint64
	conn    Conn
}

type messageEvent struct {
	attempt uint64
	data    any
}

type closedEvent struct {
	attempt uint64
	err     error
}

type snapshotEvent struct {
	source Source
	snap   core.Snapshot
	err    error
}

type queueEvent struct {
	queue *core.Queue
	err   error
}
