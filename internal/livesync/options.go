package livesync

import (
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
)

// Default timings.
const (
	DefaultPollInterval   = 5 * time.Second
	DefaultStaleFactor    = 3
	DefaultReconnectDelay = 3 * time.Second
	DefaultQueueInterval  = 5 * time.Second
)

// Options configures a Session. Zero values take the defaults above.
type Options struct {
	// PushURL is the websocket endpoint. Empty disables the push channel
	// and leaves the session on polling alone.
	PushURL string

	// PollInterval is the staleness watchdog period.
	PollInterval time.Duration

	// StaleFactor multiplies PollInterval to give the age after which the
	// last update is considered stale.
	StaleFactor int

	// ReconnectDelay is the flat wait before redialing a closed push channel.
	ReconnectDelay time.Duration

	// QueueInterval is the queue refresh period.
	QueueInterval time.Duration

	Clock  clock.Clock
	Logger logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.StaleFactor <= 0 {
		o.StaleFactor = DefaultStaleFactor
	}
	if o.ReconnectDelay <= 0 {
		o.ReconnectDelay = DefaultReconnectDelay
	}
	if o.QueueInterval <= 0 {
		o.QueueInterval = DefaultQueueInterval
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}
	return o
}

// StaleAfter returns how old the last update may get before the watchdog
// polls.
func (o Options) StaleAfter() time.Duration {
	return time.Duration(o.StaleFactor) * o.PollInterval
}
