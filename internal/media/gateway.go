// Package media sends playback commands to the jukebox server.
//
// Server versions disagree on which command endpoints exist and which HTTP
// method they accept, so each action maps to an ordered list of candidate
// paths. The gateway tries POST then GET on each path and moves on only when
// the server answers 404 or 405.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	jberrors "github.com/tessro/jukebox/internal/errors"
	"github.com/tessro/jukebox/internal/jukebox"
)

// Action is a playback command.
type Action string

const (
	ActionPause      Action = "pause"
	ActionResume     Action = "resume"
	ActionStop       Action = "stop"
	ActionNext       Action = "next"
	ActionEmptyQueue Action = "empty-queue"
)

// Endpoints lists the candidate paths for each action, in the order they are
// tried.
var Endpoints = map[Action][]string{
	ActionPause:      {"/api/media/pause"},
	ActionResume:     {"/api/media/resume", "/api/media/play"},
	ActionStop:       {"/api/media/stop"},
	ActionNext:       {"/api/media/next", "/api/media/next-song", "/api/media/nextSong"},
	ActionEmptyQueue: {"/api/queue/empty"},
}

// attemptMethods are tried on every path, in order.
var attemptMethods = []string{http.MethodPost, http.MethodGet}

// Attempt is one (method, path) request the gateway may send.
type Attempt struct {
	Method string
	Path   string
}

// Attempts expands an action into its ordered request attempts.
func Attempts(action Action) []Attempt {
	paths := Endpoints[action]
	attempts := make([]Attempt, 0, len(paths)*len(attemptMethods))
	for _, path := range paths {
		for _, method := range attemptMethods {
			attempts = append(attempts, Attempt{Method: method, Path: path})
		}
	}
	return attempts
}

// Requester sends a single request and reports the raw status.
type Requester interface {
	Do(ctx context.Context, method, path string, body any) (*jukebox.Response, error)
}

// Gateway dispatches actions against whichever endpoint the server supports.
// It never refreshes state; callers resync after a successful command.
type Gateway struct {
	req Requester
	log logrus.FieldLogger
}

// NewGateway creates a gateway. A nil logger discards output.
func NewGateway(req Requester, log logrus.FieldLogger) *Gateway {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Gateway{req: req, log: log}
}

// Dispatch walks the action's attempts until one succeeds. A 404 or 405
// moves to the next attempt; any other failure is returned immediately. When
// every attempt is rejected with 404 or 405, ErrNoCompatibleEndpoint is
// returned.
func (g *Gateway) Dispatch(ctx context.Context, action Action) error {
	attempts := Attempts(action)
	if len(attempts) == 0 {
		return fmt.Errorf("unknown media action %q", action)
	}

	log := g.log.WithField("action", action)
	for _, a := range attempts {
		resp, err := g.req.Do(ctx, a.Method, a.Path, nil)
		if err != nil {
			return fmt.Errorf("%s: %w", action, err)
		}

		if resp.OK() {
			log.WithFields(logrus.Fields{"method": a.Method, "path": a.Path}).Debug("media command accepted")
			return nil
		}

		if unsupported(resp.StatusCode) {
			log.WithFields(logrus.Fields{
				"method": a.Method,
				"path":   a.Path,
				"status": resp.StatusCode,
			}).Debug("endpoint not supported, trying next")
			continue
		}

		return &jukebox.StatusError{
			Method:     a.Method,
			Path:       a.Path,
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
		}
	}

	return fmt.Errorf("%s: %w", action, jberrors.ErrNoCompatibleEndpoint)
}

func unsupported(status int) bool {
	return status == http.StatusNotFound || status == http.StatusMethodNotAllowed
}
