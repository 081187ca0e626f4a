package media

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/jukebox"
)

// Player implements core.Player for a jukebox server.
type Player struct {
	client  *jukebox.Client
	gateway *Gateway
}

var _ core.Player = (*Player)(nil)

// NewPlayer creates a player backed by c.
func NewPlayer(c *jukebox.Client, log logrus.FieldLogger) *Player {
	return &Player{
		client:  c,
		gateway: NewGateway(c, log),
	}
}

// Pause pauses playback.
func (p *Player) Pause(ctx context.Context) error {
	return p.gateway.Dispatch(ctx, ActionPause)
}

// Resume resumes paused playback.
func (p *Player) Resume(ctx context.Context) error {
	return p.gateway.Dispatch(ctx, ActionResume)
}

// Stop stops playback.
func (p *Player) Stop(ctx context.Context) error {
	return p.gateway.Dispatch(ctx, ActionStop)
}

// Next skips to the next song in the queue.
func (p *Player) Next(ctx context.Context) error {
	return p.gateway.Dispatch(ctx, ActionNext)
}

// EmptyQueue clears the queue.
func (p *Player) EmptyQueue(ctx context.Context) error {
	return p.gateway.Dispatch(ctx, ActionEmptyQueue)
}

// PlaySong plays the song at mrl immediately.
func (p *Player) PlaySong(ctx context.Context, mrl string) error {
	return p.client.PlaySong(ctx, mrl)
}

// AddToQueue appends the song at mrl to the queue.
func (p *Player) AddToQueue(ctx context.Context, mrl string) error {
	return p.client.AddToQueue(ctx, mrl)
}

// NowPlaying returns the current song and progress.
func (p *Player) NowPlaying(ctx context.Context) (core.Snapshot, error) {
	return p.client.NowPlaying(ctx)
}

// GetQueue returns the play queue.
func (p *Player) GetQueue(ctx context.Context) (*core.Queue, error) {
	return p.client.Queue(ctx)
}

// Stations lists the radio stations.
func (p *Player) Stations(ctx context.Context) ([]core.Station, error) {
	return p.client.Stations(ctx)
}

// PlayStation starts the radio station at mrl.
func (p *Player) PlayStation(ctx context.Context, mrl string) error {
	return p.client.PlayStation(ctx, mrl)
}

// StopStation stops radio playback.
func (p *Player) StopStation(ctx context.Context) error {
	return p.client.StopStation(ctx)
}
