package core

import "context"

// Player defines the interface for controlling a jukebox server.
type Player interface {
	// Playback control
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error
	Next(ctx context.Context) error
	PlaySong(ctx context.Context, mrl string) error

	// Queue manipulation
	AddToQueue(ctx context.Context, mrl string) error
	EmptyQueue(ctx context.Context) error

	// State queries
	NowPlaying(ctx context.Context) (Snapshot, error)
	GetQueue(ctx context.Context) (*Queue, error)

	// Radio
	Stations(ctx context.Context) ([]Station, error)
	PlayStation(ctx context.Context, mrl string) error
	StopStation(ctx context.Context) error
}
