package jukebox

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tessro/jukebox/internal/core"
	jberrors "github.com/tessro/jukebox/internal/errors"
	"github.com/tessro/jukebox/internal/payload"
)

// API paths.
const (
	PathNowPlaying  = "/api/queue/playing"
	PathQueueList   = "/api/queue/list"
	PathQueueAdd    = "/api/queue/add"
	PathMediaPlay   = "/api/media/play"
	PathRadioList   = "/api/radio/list"
	PathRadioPlay   = "/api/radio/play"
	PathRadioStop   = "/api/radio/stop"
	PathVersion     = "/api/about/version"
	PathFolderList  = "/api/folder/list"
	PathTagRead     = "/api/tag/read"
	PathImageFetch  = "/api/image/fetch"
	DefaultPushPath = "/api/ws/current-song"
)

const mrlParam = "mrl"

type mrlBody struct {
	MRL string `json:"mrl"`
}

// NowPlayingRaw returns the undecoded now-playing payload.
func (c *Client) NowPlayingRaw(ctx context.Context) (any, error) {
	var raw any
	if err := c.Get(ctx, PathNowPlaying, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// NowPlaying fetches and normalizes the current song and progress.
func (c *Client) NowPlaying(ctx context.Context) (core.Snapshot, error) {
	raw, err := c.NowPlayingRaw(ctx)
	if err != nil {
		return core.Snapshot{}, err
	}
	return payload.Normalize(raw), nil
}

// Queue fetches the play queue.
func (c *Client) Queue(ctx context.Context) (*core.Queue, error) {
	var raw any
	if err := c.Get(ctx, PathQueueList, &raw); err != nil {
		return nil, err
	}
	return parseQueue(raw), nil
}

// AddToQueue appends the song at mrl to the queue.
func (c *Client) AddToQueue(ctx context.Context, mrl string) error {
	mrl, err := requireMRL(mrl)
	if err != nil {
		return err
	}
	return c.Post(ctx, BuildURL(PathQueueAdd, map[string]string{mrlParam: mrl}), nil, nil)
}

// PlaySong starts playing the song at mrl immediately.
func (c *Client) PlaySong(ctx context.Context, mrl string) error {
	mrl, err := requireMRL(mrl)
	if err != nil {
		return err
	}
	return c.Post(ctx, PathMediaPlay, mrlBody{MRL: mrl}, nil)
}

// Stations lists the configured radio stations, sorted by name.
func (c *Client) Stations(ctx context.Context) ([]core.Station, error) {
	var raw any
	if err := c.Get(ctx, PathRadioList, &raw); err != nil {
		return nil, err
	}
	return parseStations(raw), nil
}

// PlayStation starts the radio station at mrl.
func (c *Client) PlayStation(ctx context.Context, mrl string) error {
	mrl, err := requireMRL(mrl)
	if err != nil {
		return err
	}
	return c.Post(ctx, PathRadioPlay, mrlBody{MRL: mrl}, nil)
}

// StopStation stops radio playback.
func (c *Client) StopStation(ctx context.Context) error {
	return c.Post(ctx, PathRadioStop, nil, nil)
}

// Version returns the server's reported version, or "unknown".
func (c *Client) Version(ctx context.Context) (string, error) {
	var raw any
	if err := c.Get(ctx, PathVersion, &raw); err != nil {
		return "", err
	}
	return parseVersion(raw), nil
}

// ArtworkURL returns the cover art URL for the song at mrl.
func (c *Client) ArtworkURL(mrl string) (string, error) {
	mrl, err := requireMRL(mrl)
	if err != nil {
		return "", err
	}
	return c.URL(BuildURL(PathImageFetch, map[string]string{mrlParam: mrl})), nil
}

// PushURL derives the websocket endpoint from the base URL: https becomes
// wss, http becomes ws, and the path is replaced with pushPath.
func (c *Client) PushURL(pushPath string) (string, error) {
	return PushURL(c.baseURL, pushPath)
}

// PushURL derives a websocket URL for pushPath on the host of baseURL.
func PushURL(baseURL, pushPath string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: base url: %w", jberrors.ErrInvalidConfig, err)
	}

	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", jberrors.ErrInvalidConfig, u.Scheme)
	}

	if pushPath == "" {
		pushPath = DefaultPushPath
	}
	if !strings.HasPrefix(pushPath, "/") {
		pushPath = "/" + pushPath
	}

	u.Path = pushPath
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// requireMRL percent-decodes mrl and rejects empty references.
func requireMRL(mrl string) (string, error) {
	normalized := strings.TrimSpace(payload.SafeDecode(mrl))
	if normalized == "" {
		return "", jberrors.ErrMissingMRL
	}
	return normalized, nil
}
