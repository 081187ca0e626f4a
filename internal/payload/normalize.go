package payload

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/tessro/jukebox/internal/core"
)

// Normalize converts an arbitrary decoded payload into a snapshot. A payload
// without a usable song yields the empty snapshot, and progress is discarded
// along with it.
func Normalize(raw any) core.Snapshot {
	root, ok := raw.(map[string]any)
	if !ok {
		return core.Snapshot{}
	}

	song := extractSong(root)
	if song == nil {
		return core.Snapshot{}
	}

	return core.Snapshot{
		Song:     song,
		Progress: extractProgress(root),
	}
}

// NormalizeJSON decodes data and normalizes the result. Undecodable input
// yields the empty snapshot.
func NormalizeJSON(data []byte) core.Snapshot {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return core.Snapshot{}
	}
	return Normalize(raw)
}

func extractSong(root map[string]any) *core.Song {
	mrl, _ := root["mrl"].(string)
	if mrl == "" {
		return nil
	}

	name := stringField(root, "title")
	if name == "" {
		name = DecodeMRLName(mrl)
	}

	artist := stringField(root, "artist")
	if artist == "" {
		artist = core.UnknownArtist
	}

	album := stringField(root, "album")
	if album == "" {
		album = core.UnknownAlbum
	}

	return &core.Song{
		MRL:        mrl,
		Name:       name,
		ArtistName: artist,
		AlbumName:  album,
		PlayState:  parsePlayState(root["playState"]),
	}
}

func parsePlayState(v any) core.PlayState {
	s, _ := v.(string)
	switch state := core.PlayState(strings.ToUpper(strings.TrimSpace(s))); state {
	case core.PlayStatePlaying, core.PlayStatePaused:
		return state
	default:
		return core.PlayStateStopped
	}
}

// stringField returns obj[key] if it is a non-blank string.
func stringField(obj map[string]any, key string) string {
	s, ok := obj[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// extractProgress returns progress from the first candidate source that
// yields a positive duration.
func extractProgress(root map[string]any) *core.Progress {
	for _, key := range SourceKeys {
		src := root
		if key != "" {
			nested, ok := root[key].(map[string]any)
			if !ok {
				continue
			}
			src = nested
		}

		if p, ok := progressFrom(src); ok {
			return &p
		}
	}
	return nil
}

func progressFrom(src map[string]any) (core.Progress, bool) {
	d, ok := firstReading(src, DurationAliases)
	if !ok {
		return core.Progress{}, false
	}
	duration := d.seconds()
	if duration <= 0 || math.IsInf(duration, 0) {
		return core.Progress{}, false
	}

	var current float64
	if c, ok := firstReading(src, CurrentAliases); ok {
		current = c.seconds()
	} else if r, ok := firstReading(src, RatioAliases); ok {
		current = ratioPosition(r.value, duration)
	}

	return core.Progress{
		CurrentSeconds:  math.Min(math.Max(current, 0), duration),
		DurationSeconds: duration,
	}, true
}

// ratioPosition converts a 0-1 or 0-100 ratio into seconds. Out of range
// ratios yield zero.
func ratioPosition(ratio, duration float64) float64 {
	if ratio > 1 && ratio <= 100 {
		ratio /= 100
	}
	if ratio < 0 || ratio > 1 {
		return 0
	}
	return ratio * duration
}
