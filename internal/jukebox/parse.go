package jukebox

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/payload"
)

const unknownVersion = "unknown"

// parseQueue reads {"queue": [{mrl, title, artist, album}, ...]}. Anything
// else is an empty queue.
func parseQueue(raw any) *core.Queue {
	obj, _ := raw.(map[string]any)
	items, _ := obj["queue"].([]any)

	entries := make([]core.QueueEntry, 0, len(items))
	for i, it := range items {
		item, _ := it.(map[string]any)
		mrl := stringOf(item, "mrl")

		name := firstString(item, "title")
		if name == "" {
			name = payload.DecodeMRLName(mrl)
		}
		if name == "" {
			name = fmt.Sprintf("Song %d", i+1)
		}

		entries = append(entries, core.QueueEntry{
			MRL:        mrl,
			Name:       name,
			ArtistName: lo.CoalesceOrEmpty(firstString(item, "artist"), core.UnknownArtist),
			AlbumName:  lo.CoalesceOrEmpty(firstString(item, "album"), core.UnknownAlbum),
		})
	}
	return &core.Queue{Entries: entries}
}

// parseStations accepts a bare array or {"stations": [...]}. Entries may be
// plain MRL strings or objects; entries without an MRL are dropped.
func parseStations(raw any) []core.Station {
	list, ok := raw.([]any)
	if !ok {
		obj, _ := raw.(map[string]any)
		list, _ = obj["stations"].([]any)
	}

	stations := lo.FilterMap(list, func(entry any, i int) (core.Station, bool) {
		var mrl, name string
		switch v := entry.(type) {
		case string:
			mrl = payload.SafeDecode(v)
		case map[string]any:
			mrl = payload.SafeDecode(firstString(v, "mrl", "id", "url"))
			name = firstString(v, "description", "title", "name")
		}
		if strings.TrimSpace(mrl) == "" {
			return core.Station{}, false
		}
		if name == "" {
			name = payload.DecodeMRLName(mrl)
		}
		if name == "" {
			name = fmt.Sprintf("Station %d", i+1)
		}
		return core.Station{MRL: mrl, Name: name}, true
	})

	sortByName(stations, func(s core.Station) string { return s.Name })
	return stations
}

func parseVersion(raw any) string {
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v
		}
	case map[string]any:
		if s := firstString(v, "version"); s != "" {
			return s
		}
	}
	return unknownVersion
}

// parseTagTitle returns the title from a tag payload, looking under "tag"
// then "data" then the root.
func parseTagTitle(raw any) string {
	obj, ok := raw.(map[string]any)
	if !ok {
		return ""
	}
	src := obj
	for _, key := range []string{"tag", "data"} {
		if nested, ok := obj[key].(map[string]any); ok {
			src = nested
			break
		}
	}
	return strings.TrimSpace(firstString(src, "title"))
}

// stringsOf returns the string elements of obj[key].
func stringsOf(obj map[string]any, key string) []string {
	items, _ := obj[key].([]any)
	return lo.FilterMap(items, func(item any, _ int) (string, bool) {
		s, ok := item.(string)
		return s, ok && s != ""
	})
}

func stringOf(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// firstString returns the first non-blank string among obj's keys.
func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringOf(obj, key); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// sortByName sorts items case-insensitively by name, keeping input order for
// equal names.
func sortByName[T any](items []T, name func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		return strings.Compare(strings.ToLower(name(a)), strings.ToLower(name(b)))
	})
}
