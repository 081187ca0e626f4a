package components

import "github.com/mattn/go-runewidth"

// truncate shortens s to at most max display cells.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max <= 3 {
		return runewidth.Truncate(s, max, "")
	}
	return runewidth.Truncate(s, max, "...")
}

// fitPair truncates a title and artist to share available cells, giving the
// artist at least a third of the space (never less than minArtist).
func fitPair(title, artist string, available, minArtist int) (string, string) {
	titleLen := runewidth.StringWidth(title)
	artistLen := runewidth.StringWidth(artist)
	if titleLen+artistLen <= available {
		return title, artist
	}

	artistSpace := available / 3
	if artistSpace < minArtist {
		artistSpace = minArtist
	}
	if artistSpace > available-minArtist {
		artistSpace = available - minArtist
	}
	if artistLen < artistSpace {
		artistSpace = artistLen
	}
	if artistSpace < 0 {
		artistSpace = 0
	}

	return truncate(title, available-artistSpace), truncate(artist, artistSpace)
}
