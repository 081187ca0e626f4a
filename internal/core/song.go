package core

// PlayState indicates whether the server is playing, paused, or stopped.
type PlayState string

const (
	PlayStatePlaying PlayState = "PLAYING"
	PlayStatePaused  PlayState = "PAUSED"
	PlayStateStopped PlayState = "STOPPED"
)

// Fallback labels used when the server omits artist or album metadata.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// internetRadioArtist is the artist name the server reports for radio streams.
const internetRadioArtist = "internet radio"

// Song is the currently playing item as reported by the server.
type Song struct {
	MRL        string    `json:"mrl"`
	Name       string    `json:"name"`
	ArtistName string    `json:"artist"`
	AlbumName  string    `json:"album"`
	PlayState  PlayState `json:"play_state"`
}

// IsPlaying returns true if the song is actively playing.
func (s *Song) IsPlaying() bool {
	return s != nil && s.PlayState == PlayStatePlaying
}

// IsPaused returns true if the song is paused.
func (s *Song) IsPaused() bool {
	return s != nil && s.PlayState == PlayStatePaused
}

// IsStopped returns true if there is no song or playback is stopped.
func (s *Song) IsStopped() bool {
	return s == nil || s.PlayState == PlayStateStopped
}

// IsInternetRadio returns true if the song is an internet radio stream.
func (s *Song) IsInternetRadio() bool {
	if s == nil {
		return false
	}
	return normalizeLabel(s.ArtistName) == internetRadioArtist
}
