package core

// Station is an internet radio station known to the server.
type Station struct {
	MRL  string `json:"mrl"`
	Name string `json:"name"`
}

// Artist is a top-level library folder.
type Artist struct {
	MRL  string `json:"mrl"`
	Name string `json:"name"`
}

// Album is a folder beneath an artist.
type Album struct {
	MRL  string `json:"mrl"`
	Name string `json:"name"`
}

// LibrarySong is a playable file inside an album folder.
type LibrarySong struct {
	MRL  string `json:"mrl"`
	Name string `json:"name"`
}
