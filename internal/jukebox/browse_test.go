package jukebox

import (
	"context"
	"io"
	"net/http"
	"testing"
)

func TestSongMRL(t *testing.T) {
	tests := []struct {
		album string
		file  string
		want  string
	}{
		{"file:///music/A/B", "01%20Intro.mp3", "file:///music/A/B/01 Intro.mp3"},
		{"file:///music/A/B/", "02.mp3", "file:///music/A/B/02.mp3"},
		{"file:///music/A/B", "file:///elsewhere/03.mp3", "file:///elsewhere/03.mp3"},
	}

	for _, tt := range tests {
		if got := SongMRL(tt.album, tt.file); got != tt.want {
			t.Errorf("SongMRL(%q, %q) = %q, want %q", tt.album, tt.file, got, tt.want)
		}
	}
}

func TestArtistsAndAlbums(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathFolderList {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Query().Get("entryPoint") {
		case "":
			_, _ = io.WriteString(w, `{"folders":["file:///music/beta/","file:///music/Alpha/"]}`)
		case "file:///music/Alpha/":
			_, _ = io.WriteString(w, `{"folders":["file:///music/Alpha/Second","file:///music/Alpha/first"],"files":[]}`)
		default:
			t.Errorf("unexpected entryPoint %q", r.URL.Query().Get("entryPoint"))
		}
	})

	artists, err := c.Artists(context.Background())
	if err != nil {
		t.Fatalf("Artists() error = %v", err)
	}
	if len(artists) != 2 || artists[0].Name != "Alpha" || artists[1].Name != "beta" {
		t.Fatalf("Artists() = %+v", artists)
	}

	albums, err := c.Albums(context.Background(), artists[0].MRL)
	if err != nil {
		t.Fatalf("Albums() error = %v", err)
	}
	if len(albums) != 2 || albums[0].Name != "first" || albums[1].Name != "Second" {
		t.Errorf("Albums() = %+v", albums)
	}
}

func TestSongsUseTagTitles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathFolderList:
			_, _ = io.WriteString(w, `{"files":["b.mp3","a.mp3","c.mp3"]}`)
		case PathTagRead:
			switch r.URL.Query().Get("mrl") {
			case "file:///music/X/Y/a.mp3":
				_, _ = io.WriteString(w, `{"tag":{"title":"Zulu"}}`)
			case "file:///music/X/Y/b.mp3":
				w.WriteHeader(http.StatusNotFound)
			default:
				w.WriteHeader(http.StatusNoContent)
			}
		default:
			http.NotFound(w, r)
		}
	}, WithRetries(0))

	songs, err := c.Songs(context.Background(), "file:///music/X/Y")
	if err != nil {
		t.Fatalf("Songs() error = %v", err)
	}

	want := []string{"b.mp3", "c.mp3", "Zulu"}
	if len(songs) != len(want) {
		t.Fatalf("Songs() = %+v", songs)
	}
	for i, s := range songs {
		if s.Name != want[i] {
			t.Errorf("songs[%d].Name = %q, want %q", i, s.Name, want[i])
		}
	}
	if songs[2].MRL != "file:///music/X/Y/a.mp3" {
		t.Errorf("songs[2].MRL = %q", songs[2].MRL)
	}
}
