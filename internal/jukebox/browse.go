package jukebox

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tessro/jukebox/internal/core"
	"github.com/tessro/jukebox/internal/payload"
)

// maxTagLookups bounds concurrent tag reads when listing an album.
const maxTagLookups = 8

// folderListing is the decoded /api/folder/list response.
type folderListing struct {
	Folders []string
	Files   []string
}

func (c *Client) listFolder(ctx context.Context, entryPoint string) (*folderListing, error) {
	path := PathFolderList
	if entry := payload.SafeDecode(entryPoint); entry != "" {
		path = BuildURL(path, map[string]string{"entryPoint": entry})
	}

	var raw any
	if err := c.Get(ctx, path, &raw); err != nil {
		return nil, err
	}

	obj, _ := raw.(map[string]any)
	return &folderListing{
		Folders: stringsOf(obj, "folders"),
		Files:   stringsOf(obj, "files"),
	}, nil
}

// Artists lists the library's top-level folders.
func (c *Client) Artists(ctx context.Context) ([]core.Artist, error) {
	listing, err := c.listFolder(ctx, "")
	if err != nil {
		return nil, err
	}

	artists := make([]core.Artist, len(listing.Folders))
	for i, mrl := range listing.Folders {
		artists[i] = core.Artist{MRL: mrl, Name: folderName(mrl, i, "Artist")}
	}
	sortByName(artists, func(a core.Artist) string { return a.Name })
	return artists, nil
}

// Albums lists the folders beneath an artist.
func (c *Client) Albums(ctx context.Context, artistMRL string) ([]core.Album, error) {
	listing, err := c.listFolder(ctx, artistMRL)
	if err != nil {
		return nil, err
	}

	albums := make([]core.Album, len(listing.Folders))
	for i, mrl := range listing.Folders {
		albums[i] = core.Album{MRL: mrl, Name: folderName(mrl, i, "Album")}
	}
	sortByName(albums, func(a core.Album) string { return a.Name })
	return albums, nil
}

// Songs lists the files in an album. Names come from each file's tag title
// when the server has one; tag lookup failures fall back to the file name.
func (c *Client) Songs(ctx context.Context, albumMRL string) ([]core.LibrarySong, error) {
	listing, err := c.listFolder(ctx, albumMRL)
	if err != nil {
		return nil, err
	}

	songs := make([]core.LibrarySong, len(listing.Files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxTagLookups)

	for i, file := range listing.Files {
		g.Go(func() error {
			mrl := SongMRL(albumMRL, file)
			name := payload.DecodeMRLName(file)
			if name == "" {
				name = payload.DecodeMRLName(mrl)
			}
			if name == "" {
				name = fmt.Sprintf("Song %d", i+1)
			}

			if title, err := c.tagTitle(gctx, mrl); err == nil && title != "" {
				name = title
			}

			songs[i] = core.LibrarySong{MRL: mrl, Name: name}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortByName(songs, func(s core.LibrarySong) string { return s.Name })
	return songs, nil
}

func (c *Client) tagTitle(ctx context.Context, mrl string) (string, error) {
	mrl = payload.SafeDecode(mrl)
	if mrl == "" {
		return "", nil
	}

	var raw any
	if err := c.Get(ctx, BuildURL(PathTagRead, map[string]string{mrlParam: mrl}), &raw); err != nil {
		return "", err
	}
	return parseTagTitle(raw), nil
}

// SongMRL joins a file entry onto its album MRL. Entries that are already
// absolute file:// references are returned unchanged.
func SongMRL(albumMRL, file string) string {
	if strings.HasPrefix(file, "file://") {
		return file
	}
	if !strings.HasSuffix(albumMRL, "/") {
		albumMRL += "/"
	}
	return albumMRL + payload.SafeDecode(file)
}

func folderName(mrl string, index int, label string) string {
	if name := payload.DecodeMRLName(mrl); name != "" {
		return name
	}
	return fmt.Sprintf("%s %d", label, index+1)
}
