package player

import (
	"bytes"
	"net/url"
	"path"

	"github.com/dhowden/tag"
)

// readTrackInfo reads tags from the downloaded track. Files without tags get
// a title derived from the URL.
func readTrackInfo(trackURL string, data []byte) *TrackInfo {
	info := &TrackInfo{
		URL:   trackURL,
		Title: titleFromURL(trackURL),
		Size:  int64(len(data)),
	}

	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return info
	}

	if title := m.Title(); title != "" {
		info.Title = title
	}
	info.Artist = m.Artist()
	if info.Artist == "" {
		info.Artist = m.AlbumArtist()
	}
	info.Album = m.Album()
	info.Year = m.Year()
	info.Track, _ = m.Track()

	return info
}

func titleFromURL(trackURL string) string {
	u, err := url.Parse(trackURL)
	if err != nil {
		return path.Base(trackURL)
	}
	return path.Base(u.Path)
}
