// Package playlist holds the track model: normalized titles, sort keys and
// the ordered, index-addressed playlist built from a remote file listing.
package playlist

import (
	"cmp"
	"slices"
)

// Track is a single playable audio file.
type Track struct {
	URL     string // download location
	Title   string // display title derived from Name
	SortKey int    // leading integer of Name, NoSortKey when absent
	Name    string // raw file name from the listing
}

// NewTrack builds a track for the file name, deriving title and sort key.
func NewTrack(url, name string) Track {
	title, key := Normalize(name)
	return Track{
		URL:     url,
		Title:   title,
		SortKey: key,
		Name:    name,
	}
}

// HasNumber reports whether the track name started with a number.
func (t Track) HasNumber() bool {
	return t.SortKey != NoSortKey
}

// Sort orders tracks by sort key. Equal keys keep their relative order.
func Sort(tracks []Track) {
	slices.SortStableFunc(tracks, func(a, b Track) int {
		return cmp.Compare(a.SortKey, b.SortKey)
	})
}

// Playlist holds an ordered, immutable collection of tracks.
type Playlist struct {
	tracks []Track
}

// New creates a playlist from tracks, in the given order.
func New(tracks ...Track) Playlist {
	owned := make([]Track, len(tracks))
	copy(owned, tracks)
	return Playlist{tracks: owned}
}

// Tracks returns a copy of all tracks.
func (p Playlist) Tracks() []Track {
	result := make([]Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Track returns the track at the given index, or nil if out of bounds.
func (p Playlist) Track(index int) *Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	t := p.tracks[index]
	return &t
}

// Len returns the number of tracks.
func (p Playlist) Len() int {
	return len(p.tracks)
}

// IsEmpty returns true if the playlist has no tracks.
func (p Playlist) IsEmpty() bool {
	return len(p.tracks) == 0
}
