package playlist

// PlayingQueue wraps a Playlist with a current position.
// Navigation wraps around both ends.
type PlayingQueue struct {
	playlist     Playlist
	currentIndex int // 0 when empty
}

// NewQueue creates a new empty playing queue.
func NewQueue() *PlayingQueue {
	return &PlayingQueue{}
}

// Current returns the current track, or nil if the queue is empty.
func (q *PlayingQueue) Current() *Track {
	return q.playlist.Track(q.currentIndex)
}

// CurrentIndex returns the index of the current track.
func (q *PlayingQueue) CurrentIndex() int {
	return q.currentIndex
}

// Replace installs a new playlist positioned at index, clamped into
// [0, len-1] (0 for an empty playlist). Returns the clamped index.
func (q *PlayingQueue) Replace(p Playlist, index int) int {
	q.playlist = p
	q.currentIndex = Clamp(index, p.Len())
	return q.currentIndex
}

// JumpTo moves to index wrapped modulo the queue length, so -1 is the last
// track and Len() is the first. Returns nil on an empty queue.
func (q *PlayingQueue) JumpTo(index int) *Track {
	n := q.playlist.Len()
	if n == 0 {
		return nil
	}
	q.currentIndex = Wrap(index, n)
	return q.Current()
}

// Next moves to the following track, wrapping to the first.
func (q *PlayingQueue) Next() *Track {
	return q.JumpTo(q.currentIndex + 1)
}

// Previous moves to the preceding track, wrapping to the last.
func (q *PlayingQueue) Previous() *Track {
	return q.JumpTo(q.currentIndex - 1)
}

// Playlist returns the installed playlist.
func (q *PlayingQueue) Playlist() Playlist {
	return q.playlist
}

// Tracks returns all tracks in the queue.
func (q *PlayingQueue) Tracks() []Track {
	return q.playlist.Tracks()
}

// Len returns the number of tracks in the queue.
func (q *PlayingQueue) Len() int {
	return q.playlist.Len()
}

// IsEmpty returns true if the queue has no tracks.
func (q *PlayingQueue) IsEmpty() bool {
	return q.playlist.IsEmpty()
}

// Wrap maps any index into [0, n). n must be positive.
func Wrap(index, n int) int {
	return ((index % n) + n) % n
}

// Clamp limits index to [0, n-1], or 0 when n is 0.
func Clamp(index, n int) int {
	if n <= 0 || index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}
