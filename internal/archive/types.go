package archive

import "time"

// Attempt describes one metadata request.
type Attempt struct {
	Identifier string
	Number     int           // 1-based
	Max        int           // total attempts allowed
	Err        error         // nil on success
	RetryIn    time.Duration // delay before the next attempt, 0 if none follows
}

// Final returns true if no attempt follows this one.
func (a Attempt) Final() bool {
	return a.Err == nil || a.RetryIn == 0
}

// metadataResponse is the subset of the metadata API that is read.
type metadataResponse struct {
	Files []fileEntry `json:"files"`
}

type fileEntry struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Size   string `json:"size,omitempty"`
	Length string `json:"length,omitempty"`
}
