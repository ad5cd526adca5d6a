// Package layout provides pure functions for UI dimension calculations.
package layout

// Chrome holds the heights of the fixed rows stacked around the track list.
// A hidden row has height 0.
type Chrome struct {
	Header int
	Player int
	Status int
	Help   int
}

// Rows returns the total height of the chrome.
func (c Chrome) Rows() int {
	return c.Header + c.Player + c.Status + c.Help
}

// Fill returns the rows left for the track list in a window of the given
// height. Never negative.
func (c Chrome) Fill(height int) int {
	return max(height-c.Rows(), 0)
}
