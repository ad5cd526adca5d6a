// Package ui holds sizes shared by the panels.
package ui

const (
	// BorderSize is the cells a rounded border takes on each side.
	BorderSize = 1

	// TitleRows is a panel title plus the rule under it.
	TitleRows = 2

	// ScrollMargin is the rows kept between the cursor and the list edge.
	ScrollMargin = 3

	MinProgressBarWidth = 5

	// PromptWidth is the outer width of the identifier prompt.
	PromptWidth = 56
)
