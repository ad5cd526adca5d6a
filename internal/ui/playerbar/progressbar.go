package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/taplist/internal/ui"
	"github.com/llehouerou/taplist/internal/ui/styles"
)

// RenderProgressBar renders a line-style progress bar of exactly width cells.
func RenderProgressBar(position, duration time.Duration, width int) string {
	width = max(width, ui.MinProgressBarWidth)

	var ratio float64
	if duration > 0 {
		ratio = float64(position) / float64(duration)
	}
	ratio = min(max(ratio, 0), 1)
	filled := min(int(float64(width)*ratio), width)

	// The filled part warms toward the end of the track.
	end := styles.Blend(width, styles.T().Primary, styles.T().Secondary)[max(filled-1, 0)]
	return styles.Gradient(strings.Repeat("━", filled), lipgloss.NewStyle(), styles.T().Primary, end) +
		progressEmptyStyle().Render(strings.Repeat("─", width-filled))
}
