package playerbar

import "fmt"

// RenderVolume renders the volume indicator.
// Format: "vol  80%" or "muted" when muted.
func RenderVolume(volume float64, muted bool) string {
	if muted {
		return timeStyle().Render("muted")
	}
	pct := int(volume*100 + 0.5)
	return timeStyle().Render(fmt.Sprintf("vol %3d%%", pct))
}
