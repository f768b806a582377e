package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░]  45% for a 0-100
// percentage. Green from 66, yellow from 33, red below.
func RenderProgress(pct int, width int) string {
	pct = min(max(pct, 0), 100)
	return fmt.Sprintf("[%s] %3d%%", RenderCompactBar(pct, width, false), pct)
}

// RenderCompactBar renders only the blocks, optionally dimmed.
func RenderCompactBar(pct int, width int, dim bool) string {
	pct = min(max(pct, 0), 100)
	width = max(width, 2)

	filled := min(pct*width/100, width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	if dim {
		return Dim(bar)
	}
	switch {
	case pct < 33:
		return StyleRed.Render(bar)
	case pct < 66:
		return StyleYellow.Render(bar)
	default:
		return StyleGreen.Render(bar)
	}
}
