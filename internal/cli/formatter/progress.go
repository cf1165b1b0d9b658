package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░] 45%. The bar is green above
// two thirds, yellow above one third and red below.
func RenderProgress(pct float64, width int) string {
	pct = min(max(pct, 0), 1)
	width = max(width, 2)

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct < 0.33:
		style = StyleRed
	case pct < 0.66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// SprintProgress renders done/total tasks as a bar with counts.
func SprintProgress(done, total, width int) string {
	if total == 0 {
		return Dim("no tasks")
	}
	return fmt.Sprintf("%s %s", RenderProgress(float64(done)/float64(total), width), Dim(fmt.Sprintf("%d/%d", done, total)))
}
