package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ImportanceBar renders a visual bar for a 0-10 importance score.
// Example: "████████░░ 8/10"
func ImportanceBar(score int, width int) string {
	if width <= 0 {
		width = 10
	}
	filled := score * width / 10
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	return fmt.Sprintf("%s %s", ImportanceStyle(score).Render(bar),
		StyleMuted.Render(fmt.Sprintf("%d/10", score)))
}

// ImportanceStyle picks the band style for an importance score. Bands match
// the diagram classes: critical at 8 and above, high at 5 and above.
func ImportanceStyle(score int) lipgloss.Style {
	switch {
	case score >= 8:
		return StyleError
	case score >= 5:
		return StyleWarning
	default:
		return StyleMuted
	}
}

// TrendArrow returns a styled trend indicator for a delta value.
// Positive delta shows an up arrow, negative shows down, zero shows a dash.
func TrendArrow(delta float64, higherIsBetter bool) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}

	isPositive := delta > 0
	isImproved := (isPositive && higherIsBetter) || (!isPositive && !higherIsBetter)

	var arrow string
	if isPositive {
		arrow = fmt.Sprintf("▲ +%.1f", delta)
	} else {
		arrow = fmt.Sprintf("▼ %.1f", delta)
	}

	if isImproved {
		return StyleSuccess.Render(arrow)
	}
	return StyleError.Render(arrow)
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}
