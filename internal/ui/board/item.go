package board

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tripflow/internal/model"
	"github.com/nhle/tripflow/internal/theme"
)

// renderDayHeader draws a day column's title line: day number, date, and
// the day's running cost.
func renderDayHeader(d model.Day, cost float64, currency string, width int) string {
	title := fmt.Sprintf("Day %d · %s", d.Index, d.FormatDate())

	costStr := ""
	if cost > 0 {
		costStr = theme.HelpStyle.Render(
			fmt.Sprintf("%s%.2f", model.CurrencySymbol(currency), cost),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render(title)

	gap := width - lipgloss.Width(header) - lipgloss.Width(costStr)
	if gap < 1 {
		gap = 1
	}
	return header + lipgloss.NewStyle().Width(gap).Render("") + costStr
}

// renderActivityRow draws a single activity line within a day column.
func renderActivityRow(a model.Activity, selected, grabbed, conflict bool, width int) string {
	glyph := theme.CategoryStyle(a.Category).Render(a.Category.Info().Glyph)

	timeStr := ""
	if a.StartTime != "" {
		timeStr = a.StartTime
		if a.EndTime != "" {
			timeStr += "-" + a.EndTime
		}
		timeStr = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(timeStr + " ")
	}

	badge := ""
	if conflict {
		badge = theme.ConflictBadgeStyle.Render(" ⚠")
	}

	// Truncate the plain title before styling so escape codes stay intact.
	maxTitle := width - 4 - lipgloss.Width(timeStr)
	if conflict {
		maxTitle -= 2
	}
	line := fmt.Sprintf("%s %s%s%s", glyph, timeStr, truncate(a.Title, maxTitle), badge)

	switch {
	case grabbed:
		return theme.GrabbedItemStyle.Render(line)
	case selected:
		return theme.SelectedItemStyle.Render(line)
	default:
		return theme.ListItemStyle.Render(line)
	}
}

// truncate trims a plain string to the given display width.
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > width-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
