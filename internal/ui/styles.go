package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	subtle = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	green  = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#73D216"}
	red    = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"}
)

type styles struct {
	title       lipgloss.Style
	pane        lipgloss.Style
	focusedPane lipgloss.Style
	heading     lipgloss.Style
	cursor      lipgloss.Style
	done        lipgloss.Style
	muted       lipgloss.Style
	status      lipgloss.Style
	errStatus   lipgloss.Style
	calendar    CalendarStyles
}

func defaultStyles() styles {
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(subtle).
		Padding(0, 1)

	return styles{
		title:       lipgloss.NewStyle().Bold(true).Foreground(accent),
		pane:        pane,
		focusedPane: pane.BorderForeground(accent),
		heading:     lipgloss.NewStyle().Bold(true),
		cursor:      lipgloss.NewStyle().Foreground(accent).Bold(true),
		done:        lipgloss.NewStyle().Foreground(subtle).Strikethrough(true),
		muted:       lipgloss.NewStyle().Foreground(subtle),
		status:      lipgloss.NewStyle().Foreground(green),
		errStatus:   lipgloss.NewStyle().Foreground(red),
		calendar: CalendarStyles{
			Title:    lipgloss.NewStyle().Bold(true),
			Weekday:  lipgloss.NewStyle().Foreground(subtle),
			Selected: lipgloss.NewStyle().Reverse(true).Bold(true),
			Today:    lipgloss.NewStyle().Underline(true).Bold(true),
			Marked:   lipgloss.NewStyle().Foreground(accent),
		},
	}
}

// TerminalCalendarStyles are the colored calendar styles the planner uses.
func TerminalCalendarStyles() CalendarStyles {
	return defaultStyles().calendar
}
