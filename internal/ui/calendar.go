package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/dayplan/internal/planner"
)

// CalendarStyles decorate individual day cells.
type CalendarStyles struct {
	Title    lipgloss.Style
	Weekday  lipgloss.Style
	Selected lipgloss.Style
	Today    lipgloss.Style
	Marked   lipgloss.Style
}

// PlainCalendarStyles renders without any decoration.
func PlainCalendarStyles() CalendarStyles {
	plain := lipgloss.NewStyle()
	return CalendarStyles{Title: plain, Weekday: plain, Selected: plain, Today: plain, Marked: plain}
}

// MarkedDays turns dates into a day-of-month set.
func MarkedDays(dates []planner.Date) map[int]bool {
	marked := make(map[int]bool, len(dates))
	for _, d := range dates {
		marked[d.Day] = true
	}
	return marked
}

// RenderMonth draws a Sunday-first month grid. Days with tasks carry a '*'
// after the number; selected and today are only distinguished by style, so
// pass a zero Date to skip them.
func RenderMonth(year int, month time.Month, marked map[int]bool, selected, today planner.Date, st CalendarStyles) string {
	const width = 27 // 7 cells of 3 plus 6 separators

	var b strings.Builder
	title := fmt.Sprintf("%s %d", month, year)
	pad := (width - len(title)) / 2
	b.WriteString(st.Title.Render(strings.Repeat(" ", pad) + title))
	b.WriteString("\n")

	days := []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
	for i, d := range days {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(st.Weekday.Render(d + " "))
	}
	b.WriteString("\n")

	offset := int(planner.NewDate(year, month, 1).Weekday())
	total := planner.DaysIn(year, month)
	for i := 0; i < offset; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString("   ")
	}

	col := offset
	for day := 1; day <= total; day++ {
		if col > 0 {
			b.WriteString(" ")
		}

		marker := " "
		if marked[day] {
			marker = "*"
		}
		cell := fmt.Sprintf("%2d%s", day, marker)

		date := planner.NewDate(year, month, day)
		switch {
		case date == selected:
			cell = st.Selected.Render(cell)
		case date == today:
			cell = st.Today.Render(cell)
		case marked[day]:
			cell = st.Marked.Render(cell)
		}
		b.WriteString(cell)

		col++
		if col == 7 && day < total {
			b.WriteString("\n")
			col = 0
		}
	}
	b.WriteString("\n")
	return b.String()
}
