package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/dayplan/internal/planner"
)

func (m *model) View() string {
	var b strings.Builder
	writeTitle(&b, m.styles)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.styles)
		return b.String()
	}

	calendar := m.paneStyle(paneCalendar).Render(RenderMonth(
		m.selected.Year, m.selected.Month, m.marked, m.selected, m.today, m.styles.calendar))

	var day strings.Builder
	writeDayHeading(&day, m.selected, m.styles)
	m.writeSchedule(&day)
	day.WriteString("\n")
	m.writePriorities(&day)
	day.WriteString("\n")
	m.writeTodos(&day)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, calendar, " ", day.String()))
	b.WriteString("\n")

	switch m.mode {
	case modeAddTask:
		m.writeTaskForm(&b)
	case modeAddTodo, modeEditTodo:
		b.WriteString("\n" + m.input.View() + "\n")
	case modePickPriority:
		m.writePriorityPicker(&b)
	}

	b.WriteString("\n")
	if m.statusOK {
		b.WriteString(m.styles.status.Render(m.status))
	} else {
		b.WriteString(m.styles.errStatus.Render(m.status))
	}
	b.WriteString("\n")
	writeFooter(&b, m.styles)
	return b.String()
}

func (m *model) paneStyle(p pane) lipgloss.Style {
	if m.focus == p && m.mode == modeBrowse {
		return m.styles.focusedPane
	}
	return m.styles.pane
}

func writeTitle(b *strings.Builder, st styles) {
	b.WriteString(st.title.Render("Day Planner"))
	b.WriteString("\n\n")
}

func writeDayHeading(b *strings.Builder, d planner.Date, st styles) {
	b.WriteString(st.heading.Render(d.Time().Format("Monday, January 2 2006")))
	b.WriteString("\n\n")
}

func (m *model) writeSchedule(b *strings.Builder) {
	m.writeSectionHeading(b, paneSchedule, "")
	if len(m.tasks) == 0 {
		b.WriteString(m.styles.muted.Render("  No tasks scheduled."))
		b.WriteString("\n")
		return
	}
	for i, t := range m.tasks {
		line := fmt.Sprintf("%s %s  %s", checkbox(t.Completed), t.TimeSlot, t.Name)
		if t.Description != "" {
			line += m.styles.muted.Render(" - " + truncate(t.Description, 40))
		}
		m.writeRow(b, paneSchedule, i, line, t.Completed)
	}
}

func (m *model) writePriorities(b *strings.Builder) {
	m.writeSectionHeading(b, panePriorities, fmt.Sprintf(" (%d/%d)", len(m.priorities), planner.MaxPriorities))
	if len(m.priorities) == 0 {
		b.WriteString(m.styles.muted.Render("  No priorities set."))
		b.WriteString("\n")
		return
	}
	for i, p := range m.priorities {
		m.writeRow(b, panePriorities, i, fmt.Sprintf("%s %d. %s", checkbox(p.Completed), i+1, p.Text), p.Completed)
	}
}

func (m *model) writeTodos(b *strings.Builder) {
	done := 0
	for _, t := range m.todos {
		if t.Completed {
			done++
		}
	}
	m.writeSectionHeading(b, paneTodos, fmt.Sprintf(" (%d/%d done)", done, len(m.todos)))
	if len(m.todos) == 0 {
		b.WriteString(m.styles.muted.Render("  Nothing to do."))
		b.WriteString("\n")
		return
	}
	for i, t := range m.todos {
		m.writeRow(b, paneTodos, i, fmt.Sprintf("%s %s", checkbox(t.Completed), t.Text), t.Completed)
	}
}

func (m *model) writeSectionHeading(b *strings.Builder, p pane, suffix string) {
	heading := p.String() + suffix
	if m.focus == p {
		b.WriteString(m.styles.cursor.Render("> " + heading))
	} else {
		b.WriteString(m.styles.heading.Render("  " + heading))
	}
	b.WriteString("\n")
}

func (m *model) writeRow(b *strings.Builder, p pane, i int, line string, done bool) {
	if done {
		line = m.styles.done.Render(line)
	}
	if m.focus == p && m.cursors[p] == i {
		b.WriteString(m.styles.cursor.Render("> ") + line)
	} else {
		b.WriteString("  " + line)
	}
	b.WriteString("\n")
}

func (m *model) writeTaskForm(b *strings.Builder) {
	slots := planner.TimeSlots()
	marker := func(field int) string {
		if m.form.field == field {
			return m.styles.cursor.Render(">")
		}
		return " "
	}

	b.WriteString("\n")
	b.WriteString(m.styles.heading.Render("New task for " + m.selected.String()))
	b.WriteString("\n")
	fmt.Fprintf(b, "%s Name        %s\n", marker(fieldName), m.form.name.View())
	fmt.Fprintf(b, "%s Time slot   < %s >\n", marker(fieldSlot), slots[m.form.slot])
	fmt.Fprintf(b, "%s Description %s\n", marker(fieldDescription), m.form.description.View())
}

func (m *model) writePriorityPicker(b *strings.Builder) {
	b.WriteString("\n")
	b.WriteString(m.styles.heading.Render("Prioritize which task?"))
	b.WriteString("\n")
	for i, t := range m.tasks {
		line := fmt.Sprintf("%s  %s", t.TimeSlot, t.Name)
		if i == m.pick {
			b.WriteString(m.styles.cursor.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  tab, shift+tab   Switch pane\n")
	b.WriteString("  arrows, hjkl     Move the day (calendar) or the cursor (lists)\n")
	b.WriteString("  [ ], pgup/pgdn   Previous/next month\n")
	b.WriteString("  t                Jump to today\n")
	b.WriteString("  a                Add to the focused pane\n")
	b.WriteString("  n / p / o        New task / priority / to-do\n")
	b.WriteString("  space, x         Toggle completed\n")
	b.WriteString("  e                Edit the selected to-do\n")
	b.WriteString("  d                Delete the selected item\n")
	b.WriteString("  ?                Toggle this help screen\n")
	b.WriteString("  q, ctrl+c        Quit\n\n")
}

func writeFooter(b *strings.Builder, st styles) {
	b.WriteString(st.muted.Render("? help | tab pane | a add | space toggle | d delete | q quit"))
	b.WriteString("\n")
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
