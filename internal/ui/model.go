package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/dayplan/internal/planner"
)

type pane int

const (
	paneCalendar pane = iota
	paneSchedule
	panePriorities
	paneTodos
	paneCount
)

func (p pane) String() string {
	switch p {
	case paneCalendar:
		return "Calendar"
	case paneSchedule:
		return "Schedule"
	case panePriorities:
		return "Priorities"
	case paneTodos:
		return "To-dos"
	}
	return "?"
}

type mode int

const (
	modeBrowse mode = iota
	modeAddTask
	modeAddTodo
	modeEditTodo
	modePickPriority
	modeConfirmDelete
)

// Task form fields, in tab order.
const (
	fieldName = iota
	fieldSlot
	fieldDescription
	fieldCount
)

type taskForm struct {
	name        textinput.Model
	description textinput.Model
	slot        int
	field       int
}

type pendingDelete struct {
	pane     pane
	task     planner.Task
	priority planner.PriorityItem
	todo     planner.TodoItem
	label    string
}

type model struct {
	store       *planner.Store
	logger      *log.Logger
	styles      styles
	today       planner.Date
	selected    planner.Date
	defaultSlot int

	focus   pane
	mode    mode
	cursors [paneCount]int

	tasks      []planner.Task
	priorities []planner.PriorityItem
	todos      []planner.TodoItem
	marked     map[int]bool

	form     taskForm
	input    textinput.Model
	editID   string
	pick     int
	pending  *pendingDelete
	status   string
	statusOK bool
	showHelp bool
	width    int
}

func newModel(store *planner.Store, cfg *tuiConfig) *model {
	m := &model{
		store:       store,
		logger:      cfg.logger,
		styles:      defaultStyles(),
		today:       cfg.today,
		selected:    cfg.today,
		defaultSlot: cfg.defaultSlot,
		focus:       paneCalendar,
		input:       newInput("What needs doing?"),
		form: taskForm{
			name:        newInput("Task name"),
			description: newInput("Description (optional)"),
		},
	}
	m.refresh()
	m.setInfo("Press a to add, tab to switch panes, ? for help.")
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 40
	return ti
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := max(msg.Width-20, 20)
		m.input.Width = w
		m.form.name.Width = w
		m.form.description.Width = w
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAddTask:
			return m.updateTaskForm(msg)
		case modeAddTodo, modeEditTodo:
			return m.updateTodoInput(msg)
		case modePickPriority:
			return m.updatePriorityPicker(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m *model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "tab":
		m.focus = (m.focus + 1) % paneCount
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + paneCount - 1) % paneCount
		return m, nil
	case "t":
		m.selectDate(m.today)
		return m, nil
	case "[", "pgup":
		m.selectDate(m.selected.AddMonths(-1))
		return m, nil
	case "]", "pgdown":
		m.selectDate(m.selected.AddMonths(1))
		return m, nil
	case "n":
		return m.startTaskForm()
	case "p":
		return m.startPriorityPicker()
	case "o":
		return m.startTodoInput()
	}

	if m.focus == paneCalendar {
		return m.updateCalendar(key)
	}
	return m.updateList(key)
}

func (m *model) updateCalendar(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "left", "h":
		m.selectDate(m.selected.AddDays(-1))
	case "right", "l":
		m.selectDate(m.selected.AddDays(1))
	case "up", "k":
		m.selectDate(m.selected.AddDays(-7))
	case "down", "j":
		m.selectDate(m.selected.AddDays(7))
	case "enter":
		m.focus = paneSchedule
	case "a":
		return m.startTaskForm()
	}
	return m, nil
}

func (m *model) updateList(key string) (tea.Model, tea.Cmd) {
	n := m.listLen(m.focus)
	switch key {
	case "up", "k":
		m.cursors[m.focus] = clampCursor(m.cursors[m.focus]-1, n)
	case "down", "j":
		m.cursors[m.focus] = clampCursor(m.cursors[m.focus]+1, n)
	case "a":
		switch m.focus {
		case paneSchedule:
			return m.startTaskForm()
		case panePriorities:
			return m.startPriorityPicker()
		case paneTodos:
			return m.startTodoInput()
		}
	case " ", "x":
		m.toggleSelected()
	case "d", "delete", "backspace":
		m.confirmDeleteSelected()
	case "e":
		if m.focus == paneTodos {
			return m.startTodoEdit()
		}
	}
	return m, nil
}

func (m *model) listLen(p pane) int {
	switch p {
	case paneSchedule:
		return len(m.tasks)
	case panePriorities:
		return len(m.priorities)
	case paneTodos:
		return len(m.todos)
	}
	return 0
}

// selectDate moves the selection and reloads the day.
func (m *model) selectDate(d planner.Date) {
	if d != m.selected {
		m.cursors = [paneCount]int{}
	}
	m.selected = d
	m.refresh()
}

// refresh re-queries the store for the selected day.
func (m *model) refresh() {
	m.tasks = m.store.TasksForDate(m.selected)
	m.priorities = m.store.Priorities(m.selected)
	m.todos = m.store.Todos(m.selected)
	m.marked = MarkedDays(m.store.TaskDatesInMonth(m.selected.Year, m.selected.Month))
	for p := paneSchedule; p < paneCount; p++ {
		m.cursors[p] = clampCursor(m.cursors[p], m.listLen(p))
	}
}

func (m *model) toggleSelected() {
	var err error
	switch m.focus {
	case paneSchedule:
		if len(m.tasks) == 0 {
			return
		}
		t := m.tasks[m.cursors[paneSchedule]]
		err = m.store.SetTaskCompleted(t.ID, !t.Completed)
	case panePriorities:
		if len(m.priorities) == 0 {
			return
		}
		p := m.priorities[m.cursors[panePriorities]]
		err = m.store.SetPriorityCompleted(m.selected, p.ID, !p.Completed)
	case paneTodos:
		if len(m.todos) == 0 {
			return
		}
		t := m.todos[m.cursors[paneTodos]]
		err = m.store.SetTodoCompleted(m.selected, t.ID, !t.Completed)
	default:
		return
	}
	m.refresh()
	if err != nil {
		m.fail("toggle failed", err)
		return
	}
	m.setInfo("Updated")
}

func (m *model) confirmDeleteSelected() {
	pd := &pendingDelete{pane: m.focus}
	switch m.focus {
	case paneSchedule:
		if len(m.tasks) == 0 {
			return
		}
		pd.task = m.tasks[m.cursors[paneSchedule]]
		pd.label = pd.task.Name
	case panePriorities:
		if len(m.priorities) == 0 {
			return
		}
		pd.priority = m.priorities[m.cursors[panePriorities]]
		pd.label = pd.priority.Text
	case paneTodos:
		if len(m.todos) == 0 {
			return
		}
		pd.todo = m.todos[m.cursors[paneTodos]]
		pd.label = pd.todo.Text
	default:
		return
	}
	m.pending = pd
	m.mode = modeConfirmDelete
	m.setInfo(fmt.Sprintf("Delete %q? y/n", pd.label))
}

func (m *model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		pd := m.pending
		m.pending = nil
		m.mode = modeBrowse
		if pd == nil {
			return m, nil
		}

		var err error
		switch pd.pane {
		case paneSchedule:
			err = m.store.DeleteTask(pd.task)
		case panePriorities:
			err = m.store.DeletePriority(m.selected, pd.priority)
		case paneTodos:
			err = m.store.DeleteTodo(m.selected, pd.todo)
		}
		m.refresh()
		if err != nil {
			m.fail("delete failed", err)
			return m, nil
		}
		m.setInfo(fmt.Sprintf("Deleted %q", pd.label))
	case "n", "N", "esc":
		m.pending = nil
		m.mode = modeBrowse
		m.setInfo("Delete cancelled")
	}
	return m, nil
}

func (m *model) startTaskForm() (tea.Model, tea.Cmd) {
	m.focus = paneSchedule
	m.mode = modeAddTask
	m.form.name.SetValue("")
	m.form.description.SetValue("")
	m.form.slot = m.defaultSlot
	m.form.field = fieldName
	m.form.description.Blur()
	m.setInfo(fmt.Sprintf("New task for %s: tab to move, left/right picks the slot, enter saves, esc cancels", m.selected))
	return m, m.form.name.Focus()
}

func (m *model) updateTaskForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	slots := planner.TimeSlots()
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.form.name.Blur()
		m.form.description.Blur()
		m.setInfo("Cancelled")
		return m, nil
	case "tab", "down":
		return m, m.focusField((m.form.field + 1) % fieldCount)
	case "shift+tab", "up":
		return m, m.focusField((m.form.field + fieldCount - 1) % fieldCount)
	case "enter":
		name := strings.TrimSpace(m.form.name.Value())
		if name == "" {
			m.setError("Task name cannot be empty")
			return m, m.focusField(fieldName)
		}
		task := planner.NewTask(m.selected, slots[m.form.slot], name, strings.TrimSpace(m.form.description.Value()))
		err := m.store.AddTask(task)
		m.mode = modeBrowse
		m.form.name.Blur()
		m.form.description.Blur()
		m.refresh()
		if err != nil {
			m.fail("save failed", err)
			return m, nil
		}
		for i, t := range m.tasks {
			if t.ID == task.ID {
				m.cursors[paneSchedule] = i
			}
		}
		m.setInfo(fmt.Sprintf("Added %q at %s", name, task.TimeSlot))
		return m, nil
	}

	if m.form.field == fieldSlot {
		switch msg.String() {
		case "left", "h", "-":
			m.form.slot = (m.form.slot + len(slots) - 1) % len(slots)
		case "right", "l", "+":
			m.form.slot = (m.form.slot + 1) % len(slots)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.form.field == fieldName {
		m.form.name, cmd = m.form.name.Update(msg)
	} else {
		m.form.description, cmd = m.form.description.Update(msg)
	}
	return m, cmd
}

func (m *model) focusField(field int) tea.Cmd {
	m.form.field = field
	m.form.name.Blur()
	m.form.description.Blur()
	switch field {
	case fieldName:
		return m.form.name.Focus()
	case fieldDescription:
		return m.form.description.Focus()
	}
	return nil
}

func (m *model) startTodoInput() (tea.Model, tea.Cmd) {
	m.focus = paneTodos
	m.mode = modeAddTodo
	m.editID = ""
	m.input.SetValue("")
	m.setInfo("New to-do: enter saves, esc cancels")
	return m, m.input.Focus()
}

func (m *model) startTodoEdit() (tea.Model, tea.Cmd) {
	if len(m.todos) == 0 {
		return m, nil
	}
	todo := m.todos[m.cursors[paneTodos]]
	m.mode = modeEditTodo
	m.editID = todo.ID
	m.input.SetValue(todo.Text)
	m.input.CursorEnd()
	m.setInfo("Edit to-do: enter saves, esc cancels")
	return m, m.input.Focus()
}

func (m *model) updateTodoInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		m.setInfo("Cancelled")
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			m.setError("To-do text cannot be empty")
			return m, nil
		}

		var err error
		if m.mode == modeEditTodo {
			err = m.store.UpdateTodoText(m.selected, m.editID, text)
		} else {
			err = m.store.AddTodo(m.selected, planner.NewTodo(text))
		}
		editing := m.mode == modeEditTodo
		m.mode = modeBrowse
		m.input.Blur()
		m.refresh()
		if err != nil {
			m.fail("save failed", err)
			return m, nil
		}
		if editing {
			m.setInfo("To-do updated")
		} else {
			m.cursors[paneTodos] = clampCursor(len(m.todos)-1, len(m.todos))
			m.setInfo(fmt.Sprintf("Added %q", text))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) startPriorityPicker() (tea.Model, tea.Cmd) {
	m.focus = panePriorities
	if len(m.tasks) == 0 {
		m.setError("No tasks scheduled for this day")
		return m, nil
	}
	if len(m.priorities) >= planner.MaxPriorities {
		m.setError(fmt.Sprintf("Maximum of %d priorities reached", planner.MaxPriorities))
		return m, nil
	}
	m.mode = modePickPriority
	m.pick = 0
	m.setInfo("Pick a task to prioritize: up/down, enter selects, esc cancels")
	return m, nil
}

func (m *model) updatePriorityPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeBrowse
		m.setInfo("Cancelled")
	case "up", "k":
		m.pick = clampCursor(m.pick-1, len(m.tasks))
	case "down", "j":
		m.pick = clampCursor(m.pick+1, len(m.tasks))
	case "enter":
		m.mode = modeBrowse
		if len(m.tasks) == 0 {
			return m, nil
		}
		task := m.tasks[clampCursor(m.pick, len(m.tasks))]
		err := m.store.AddPriorityFromTask(m.selected, task.ID)
		m.refresh()
		switch {
		case errors.Is(err, planner.ErrPriorityLimit):
			m.setError(fmt.Sprintf("Maximum of %d priorities reached", planner.MaxPriorities))
		case err != nil:
			m.fail("save failed", err)
		default:
			m.cursors[panePriorities] = clampCursor(len(m.priorities)-1, len(m.priorities))
			m.setInfo(fmt.Sprintf("Prioritized %q", task.Name))
		}
	}
	return m, nil
}

func (m *model) setInfo(s string) {
	m.status = s
	m.statusOK = true
}

func (m *model) setError(s string) {
	m.status = s
	m.statusOK = false
}

// fail reports a store error on the status line and in the log.
func (m *model) fail(action string, err error) {
	m.logger.Error(action, "date", m.selected.String(), "err", err)
	m.setError(fmt.Sprintf("%s: %v", action, err))
}

func clampCursor(cur, n int) int {
	if n <= 0 || cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
