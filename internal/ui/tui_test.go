package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/dayplan/internal/planner"
	"github.com/nibzard/dayplan/internal/storage"
)

var march10 = planner.NewDate(2024, time.March, 10)

func newTestModel(t *testing.T) (*model, *planner.Store) {
	t.Helper()
	backend, err := storage.Open(storage.Options{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { backend.Close() })

	store := planner.Open(backend)
	return newModel(store, newTUIConfig([]TUIOption{WithToday(march10)})), store
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func typeText(m *model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func addTask(t *testing.T, store *planner.Store, slot, name string) {
	t.Helper()
	if err := store.AddTask(planner.NewTask(march10, slot, name, "")); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
}

func TestAddTaskFlow(t *testing.T) {
	m, store := newTestModel(t)

	press(m, "a")
	if m.mode != modeAddTask {
		t.Fatalf("mode = %v, want add task", m.mode)
	}
	typeText(m, "Study")
	press(m, "tab", "right", "tab")
	typeText(m, "Math")
	press(m, "enter")

	if m.mode != modeBrowse {
		t.Errorf("mode = %v after enter, want browse", m.mode)
	}
	tasks := store.TasksForDate(march10)
	if len(tasks) != 1 {
		t.Fatalf("TasksForDate = %d tasks, want 1", len(tasks))
	}
	got := tasks[0]
	if got.Name != "Study" || got.Description != "Math" || got.TimeSlot != "10:00 - 11:00" {
		t.Errorf("task = %+v", got)
	}
	if !m.marked[10] {
		t.Error("calendar should mark the 10th")
	}
	if m.focus != paneSchedule {
		t.Errorf("focus = %v, want schedule", m.focus)
	}
}

func TestAddTaskRejectsEmptyName(t *testing.T) {
	m, store := newTestModel(t)

	press(m, "n")
	typeText(m, "   ")
	press(m, "enter")

	if m.mode != modeAddTask {
		t.Errorf("mode = %v, want form to stay open", m.mode)
	}
	if !strings.Contains(m.status, "cannot be empty") {
		t.Errorf("status = %q", m.status)
	}
	if store.HasTasksForDate(march10) {
		t.Error("empty task reached the store")
	}

	press(m, "esc")
	if m.mode != modeBrowse {
		t.Errorf("mode = %v after esc", m.mode)
	}
}

func TestTodoToggleEditDelete(t *testing.T) {
	m, store := newTestModel(t)

	press(m, "o")
	typeText(m, "Buy milk")
	press(m, "enter")
	if todos := store.Todos(march10); len(todos) != 1 || todos[0].Text != "Buy milk" {
		t.Fatalf("Todos = %+v", todos)
	}

	press(m, " ")
	if !store.Todos(march10)[0].Completed {
		t.Error("space should complete the to-do")
	}

	press(m, "e")
	typeText(m, " and eggs")
	press(m, "enter")
	if got := store.Todos(march10)[0].Text; got != "Buy milk and eggs" {
		t.Errorf("edited text = %q", got)
	}

	press(m, "d")
	if m.mode != modeConfirmDelete {
		t.Fatalf("mode = %v, want confirm", m.mode)
	}
	press(m, "n")
	if len(store.Todos(march10)) != 1 {
		t.Error("declined delete removed the to-do")
	}

	press(m, "d", "y")
	if len(store.Todos(march10)) != 0 {
		t.Error("confirmed delete kept the to-do")
	}
	if m.mode != modeBrowse {
		t.Errorf("mode = %v after delete", m.mode)
	}
}

func TestDeleteTaskFromSchedule(t *testing.T) {
	m, store := newTestModel(t)
	addTask(t, store, "09:00 - 10:00", "Study")
	addTask(t, store, "14:00 - 15:00", "Gym")
	m.refresh()

	press(m, "tab", "down", "d", "y")

	tasks := store.TasksForDate(march10)
	if len(tasks) != 1 || tasks[0].Name != "Study" {
		t.Errorf("TasksForDate = %+v", tasks)
	}
	if m.cursors[paneSchedule] != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursors[paneSchedule])
	}
}

func TestToggleTask(t *testing.T) {
	m, store := newTestModel(t)
	addTask(t, store, "09:00 - 10:00", "Study")
	m.refresh()

	press(m, "tab", "x")
	if !store.TasksForDate(march10)[0].Completed {
		t.Error("x should complete the task")
	}
	press(m, "x")
	if store.TasksForDate(march10)[0].Completed {
		t.Error("second x should reopen the task")
	}
}

func TestPriorityPicker(t *testing.T) {
	m, store := newTestModel(t)

	press(m, "p")
	if m.mode != modeBrowse || !strings.Contains(m.status, "No tasks") {
		t.Fatalf("picker on empty day: mode %v, status %q", m.mode, m.status)
	}

	addTask(t, store, "14:00 - 15:00", "Gym")
	addTask(t, store, "09:00 - 10:00", "Study")
	m.refresh()

	press(m, "p")
	if m.mode != modePickPriority {
		t.Fatalf("mode = %v, want picker", m.mode)
	}
	press(m, "down", "enter")

	priorities := store.Priorities(march10)
	if len(priorities) != 1 || priorities[0].Text != "Gym" {
		t.Fatalf("Priorities = %+v", priorities)
	}

	press(m, "p", "enter", "p", "enter")
	if got := len(store.Priorities(march10)); got != planner.MaxPriorities {
		t.Fatalf("priorities = %d, want %d", got, planner.MaxPriorities)
	}

	press(m, "p")
	if m.mode != modeBrowse || !strings.Contains(m.status, "Maximum") {
		t.Errorf("full day: mode %v, status %q", m.mode, m.status)
	}
	if got := len(store.Priorities(march10)); got != planner.MaxPriorities {
		t.Errorf("priorities = %d after refused add", got)
	}
}

func TestCalendarNavigation(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "right")
	if m.selected != planner.NewDate(2024, time.March, 11) {
		t.Errorf("right: selected %v", m.selected)
	}
	press(m, "up")
	if m.selected != planner.NewDate(2024, time.March, 4) {
		t.Errorf("up: selected %v", m.selected)
	}
	press(m, "]")
	if m.selected != planner.NewDate(2024, time.April, 4) {
		t.Errorf("]: selected %v", m.selected)
	}
	press(m, "t")
	if m.selected != march10 {
		t.Errorf("t: selected %v", m.selected)
	}
	press(m, "shift+tab")
	if m.focus != paneTodos {
		t.Errorf("shift+tab from calendar: focus %v", m.focus)
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)

	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}

	// Typing q into a form must not quit.
	press(m, "o", "q")
	if m.mode != modeAddTodo {
		t.Errorf("mode = %v, want to-do input", m.mode)
	}
	if m.input.Value() != "q" {
		t.Errorf("input = %q", m.input.Value())
	}
}

func TestViewRendersDay(t *testing.T) {
	m, store := newTestModel(t)
	addTask(t, store, "09:00 - 10:00", "Study")
	if err := store.AddTodo(march10, planner.NewTodo("Buy milk")); err != nil {
		t.Fatal(err)
	}
	m.refresh()

	view := m.View()
	for _, want := range []string{"Day Planner", "March 2024", "Sunday, March 10 2024", "09:00 - 10:00", "Study", "Priorities (0/3)", "Buy milk"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	press(m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help screen not shown")
	}
}

func TestRenderMonth(t *testing.T) {
	marked := MarkedDays([]planner.Date{march10, planner.NewDate(2024, time.March, 31)})
	out := RenderMonth(2024, time.March, marked, planner.Date{}, planner.Date{}, PlainCalendarStyles())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8:\n%s", len(lines), out)
	}
	if strings.TrimSpace(lines[0]) != "March 2024" {
		t.Errorf("title = %q", lines[0])
	}
	// March 1st 2024 is a Friday.
	if lines[2] != strings.Repeat(" ", 20)+" 1   2 " {
		t.Errorf("first week = %q", lines[2])
	}
	if !strings.Contains(lines[4], "10*") {
		t.Errorf("third week should mark the 10th: %q", lines[4])
	}
	if lines[7] != "31*" {
		t.Errorf("last week = %q", lines[7])
	}
}

func TestNilLoggerKeepsDefault(t *testing.T) {
	cfg := newTUIConfig([]TUIOption{WithLogger(nil)})
	if cfg.logger == nil {
		t.Fatal("WithLogger(nil) cleared the logger")
	}

	backend, err := storage.Open(storage.Options{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { backend.Close() })
	m := newModel(planner.Open(backend), newTUIConfig([]TUIOption{WithLogger(nil), WithToday(march10)}))

	// A store error goes through the logger before reaching the status line.
	m.selected = planner.NewDate(9999, time.December, 31).AddDays(1)
	press(m, "o")
	typeText(m, "Buy milk")
	press(m, "enter")
	if m.statusOK || m.status == "" {
		t.Errorf("status = %q, ok = %v; want the store error", m.status, m.statusOK)
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer reported as TTY")
	}
}
