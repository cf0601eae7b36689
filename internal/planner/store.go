package planner

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Backend persists whole collections. Every Save replaces the stored
// collection; every Load returns the whole collection or an error.
type Backend interface {
	LoadTasks() ([]Task, error)
	SaveTasks(tasks []Task) error
	LoadPriorities() (map[string][]PriorityItem, error)
	SavePriorities(buckets map[string][]PriorityItem) error
	LoadTodos() (map[string][]TodoItem, error)
	SaveTodos(buckets map[string][]TodoItem) error
}

// Store owns the planner collections and writes each one through to the
// backend after every mutation.
type Store struct {
	backend Backend
	logger  *log.Logger
	now     func() time.Time

	mu         sync.RWMutex
	tasks      []Task
	priorities map[string][]PriorityItem
	todos      map[string][]TodoItem
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load warnings and write failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for task timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open creates a store and loads all three collections. A collection that
// cannot be loaded starts empty; the others are unaffected.
func Open(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:    backend,
		logger:     log.New(io.Discard),
		now:        time.Now,
		tasks:      []Task{},
		priorities: map[string][]PriorityItem{},
		todos:      map[string][]TodoItem{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	if tasks, err := s.backend.LoadTasks(); err != nil {
		s.logger.Warn("tasks unavailable, starting empty", "err", err)
	} else if tasks != nil {
		s.tasks = tasks
	}

	if priorities, err := s.backend.LoadPriorities(); err != nil {
		s.logger.Warn("priorities unavailable, starting empty", "err", err)
	} else if priorities != nil {
		s.priorities = priorities
	}

	if todos, err := s.backend.LoadTodos(); err != nil {
		s.logger.Warn("todos unavailable, starting empty", "err", err)
	} else if todos != nil {
		s.todos = todos
	}

	s.logger.Debug("store loaded",
		"tasks", len(s.tasks),
		"priority_days", len(s.priorities),
		"todo_days", len(s.todos))
}

// AddTask appends task to the schedule and persists the tasks collection.
// The task is kept in memory even when persisting fails. Tasks on dates
// that cannot be stored are rejected with ErrInvalidDate.
func (s *Store) AddTask(task Task) error {
	if err := checkDate(task.Date); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if task.ID == "" {
		task.ID = newID()
	}
	if task.CreatedAt == nil {
		task.CreatedAt = &now
	}
	task.UpdatedAt = &now
	s.tasks = append(s.tasks, task)
	return s.saveTasksLocked()
}

// DeleteTask removes the first task matching task and persists. Nothing is
// removed when no task matches.
func (s *Store) DeleteTask(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].matches(task) {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	return s.saveTasksLocked()
}

// Task returns the task with the given id.
func (s *Store) Task(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return s.tasks[i], true
		}
	}
	return Task{}, false
}

// TasksForDate returns a new slice of the tasks on date, ordered by time-slot
// label using plain string comparison. Labels therefore need zero-padded
// hours to sort chronologically.
func (s *Store) TasksForDate(date Date) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []Task{}
	for _, t := range s.tasks {
		if t.Date == date {
			result = append(result, t)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TimeSlot < result[j].TimeSlot
	})
	return result
}

// HasTasksForDate reports whether any task is scheduled on date.
func (s *Store) HasTasksForDate(date Date) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks {
		if t.Date == date {
			return true
		}
	}
	return false
}

// TaskDatesInMonth returns the days of the month that have at least one task,
// in ascending order.
func (s *Store) TaskDatesInMonth(year int, month time.Month) []Date {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[Date]bool)
	for _, t := range s.tasks {
		if t.Date.Year == year && t.Date.Month == month {
			seen[t.Date] = true
		}
	}
	dates := make([]Date, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Day < dates[j].Day
	})
	return dates
}

// SetTaskCompleted updates the completion flag of a task and persists.
func (s *Store) SetTaskCompleted(id string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			now := s.now().UTC()
			s.tasks[i].Completed = completed
			s.tasks[i].UpdatedAt = &now
			return s.saveTasksLocked()
		}
	}
	return fmt.Errorf("task %q: %w", id, ErrNotFound)
}

// AddPriority appends item to the priorities of date. When the day already
// holds MaxPriorities the bucket is left unchanged and ErrPriorityLimit is
// returned.
func (s *Store) AddPriority(date Date, item PriorityItem) error {
	if err := checkDate(date); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := date.Key()
	bucket := s.priorities[key]
	if len(bucket) >= MaxPriorities {
		return fmt.Errorf("%s: %w", key, ErrPriorityLimit)
	}
	if item.ID == "" {
		item.ID = newID()
	}
	s.priorities[key] = append(bucket, item)
	return s.savePrioritiesLocked()
}

// AddPriorityFromTask adds a priority whose text is the name of one of the
// tasks scheduled on date.
func (s *Store) AddPriorityFromTask(date Date, taskID string) error {
	if !s.HasTasksForDate(date) {
		return fmt.Errorf("%s: %w", date, ErrNoTasks)
	}
	task, ok := s.Task(taskID)
	if !ok || task.Date != date {
		return fmt.Errorf("task %q on %s: %w", taskID, date, ErrNotFound)
	}
	return s.AddPriority(date, NewPriority(task.Name))
}

// DeletePriority removes the first priority of date matching item and
// persists. It does nothing when the day has no priorities.
func (s *Store) DeletePriority(date Date, item PriorityItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := date.Key()
	bucket, ok := s.priorities[key]
	if !ok {
		return nil
	}
	s.priorities[key] = removeFirst(bucket, func(p PriorityItem) bool { return p.matches(item) })
	return s.savePrioritiesLocked()
}

// Priorities returns a copy of the priorities of date.
func (s *Store) Priorities(date Date) []PriorityItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneBucket(s.priorities[date.Key()])
}

// SetPriorityCompleted updates the completion flag of a priority and persists.
func (s *Store) SetPriorityCompleted(date Date, id string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.priorities[date.Key()]
	for i := range bucket {
		if bucket[i].ID == id {
			bucket[i].Completed = completed
			return s.savePrioritiesLocked()
		}
	}
	return fmt.Errorf("priority %q on %s: %w", id, date, ErrNotFound)
}

// AddTodo appends item to the to-do list of date and persists.
func (s *Store) AddTodo(date Date, item TodoItem) error {
	if err := checkDate(date); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = newID()
	}
	key := date.Key()
	s.todos[key] = append(s.todos[key], item)
	return s.saveTodosLocked()
}

// DeleteTodo removes the first to-do of date matching item and persists. It
// does nothing when the day has no to-dos.
func (s *Store) DeleteTodo(date Date, item TodoItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := date.Key()
	bucket, ok := s.todos[key]
	if !ok {
		return nil
	}
	s.todos[key] = removeFirst(bucket, func(t TodoItem) bool { return t.matches(item) })
	return s.saveTodosLocked()
}

// Todos returns a copy of the to-do list of date.
func (s *Store) Todos(date Date) []TodoItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneBucket(s.todos[date.Key()])
}

// SetTodoCompleted updates the completion flag of a to-do and persists.
func (s *Store) SetTodoCompleted(date Date, id string, completed bool) error {
	return s.updateTodo(date, id, func(t *TodoItem) { t.Completed = completed })
}

// UpdateTodoText replaces the text of a to-do and persists.
func (s *Store) UpdateTodoText(date Date, id, text string) error {
	return s.updateTodo(date, id, func(t *TodoItem) { t.Text = text })
}

func (s *Store) updateTodo(date Date, id string, update func(*TodoItem)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.todos[date.Key()]
	for i := range bucket {
		if bucket[i].ID == id {
			update(&bucket[i])
			return s.saveTodosLocked()
		}
	}
	return fmt.Errorf("todo %q on %s: %w", id, date, ErrNotFound)
}

// Stats summarizes date.
func (s *Store) Stats(date Date) DayStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st DayStats
	for _, t := range s.tasks {
		if t.Date != date {
			continue
		}
		st.Tasks++
		if t.Completed {
			st.CompletedTasks++
		}
	}
	st.Priorities = len(s.priorities[date.Key()])
	for _, t := range s.todos[date.Key()] {
		st.Todos++
		if t.Completed {
			st.CompletedTodos++
		}
	}
	return st
}

// SaveTasks persists the tasks collection.
func (s *Store) SaveTasks() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveTasksLocked()
}

// SavePriorities persists the priorities collection.
func (s *Store) SavePriorities() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.savePrioritiesLocked()
}

// SaveTodos persists the to-dos collection.
func (s *Store) SaveTodos() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveTodosLocked()
}

func (s *Store) saveTasksLocked() error {
	if err := s.backend.SaveTasks(s.tasks); err != nil {
		s.logger.Error("save tasks", "err", err)
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func (s *Store) savePrioritiesLocked() error {
	if err := s.backend.SavePriorities(s.priorities); err != nil {
		s.logger.Error("save priorities", "err", err)
		return fmt.Errorf("save priorities: %w", err)
	}
	return nil
}

func (s *Store) saveTodosLocked() error {
	if err := s.backend.SaveTodos(s.todos); err != nil {
		s.logger.Error("save todos", "err", err)
		return fmt.Errorf("save todos: %w", err)
	}
	return nil
}

// removeFirst drops the first element accepted by match, keeping order.
func checkDate(d Date) error {
	if !d.Valid() {
		return fmt.Errorf("date %s: %w", d, ErrInvalidDate)
	}
	return nil
}

func removeFirst[T any](items []T, match func(T) bool) []T {
	for i := range items {
		if match(items[i]) {
			return append(items[:i:i], items[i+1:]...)
		}
	}
	return items
}

func cloneBucket[T any](items []T) []T {
	result := make([]T, len(items))
	copy(result, items)
	return result
}
