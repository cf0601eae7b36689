// Package planner holds the day-planner model: tasks scheduled into hourly
// time slots, up to three priorities per day and a per-day to-do list.
package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxPriorities is the number of priorities a single day can hold.
const MaxPriorities = 3

// DefaultSlot is the index into TimeSlots preselected for new tasks.
const DefaultSlot = 9

var (
	// ErrPriorityLimit is returned when a day already holds MaxPriorities.
	ErrPriorityLimit = errors.New("priority limit reached")
	// ErrNotFound is returned when no item matches an id.
	ErrNotFound = errors.New("not found")
	// ErrNoTasks is returned when a priority is requested for a day without tasks.
	ErrNoTasks = errors.New("no tasks scheduled for this day")
	// ErrInvalidDate is returned for dates that are not real days in years 1-9999.
	ErrInvalidDate = errors.New("date out of range")
)

// Task is one entry in the day schedule.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Date        Date       `json:"date" yaml:"date"`
	TimeSlot    string     `json:"time_slot" yaml:"time_slot"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CreatedAt   *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// NewTask returns an incomplete task with a fresh id.
func NewTask(date Date, slot, name, description string) Task {
	return Task{
		ID:          newID(),
		Date:        date,
		TimeSlot:    slot,
		Name:        name,
		Description: description,
	}
}

// Equal reports whether t and other carry the same content. Ids and
// timestamps are ignored.
func (t Task) Equal(other Task) bool {
	return t.Date == other.Date &&
		t.TimeSlot == other.TimeSlot &&
		t.Name == other.Name &&
		t.Description == other.Description &&
		t.Completed == other.Completed
}

// matches is the delete rule: by id when the probe has one, otherwise by content.
func (t Task) matches(probe Task) bool {
	if probe.ID != "" {
		return t.ID == probe.ID
	}
	return t.Equal(probe)
}

// PriorityItem is one of a day's top priorities. Text is copied from a task
// name when the priority is created.
type PriorityItem struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// NewPriority returns a priority with a fresh id.
func NewPriority(text string) PriorityItem {
	return PriorityItem{ID: newID(), Text: text}
}

// Equal reports whether p and other carry the same content.
func (p PriorityItem) Equal(other PriorityItem) bool {
	return p.Text == other.Text && p.Completed == other.Completed
}

func (p PriorityItem) matches(probe PriorityItem) bool {
	if probe.ID != "" {
		return p.ID == probe.ID
	}
	return p.Equal(probe)
}

// TodoItem is an entry in a day's to-do list.
type TodoItem struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// NewTodo returns an open to-do with a fresh id.
func NewTodo(text string) TodoItem {
	return TodoItem{ID: newID(), Text: text}
}

// Equal reports whether t and other carry the same content.
func (t TodoItem) Equal(other TodoItem) bool {
	return t.Text == other.Text && t.Completed == other.Completed
}

func (t TodoItem) matches(probe TodoItem) bool {
	if probe.ID != "" {
		return t.ID == probe.ID
	}
	return t.Equal(probe)
}

// DayStats summarizes one day.
type DayStats struct {
	Tasks          int
	CompletedTasks int
	Priorities     int
	Todos          int
	CompletedTodos int
}

// TimeSlots returns the 24 hour-long slot labels, zero padded so that they
// sort correctly as plain strings.
func TimeSlots() []string {
	slots := make([]string, 24)
	for i := range slots {
		slots[i] = fmt.Sprintf("%02d:00 - %02d:00", i, i+1)
	}
	return slots
}

func newID() string {
	return uuid.NewString()
}
