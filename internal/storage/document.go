// Package storage persists planner collections as versioned documents.
package storage

import (
	"fmt"
	"time"

	"github.com/nibzard/dayplan/internal/planner"
)

// SchemaVersion is the document format written by this package. Documents
// with any other version are rejected on load.
const SchemaVersion = 1

// Kind names a persisted collection. It doubles as the engine key.
type Kind string

const (
	KindTasks      Kind = "tasks"
	KindPriorities Kind = "priorities"
	KindTodos      Kind = "todos"
)

// Document is the envelope around one whole collection.
type Document struct {
	SchemaVersion int                               `json:"schema_version" yaml:"schema_version"`
	Kind          Kind                              `json:"kind" yaml:"kind"`
	SavedAt       *time.Time                        `json:"saved_at,omitempty" yaml:"saved_at,omitempty"`
	Tasks         []planner.Task                    `json:"tasks,omitempty" yaml:"tasks,omitempty"`
	Priorities    map[string][]planner.PriorityItem `json:"priorities,omitempty" yaml:"priorities,omitempty"`
	Todos         map[string][]planner.TodoItem     `json:"todos,omitempty" yaml:"todos,omitempty"`
}

// newDocument stamps an envelope for kind.
func newDocument(kind Kind, now time.Time) *Document {
	saved := now.UTC()
	return &Document{
		SchemaVersion: SchemaVersion,
		Kind:          kind,
		SavedAt:       &saved,
	}
}

// check verifies the envelope header against the expected kind.
func (d *Document) check(want Kind) error {
	if d.SchemaVersion != SchemaVersion {
		return &ValidationError{
			Path: "schema_version",
			Err:  fmt.Errorf("expected %d, got %d", SchemaVersion, d.SchemaVersion),
		}
	}
	if d.Kind != want {
		return &ValidationError{
			Path: "kind",
			Err:  fmt.Errorf("expected %q, got %q", want, d.Kind),
		}
	}
	return nil
}
