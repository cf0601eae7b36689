// Package ui provides the interactive terminal planner.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/dayplan/internal/planner"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	logger      *log.Logger
	defaultSlot int
	today       planner.Date
}

// WithLogger sets the logger used for store failures.
func WithLogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDefaultSlot preselects a time slot in the new-task form.
func WithDefaultSlot(slot int) TUIOption {
	return func(c *tuiConfig) {
		c.defaultSlot = slot
	}
}

// WithToday overrides the date the planner opens on.
func WithToday(today planner.Date) TUIOption {
	return func(c *tuiConfig) {
		c.today = today
	}
}

func newTUIConfig(opts []TUIOption) *tuiConfig {
	c := &tuiConfig{
		logger:      log.New(io.Discard),
		defaultSlot: planner.DefaultSlot,
		today:       planner.Today(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.defaultSlot < 0 || c.defaultSlot >= len(planner.TimeSlots()) {
		c.defaultSlot = planner.DefaultSlot
	}
	return c
}

// RunTUI starts the planner on the alternate screen and blocks until the
// user quits or ctx is cancelled.
func RunTUI(ctx context.Context, store *planner.Store, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	m := newModel(store, newTUIConfig(opts))
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
