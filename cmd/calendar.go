package cmd

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nibzard/dayplan/internal/config"
	"github.com/nibzard/dayplan/internal/planner"
	"github.com/nibzard/dayplan/internal/ui"
)

// calCommand prints a month grid with days that have tasks marked.
func calCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dayplan cal", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	now := today()
	year, month := now.Year, now.Month
	switch fs.NArg() {
	case 0:
	case 1:
		t, err := time.Parse("2006-01", fs.Arg(0))
		if err != nil {
			return fmt.Errorf("invalid month %q: want YYYY-MM", fs.Arg(0))
		}
		year, month = t.Year(), t.Month()
	default:
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}

	store, closeStore, err := openStore(cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return err
	}
	defer closeStore()

	styles := ui.PlainCalendarStyles()
	if ui.IsTTY(os.Stdout) {
		styles = ui.TerminalCalendarStyles()
	}
	marked := ui.MarkedDays(store.TaskDatesInMonth(year, month))
	fmt.Print(ui.RenderMonth(year, month, marked, planner.Date{}, now, styles))
	return nil
}

// slotsCommand lists the time slots with the index accepted by -slot.
func slotsCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	for i, slot := range planner.TimeSlots() {
		fmt.Printf("%2d  %s\n", i, slot)
	}
	return nil
}
