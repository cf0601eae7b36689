package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/dayplan/internal/config"
	"github.com/nibzard/dayplan/internal/planner"
)

// priorityCommand dispatches the priority subcommands.
func priorityCommand(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: dayplan priority add|ls|done|undo|rm")
	}
	switch args[0] {
	case "add":
		return priorityAdd(cfg, args[1:])
	case "ls", "list":
		return priorityList(cfg, args[1:])
	case "done":
		return prioritySetCompleted(cfg, args[1:], true)
	case "undo":
		return prioritySetCompleted(cfg, args[1:], false)
	case "rm", "delete":
		return priorityRemove(cfg, args[1:])
	default:
		return fmt.Errorf("unknown priority command: %s", args[0])
	}
}

// priorityAdd promotes the n-th task of the day to a priority.
func priorityAdd(cfg *config.Config, args []string) error {
	store, task, closeStore, err := pickTask(cfg, "dayplan priority add", args)
	if err != nil {
		if errors.Is(err, errNoItems) {
			return fmt.Errorf("no tasks scheduled for this day, add a task first")
		}
		return err
	}
	defer closeStore()

	if err := store.AddPriorityFromTask(task.Date, task.ID); err != nil {
		if errors.Is(err, planner.ErrPriorityLimit) {
			return fmt.Errorf("maximum of %d priorities reached for %s", planner.MaxPriorities, task.Date)
		}
		return err
	}
	fmt.Printf("Prioritized %q on %s\n", task.Name, task.Date)
	return nil
}

func priorityList(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dayplan priority ls", flag.ContinueOnError)
	date := newDateFlag(fs)
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	day, err := dayArg(positional, date)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return err
	}
	defer closeStore()

	priorities := store.Priorities(day)
	fmt.Printf("%s (%d/%d)\n", dayLabel(day), len(priorities), planner.MaxPriorities)
	printPriorities(priorities)
	return nil
}

func pickPriority(cfg *config.Config, name string, args []string) (*planner.Store, planner.Date, planner.PriorityItem, func(), error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	date := newDateFlag(fs)
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return nil, planner.Date{}, planner.PriorityItem{}, nil, err
	}
	if len(positional) != 1 {
		return nil, planner.Date{}, planner.PriorityItem{}, nil, fmt.Errorf("usage: %s <n> [-date D]", name)
	}

	store, closeStore, err := openStore(cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return nil, planner.Date{}, planner.PriorityItem{}, nil, err
	}
	day := date.Date()
	priorities := store.Priorities(day)
	i, err := parseIndex(positional[0], len(priorities), "priority")
	if err != nil {
		closeStore()
		return nil, planner.Date{}, planner.PriorityItem{}, nil, err
	}
	return store, day, priorities[i], closeStore, nil
}

func prioritySetCompleted(cfg *config.Config, args []string, completed bool) error {
	store, day, item, closeStore, err := pickPriority(cfg, "dayplan priority done", args)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.SetPriorityCompleted(day, item.ID, completed); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", checkbox(completed), item.Text)
	return nil
}

func priorityRemove(cfg *config.Config, args []string) error {
	store, day, item, closeStore, err := pickPriority(cfg, "dayplan priority rm", args)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.DeletePriority(day, item); err != nil {
		return err
	}
	fmt.Printf("Removed priority %q\n", item.Text)
	return nil
}

func printPriorities(items []planner.PriorityItem) {
	if len(items) == 0 {
		fmt.Println("  No priorities set.")
		return
	}
	for i, p := range items {
		fmt.Printf("  %d. %s %s\n", i+1, checkbox(p.Completed), p.Text)
	}
}
