package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nibzard/dayplan/internal/config"
	"github.com/nibzard/dayplan/internal/planner"
)

// todayCommand prints the agenda for one day.
func todayCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dayplan today", flag.ContinueOnError)
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

	stats := store.Stats(day)
	fmt.Println(dayLabel(day))
	fmt.Println()
	fmt.Printf("Schedule (%d/%d done):\n", stats.CompletedTasks, stats.Tasks)
	printTasks(store.TasksForDate(day))
	fmt.Println()
	fmt.Printf("Priorities (%d/%d):\n", stats.Priorities, planner.MaxPriorities)
	printPriorities(store.Priorities(day))
	fmt.Println()
	fmt.Printf("To-dos (%d/%d done):\n", stats.CompletedTodos, stats.Todos)
	printTodos(store.Todos(day))
	return nil
}

// taskCommand dispatches the task subcommands.
func taskCommand(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: dayplan task add|ls|done|undo|rm")
	}
	switch args[0] {
	case "add":
		return taskAdd(cfg, args[1:])
	case "ls", "list":
		return taskList(cfg, args[1:])
	case "done":
		return taskSetCompleted(cfg, args[1:], true)
	case "undo":
		return taskSetCompleted(cfg, args[1:], false)
	case "rm", "delete":
		return taskRemove(cfg, args[1:])
	default:
		return fmt.Errorf("unknown task command: %s", args[0])
	}
}

func taskAdd(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dayplan task add", flag.ContinueOnError)
	date := newDateFlag(fs)
	name := fs.String("name", "", "Task name (required)")
	desc := fs.String("desc", "", "Task description")
	slotFlag := fs.String("slot", "", "Time slot: index, hour or full label (default from config)")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if *name == "" && len(positional) > 0 {
		*name = strings.Join(positional, " ")
	} else if len(positional) > 0 {
		return fmt.Errorf("unexpected arguments: %v", positional)
	}
	if strings.TrimSpace(*name) == "" {
		return fmt.Errorf("task name cannot be empty")
	}

	slot := planner.TimeSlots()[cfg.DefaultSlot]
	if *slotFlag != "" {
		if slot, err = parseSlot(*slotFlag); err != nil {
			return err
		}
	}

	store, closeStore, err := openStore(cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return err
	}
	defer closeStore()

	day := date.Date()
	task := planner.NewTask(day, slot, strings.TrimSpace(*name), strings.TrimSpace(*desc))
	if err := store.AddTask(task); err != nil {
		return err
	}
	fmt.Printf("Added %s %q on %s\n", slot, task.Name, day)
	return nil
}

func taskList(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dayplan task ls", flag.ContinueOnError)
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

	fmt.Println(dayLabel(day))
	printTasks(store.TasksForDate(day))
	return nil
}

// pickTask resolves "<n> [-date D]" against the day's schedule.
func pickTask(cfg *config.Config, name string, args []string) (*planner.Store, planner.Task, func(), error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	date := newDateFlag(fs)
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return nil, planner.Task{}, nil, err
	}
	if len(positional) != 1 {
		return nil, planner.Task{}, nil, fmt.Errorf("usage: %s <n> [-date D]", name)
	}

	store, closeStore, err := openStore(cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return nil, planner.Task{}, nil, err
	}
	tasks := store.TasksForDate(date.Date())
	i, err := parseIndex(positional[0], len(tasks), "task")
	if err != nil {
		closeStore()
		return nil, planner.Task{}, nil, err
	}
	return store, tasks[i], closeStore, nil
}

func taskSetCompleted(cfg *config.Config, args []string, completed bool) error {
	store, task, closeStore, err := pickTask(cfg, "dayplan task done", args)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.SetTaskCompleted(task.ID, completed); err != nil {
		return err
	}
	fmt.Printf("%s %s  %s\n", checkbox(completed), task.TimeSlot, task.Name)
	return nil
}

func taskRemove(cfg *config.Config, args []string) error {
	store, task, closeStore, err := pickTask(cfg, "dayplan task rm", args)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.DeleteTask(task); err != nil {
		return err
	}
	fmt.Printf("Removed %s %q\n", task.TimeSlot, task.Name)
	return nil
}

func printTasks(tasks []planner.Task) {
	if len(tasks) == 0 {
		fmt.Println("  No tasks scheduled.")
		return
	}
	for i, t := range tasks {
		fmt.Printf("  %d. %s %s  %s\n", i+1, checkbox(t.Completed), t.TimeSlot, t.Name)
		if t.Description != "" {
			fmt.Printf("       %s\n", t.Description)
		}
	}
}
