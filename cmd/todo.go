package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nibzard/dayplan/internal/config"
	"github.com/nibzard/dayplan/internal/planner"
)

// todoCommand dispatches the to-do subcommands.
func todoCommand(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: dayplan todo add|ls|done|undo|edit|rm")
	}
	switch args[0] {
	case "add":
		return todoAdd(cfg, args[1:])
	case "ls", "list":
		return todoList(cfg, args[1:])
	case "done":
		return todoSetCompleted(cfg, args[1:], true)
	case "undo":
		return todoSetCompleted(cfg, args[1:], false)
	case "edit":
		return todoEdit(cfg, args[1:])
	case "rm", "delete":
		return todoRemove(cfg, args[1:])
	default:
		return fmt.Errorf("unknown todo command: %s", args[0])
	}
}

func todoAdd(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dayplan todo add", flag.ContinueOnError)
	date := newDateFlag(fs)
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(positional, " "))
	if text == "" {
		return fmt.Errorf("to-do text cannot be empty")
	}

	store, closeStore, err := openStore(cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return err
	}
	defer closeStore()

	day := date.Date()
	if err := store.AddTodo(day, planner.NewTodo(text)); err != nil {
		return err
	}
	fmt.Printf("Added to-do %q on %s\n", text, day)
	return nil
}

func todoList(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dayplan todo ls", flag.ContinueOnError)
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
	printTodos(store.Todos(day))
	return nil
}

// pickTodo resolves "<n> [rest...] [-date D]" against the day's to-dos and
// returns the words after the position.
func pickTodo(cfg *config.Config, name string, args []string) (*planner.Store, planner.Date, planner.TodoItem, []string, func(), error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	date := newDateFlag(fs)
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return nil, planner.Date{}, planner.TodoItem{}, nil, nil, err
	}
	if len(positional) == 0 {
		return nil, planner.Date{}, planner.TodoItem{}, nil, nil, fmt.Errorf("usage: %s <n> [-date D]", name)
	}

	store, closeStore, err := openStore(cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return nil, planner.Date{}, planner.TodoItem{}, nil, nil, err
	}
	day := date.Date()
	todos := store.Todos(day)
	i, err := parseIndex(positional[0], len(todos), "to-do")
	if err != nil {
		closeStore()
		return nil, planner.Date{}, planner.TodoItem{}, nil, nil, err
	}
	return store, day, todos[i], positional[1:], closeStore, nil
}

func todoSetCompleted(cfg *config.Config, args []string, completed bool) error {
	store, day, item, rest, closeStore, err := pickTodo(cfg, "dayplan todo done", args)
	if err != nil {
		return err
	}
	defer closeStore()
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	if err := store.SetTodoCompleted(day, item.ID, completed); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", checkbox(completed), item.Text)
	return nil
}

func todoEdit(cfg *config.Config, args []string) error {
	store, day, item, rest, closeStore, err := pickTodo(cfg, "dayplan todo edit", args)
	if err != nil {
		return err
	}
	defer closeStore()

	text := strings.TrimSpace(strings.Join(rest, " "))
	if text == "" {
		return fmt.Errorf("to-do text cannot be empty")
	}
	if err := store.UpdateTodoText(day, item.ID, text); err != nil {
		return err
	}
	fmt.Printf("Updated to-do %q\n", text)
	return nil
}

func todoRemove(cfg *config.Config, args []string) error {
	store, day, item, rest, closeStore, err := pickTodo(cfg, "dayplan todo rm", args)
	if err != nil {
		return err
	}
	defer closeStore()
	if len(rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", rest)
	}

	if err := store.DeleteTodo(day, item); err != nil {
		return err
	}
	fmt.Printf("Removed to-do %q\n", item.Text)
	return nil
}

func printTodos(items []planner.TodoItem) {
	if len(items) == 0 {
		fmt.Println("  Nothing to do.")
		return
	}
	for i, t := range items {
		fmt.Printf("  %d. %s %s\n", i+1, checkbox(t.Completed), t.Text)
	}
}
