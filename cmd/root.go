// Package cmd implements the CLI command structure for dayplan.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/dayplan/internal/config"
	"github.com/nibzard/dayplan/internal/logging"
	"github.com/nibzard/dayplan/internal/planner"
	"github.com/nibzard/dayplan/internal/storage"
	"github.com/nibzard/dayplan/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// errNoItems is returned when a position is given for an empty list.
var errNoItems = errors.New("nothing listed for this day")

// today is swapped out by tests.
var today = planner.Today

// Run executes the dayplan CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dayplan", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Without a subcommand, a terminal gets the planner and a pipe gets
	// today's agenda.
	subcommand := "today"
	if ui.IsTTY(os.Stdout) {
		subcommand = "tui"
	}
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "today", "agenda":
		return todayCommand(cfg, remainingArgs)
	case "task", "tasks":
		return taskCommand(cfg, remainingArgs)
	case "priority", "priorities":
		return priorityCommand(cfg, remainingArgs)
	case "todo", "todos":
		return todoCommand(cfg, remainingArgs)
	case "cal", "calendar":
		return calCommand(cfg, remainingArgs)
	case "slots":
		return slotsCommand(remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "init":
		return initCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "logs":
		return logsCommand(ctx, cfg, remainingArgs)
	case "completion":
		return completionCommand(cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newLogger builds the stderr logger used by non-interactive commands.
func newLogger(cfg *config.Config, w io.Writer) *log.Logger {
	return logging.New(w, logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
	})
}

func openBackend(cfg *config.Config) (*storage.Backend, error) {
	backend, err := storage.Open(storage.Options{
		Backend:      cfg.Backend,
		Format:       cfg.Format,
		DataDir:      cfg.DataDir,
		DatabaseFile: cfg.DatabaseFile,
	})
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return backend, nil
}

// openStore opens the configured backend and loads the planner. The
// returned func releases the backend.
func openStore(cfg *config.Config, logger *log.Logger) (*planner.Store, func(), error) {
	backend, err := openBackend(cfg)
	if err != nil {
		return nil, nil, err
	}
	store := planner.Open(backend, planner.WithLogger(logger))
	closeFn := func() {
		if err := backend.Close(); err != nil {
			logger.Warn("closing storage", "err", err)
		}
	}
	return store, closeFn, nil
}

// tuiCommand launches the interactive planner. Logs go to a per-run file
// since the terminal belongs to the UI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dayplan tui", flag.ContinueOnError)
	date := newDateFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	runLog, err := logging.OpenRunLog(cfg.LogDir())
	if err != nil {
		return err
	}
	defer runLog.Close()
	logger := newLogger(cfg, runLog.Writer())
	if removed, err := logging.Prune(cfg.LogDir(), max(cfg.LogKeep, 1)); err != nil {
		logger.Warn("pruning old logs", "err", err)
	} else if removed > 0 {
		logger.Debug("pruned old logs", "removed", removed)
	}

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	logger.Info("session started", "run", runLog.RunID, "backend", cfg.Backend, "format", cfg.Format)
	err = ui.RunTUI(ctx, store,
		ui.WithLogger(logger),
		ui.WithDefaultSlot(cfg.DefaultSlot),
		ui.WithToday(date.Date()),
	)
	logger.Info("session ended", "err", err)
	return err
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("dayplan version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "dayplan - a personal day planner")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  dayplan [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui [-date D]                 Interactive planner (default on a terminal)")
	fmt.Fprintln(w, "  today [D]                     Agenda for a day (default otherwise)")
	fmt.Fprintln(w, "  task add -name N [-slot S] [-desc X] [-date D]")
	fmt.Fprintln(w, "  task ls [D]                   List a day's schedule")
	fmt.Fprintln(w, "  task done|undo|rm <n> [-date D]")
	fmt.Fprintln(w, "  priority add <task-n> [-date D]")
	fmt.Fprintln(w, "  priority ls [D]")
	fmt.Fprintln(w, "  priority done|undo|rm <n> [-date D]")
	fmt.Fprintln(w, "  todo add <text> [-date D]")
	fmt.Fprintln(w, "  todo ls [D]")
	fmt.Fprintln(w, "  todo done|undo|rm <n> [-date D]")
	fmt.Fprintln(w, "  todo edit <n> <text> [-date D]")
	fmt.Fprintln(w, "  cal [YYYY-MM]                 Month grid, * marks days with tasks")
	fmt.Fprintln(w, "  slots                         List the time slots")
	fmt.Fprintln(w, "  config [-example]             Show effective configuration")
	fmt.Fprintln(w, "  init [-project] [-force]      Write a config file and empty collections")
	fmt.Fprintln(w, "  doctor                        Check configuration and stored data")
	fmt.Fprintln(w, "  logs [-n N] [-f] [-list]      Show the latest session log")
	fmt.Fprintln(w, "  completion <shell>            Shell completion script")
	fmt.Fprintln(w, "  version                       Show version information")
	fmt.Fprintln(w, "  help                          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Dates are YYYY-MM-DD and default to today. <n> is the position")
	fmt.Fprintln(w, "shown by the matching ls command.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// dateFlag is a -date flag defaulting to today.
type dateFlag struct {
	date planner.Date
	set  bool
}

func newDateFlag(fs *flag.FlagSet) *dateFlag {
	d := &dateFlag{}
	fs.Var(d, "date", "Day to act on (YYYY-MM-DD, default today)")
	return d
}

func (d *dateFlag) String() string {
	if d == nil || !d.set {
		return ""
	}
	return d.date.String()
}

func (d *dateFlag) Set(s string) error {
	date, err := parseDay(s)
	if err != nil {
		return err
	}
	d.date = date
	d.set = true
	return nil
}

// Date returns the parsed date or today.
func (d *dateFlag) Date() planner.Date {
	if d.set {
		return d.date
	}
	return today()
}

// parseDay accepts YYYY-MM-DD plus the shortcuts today, tomorrow and
// yesterday.
func parseDay(s string) (planner.Date, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return today(), nil
	case "tomorrow":
		return today().AddDays(1), nil
	case "yesterday":
		return today().AddDays(-1), nil
	}
	return planner.ParseDate(strings.TrimSpace(s))
}

// parseInterspersed parses flags that may follow positional arguments and
// returns the positionals in order.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// dayArg resolves an optional positional date, falling back to the flag.
func dayArg(positional []string, flagDate *dateFlag) (planner.Date, error) {
	switch len(positional) {
	case 0:
		return flagDate.Date(), nil
	case 1:
		if flagDate.set {
			return planner.Date{}, fmt.Errorf("date given twice")
		}
		return parseDay(positional[0])
	default:
		return planner.Date{}, fmt.Errorf("unexpected arguments: %v", positional[1:])
	}
}

// parseIndex turns a 1-based position into a slice index.
func parseIndex(s string, n int, what string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s number %q", what, s)
	}
	if n == 0 {
		return 0, fmt.Errorf("%s %s: %w", what, s, errNoItems)
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("%s %d out of range 1-%d", what, i, n)
	}
	return i - 1, nil
}

// parseSlot accepts a slot index (0-23), an hour ("9", "09:00") or a full
// label.
func parseSlot(s string) (string, error) {
	slots := planner.TimeSlots()
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		if i < 0 || i >= len(slots) {
			return "", fmt.Errorf("slot %d out of range 0-%d", i, len(slots)-1)
		}
		return slots[i], nil
	}
	for _, label := range slots {
		if label == s {
			return label, nil
		}
	}
	if hour, ok := strings.CutSuffix(s, ":00"); ok {
		return parseSlot(hour)
	}
	return "", fmt.Errorf("unknown time slot %q", s)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func dayLabel(d planner.Date) string {
	return fmt.Sprintf("%s (%s)", d, d.Weekday())
}
