package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/dayplan/internal/config"
	"github.com/nibzard/dayplan/internal/logging"
	"github.com/nibzard/dayplan/internal/storage"
)

// doctorCommand checks the configuration, the data directory and every
// stored collection.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dayplan doctor", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fmt.Println("dayplan doctor")
	fmt.Println("==============")
	fmt.Println()

	allOK := true

	fmt.Printf("Data directory: %s\n", cfg.DataDir)
	if info, err := os.Stat(cfg.DataDir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("  ⚠️  Not created yet (run dayplan init)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Println("  ❌ Not a directory")
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	fmt.Println("Config:")
	fmt.Printf("  ✅ Backend: %s\n", cfg.Backend)
	fmt.Printf("  ✅ Format: %s\n", cfg.Format)
	if cfg.Backend == storage.EngineSQLite {
		fmt.Printf("  ✅ Database: %s\n", cfg.DatabaseFile)
	}
	fmt.Printf("  ✅ Log level: %s (%s)\n", cfg.LogLevel, cfg.LogFormat)
	fmt.Println()

	fmt.Println("Collections:")
	backend, err := openBackend(cfg)
	if err != nil {
		fmt.Printf("  ❌ %v\n", err)
		allOK = false
	} else {
		defer backend.Close()
		if !checkCollections(backend) {
			allOK = false
		}
	}
	fmt.Println()

	fmt.Printf("Session logs: %s\n", cfg.LogDir())
	if runs, err := logging.FindRuns(cfg.LogDir()); err != nil {
		fmt.Printf("  ⚠️  %v\n", err)
	} else {
		fmt.Printf("  ✅ %d of at most %d kept\n", len(runs), cfg.LogKeep)
	}
	fmt.Println()

	if allOK {
		fmt.Println("✅ All checks passed.")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Unreadable collections load as empty and are overwritten on the next change.")
	return fmt.Errorf("doctor checks failed")
}

// checkCollections loads each collection through the full decode and
// validation path.
func checkCollections(backend *storage.Backend) bool {
	ok := true
	report := func(kind storage.Kind, count int, err error) {
		switch {
		case err == nil:
			fmt.Printf("  ✅ %s: %d entries\n", kind, count)
		case errors.Is(err, storage.ErrNotExist):
			fmt.Printf("  ⚠️  %s: not stored yet\n", kind)
		default:
			fmt.Printf("  ❌ %s: %v\n", kind, err)
			var ve *storage.ValidationError
			if errors.As(err, &ve) && ve.Path != "" {
				fmt.Printf("     at %s\n", ve.Path)
			}
			ok = false
		}
	}

	tasks, err := backend.LoadTasks()
	report(storage.KindTasks, len(tasks), err)

	priorities, err := backend.LoadPriorities()
	report(storage.KindPriorities, countBuckets(priorities), err)

	todos, err := backend.LoadTodos()
	report(storage.KindTodos, countBuckets(todos), err)

	return ok
}

func countBuckets[T any](buckets map[string][]T) int {
	n := 0
	for _, items := range buckets {
		n += len(items)
	}
	return n
}
