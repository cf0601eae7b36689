package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/dayplan/internal/config"
	"github.com/nibzard/dayplan/internal/storage"
)

// initCommand writes an example config file and creates empty collections
// in the data directory. Existing files are left alone unless -force is
// given; stored collections are never overwritten.
func initCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dayplan init", flag.ContinueOnError)
	project := fs.Bool("project", false, "Write dayplan.toml in the current directory instead of the user config")
	force := fs.Bool("force", false, "Overwrite an existing config file")
	skipConfig := fs.Bool("skip-config", false, "Only create the data directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if !*skipConfig {
		path := config.ProjectConfigFile
		if !*project {
			var err error
			if path, err = config.UserConfigPath(); err != nil {
				return err
			}
		}
		if err := writeConfigFile(path, *force); err != nil {
			return err
		}
	}

	backend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	created, err := initCollections(backend)
	if err != nil {
		return err
	}
	fmt.Printf("Data directory: %s (%s, %s)\n", cfg.DataDir, cfg.Backend, cfg.Format)
	for _, kind := range created {
		fmt.Printf("  created %s\n", kind)
	}
	return nil
}

func writeConfigFile(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Printf("Skipping %s (already exists, use -force to overwrite)\n", path)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// initCollections saves an empty document for every collection that has
// never been written.
func initCollections(backend *storage.Backend) ([]storage.Kind, error) {
	var created []storage.Kind

	if _, err := backend.LoadTasks(); errors.Is(err, storage.ErrNotExist) {
		if err := backend.SaveTasks(nil); err != nil {
			return created, err
		}
		created = append(created, storage.KindTasks)
	}
	if _, err := backend.LoadPriorities(); errors.Is(err, storage.ErrNotExist) {
		if err := backend.SavePriorities(nil); err != nil {
			return created, err
		}
		created = append(created, storage.KindPriorities)
	}
	if _, err := backend.LoadTodos(); errors.Is(err, storage.ErrNotExist) {
		if err := backend.SaveTodos(nil); err != nil {
			return created, err
		}
		created = append(created, storage.KindTodos)
	}
	return created, nil
}
