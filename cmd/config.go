package cmd

import (
	"flag"
	"fmt"

	"github.com/nibzard/dayplan/internal/config"
)

// configCommand shows the effective configuration and where each value
// came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("dayplan config", flag.ContinueOnError)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Print(config.ExampleConfig())
		return nil
	}

	if len(cws.Files) == 0 {
		fmt.Println("Files: (none)")
	} else {
		fmt.Println("Files:")
		for _, f := range cws.Files {
			fmt.Printf("  %s\n", f)
		}
	}
	fmt.Println()
	for _, e := range cws.Entries() {
		fmt.Printf("%-15s = %-30s (%s)\n", e.Key, e.Value, e.Source)
	}
	return nil
}
