package config

import (
	"flag"
	"fmt"
)

// flagKeys maps flag names to the config keys they set.
var flagKeys = map[string]string{
	"data-dir":       "data_dir",
	"backend":        "backend",
	"format":         "format",
	"db":             "database_file",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"log-keep":       "log_keep",
	"default-slot":   "default_slot",
}

// parseFlags registers the global flags on fs, bound to cfg, and parses
// args. Only flags present on the command line are attributed to SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("dayplan", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory holding planner data")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Storage backend (file|sqlite)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Document format (json|yaml)")
	fs.StringVar(&cfg.DatabaseFile, "db", cfg.DatabaseFile, "SQLite database file, relative to the data dir")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log lines")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in log lines")
	fs.IntVar(&cfg.LogKeep, "log-keep", cfg.LogKeep, "Number of session logs to keep")
	fs.IntVar(&cfg.DefaultSlot, "default-slot", cfg.DefaultSlot, "Time slot preselected for new tasks (0-23)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			sources[key] = SourceFlag
		}
	})
	return nil
}
