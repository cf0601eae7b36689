package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# dayplan configuration file
# Values can be overridden by DAYPLAN_* environment variables or CLI flags.

# Where tasks, priorities and to-dos are stored (supports ~ expansion)
data_dir = "~/.dayplan"

# Storage backend: "file" keeps one document per collection,
# "sqlite" keeps them all in a single database
backend = "file"

# Document format for the file backend and the sqlite blobs: json or yaml
format = "json"

# SQLite database, relative to data_dir
database_file = "dayplan.db"

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false

# Number of interactive session logs kept under <data_dir>/logs
log_keep = 20

# Time slot preselected for new tasks (0 = 00:00 - 01:00, 9 = 09:00 - 10:00)
default_slot = 9
`
}
