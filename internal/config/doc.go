// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.dayplan/dayplan.toml or OS-specific config directory)
// 3. Project config file (dayplan.toml or .dayplan.toml in the working directory)
// 4. A .env file in the working directory
// 5. Environment variables (DAYPLAN_*)
// 6. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
// Variables already present in the process environment win over the same
// names in .env.
//
// User-level config locations:
// - ~/.dayplan/dayplan.toml (preferred)
// - Windows: %APPDATA%\dayplan\dayplan.toml
// - macOS: ~/Library/Application Support/dayplan/dayplan.toml
// - Linux/BSD: $XDG_CONFIG_HOME/dayplan/dayplan.toml or ~/.config/dayplan/dayplan.toml
package config
