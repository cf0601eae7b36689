package config

import (
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nibzard/dayplan/internal/logging"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceDotEnv   ConfigSource = "env file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// Default values.
const (
	DefaultDataDir      = "~/.dayplan"
	DefaultBackend      = "file"
	DefaultFormat       = "json"
	DefaultDatabaseFile = "dayplan.db"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultLogKeep      = 20
	DefaultSlot         = 9
)

// Config holds the effective settings.
type Config struct {
	DataDir       string `toml:"data_dir"`
	Backend       string `toml:"backend"`
	Format        string `toml:"format"`
	DatabaseFile  string `toml:"database_file"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogKeep       int    `toml:"log_keep"`
	DefaultSlot   int    `toml:"default_slot"`
}

// LogDir is where interactive sessions write their run logs.
func (c *Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Files   []string // config and env files that were read, in load order
}

// Entry is one key of the effective configuration.
type Entry struct {
	Key    string
	Value  string
	Source ConfigSource
}

// Entries lists every key in a stable order.
func (cws *ConfigWithSources) Entries() []Entry {
	c := cws.Config
	values := map[string]string{
		"data_dir":       c.DataDir,
		"backend":        c.Backend,
		"format":         c.Format,
		"database_file":  c.DatabaseFile,
		"log_level":      c.LogLevel,
		"log_format":     c.LogFormat,
		"log_timestamps": strconv.FormatBool(c.LogTimestamps),
		"log_caller":     strconv.FormatBool(c.LogCaller),
		"log_keep":       strconv.Itoa(c.LogKeep),
		"default_slot":   strconv.Itoa(c.DefaultSlot),
	}

	entries := make([]Entry, 0, len(values))
	for _, key := range configKeys() {
		entries = append(entries, Entry{Key: key, Value: values[key], Source: cws.Sources[key]})
	}
	return entries
}

// configKeys returns the configurable keys for source tracking.
func configKeys() []string {
	return []string{
		"data_dir",
		"backend",
		"format",
		"database_file",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"log_keep",
		"default_slot",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataDir = DefaultDataDir
	cfg.Backend = DefaultBackend
	cfg.Format = DefaultFormat
	cfg.DatabaseFile = DefaultDatabaseFile
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogKeep = DefaultLogKeep
	cfg.DefaultSlot = DefaultSlot
}

// LoadWithSources loads configuration from every source, parses args with
// fs and tracks the source of each value. Positional arguments remain
// available through fs.Args.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cfg := &Config{}
	setDefaults(cfg)

	cws := &ConfigWithSources{
		Config:  cfg,
		Sources: make(map[string]ConfigSource),
	}
	for _, key := range configKeys() {
		cws.Sources[key] = SourceDefault
	}

	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, cws.Sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
		cws.Files = append(cws.Files, path)
	}

	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, cws.Sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
		cws.Files = append(cws.Files, path)
	}

	dotenv, err := readDotEnv(DotEnvFile)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", DotEnvFile, err)
	}
	if dotenv != nil {
		cws.Files = append(cws.Files, DotEnvFile)
	}
	if err := loadFromEnv(cfg, dotenv, cws.Sources); err != nil {
		return nil, err
	}

	if err := parseFlags(cfg, fs, args, cws.Sources); err != nil {
		return nil, err
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}
	return cws, nil
}

// finalizeConfig normalizes values and validates them.
func finalizeConfig(cfg *Config) error {
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if strings.TrimSpace(cfg.DataDir) == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	cfg.DataDir = expandPath(cfg.DataDir)
	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}
	if cfg.DatabaseFile == "" {
		cfg.DatabaseFile = DefaultDatabaseFile
	}
	cfg.DatabaseFile = expandPath(cfg.DatabaseFile)

	switch cfg.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("invalid backend %q (want file or sqlite)", cfg.Backend)
	}
	switch cfg.Format {
	case "json", "yaml":
	case "yml":
		cfg.Format = "yaml"
	default:
		return fmt.Errorf("invalid format %q (want json or yaml)", cfg.Format)
	}
	if !logging.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	if !logging.ValidFormat(cfg.LogFormat) {
		return fmt.Errorf("invalid log_format %q", cfg.LogFormat)
	}
	if cfg.DefaultSlot < 0 || cfg.DefaultSlot > 23 {
		return fmt.Errorf("default_slot %d out of range 0-23", cfg.DefaultSlot)
	}
	if cfg.LogKeep < 0 {
		return fmt.Errorf("log_keep must not be negative")
	}
	return nil
}
