package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DotEnvFile is read from the working directory when present.
const DotEnvFile = ".env"

// EnvPrefix starts every environment variable the loader reads.
const EnvPrefix = "DAYPLAN_"

// readDotEnv parses path. A missing file yields a nil map.
func readDotEnv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return values, nil
}

// loadFromEnv overrides cfg from DAYPLAN_* variables. The process
// environment takes precedence over dotenv.
func loadFromEnv(cfg *Config, dotenv map[string]string, sources map[string]ConfigSource) error {
	lookup := func(key string) (string, ConfigSource, bool) {
		name := EnvPrefix + strings.ToUpper(key)
		if v, ok := os.LookupEnv(name); ok && v != "" {
			return v, SourceEnv, true
		}
		if v, ok := dotenv[name]; ok && v != "" {
			return v, SourceDotEnv, true
		}
		return "", "", false
	}

	strs := map[string]*string{
		"data_dir":      &cfg.DataDir,
		"backend":       &cfg.Backend,
		"format":        &cfg.Format,
		"database_file": &cfg.DatabaseFile,
		"log_level":     &cfg.LogLevel,
		"log_format":    &cfg.LogFormat,
	}
	bools := map[string]*bool{
		"log_timestamps": &cfg.LogTimestamps,
		"log_caller":     &cfg.LogCaller,
	}
	ints := map[string]*int{
		"log_keep":     &cfg.LogKeep,
		"default_slot": &cfg.DefaultSlot,
	}

	for _, key := range configKeys() {
		v, source, ok := lookup(key)
		if !ok {
			continue
		}
		switch {
		case strs[key] != nil:
			*strs[key] = v
		case bools[key] != nil:
			*bools[key] = boolFromString(v)
		case ints[key] != nil:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s%s: invalid integer %q", EnvPrefix, strings.ToUpper(key), v)
			}
			*ints[key] = n
		}
		sources[key] = source
	}
	return nil
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
