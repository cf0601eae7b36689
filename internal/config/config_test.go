package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

// isolate points HOME and the working directory at fresh temp dirs and
// clears DAYPLAN_* variables.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, key := range configKeys() {
		t.Setenv(EnvPrefix+strings.ToUpper(key), "")
	}
	t.Chdir(work)
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	home, _ := isolate(t)

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.DataDir != filepath.Join(home, ".dayplan") {
		t.Errorf("DataDir: got %q", cfg.DataDir)
	}
	if cfg.Backend != DefaultBackend || cfg.Format != DefaultFormat {
		t.Errorf("Backend/Format: got %q/%q", cfg.Backend, cfg.Format)
	}
	if cfg.DefaultSlot != DefaultSlot {
		t.Errorf("DefaultSlot: got %d", cfg.DefaultSlot)
	}
	if cfg.LogDir() != filepath.Join(home, ".dayplan", "logs") {
		t.Errorf("LogDir: got %q", cfg.LogDir())
	}
	for key, source := range cws.Sources {
		if source != SourceDefault {
			t.Errorf("%s: source %q, want default", key, source)
		}
	}
	if len(cws.Files) != 0 {
		t.Errorf("Files: got %v", cws.Files)
	}
}

func TestPrecedence(t *testing.T) {
	home, work := isolate(t)

	writeFile(t, filepath.Join(home, ".dayplan", "dayplan.toml"), `
data_dir = "~/planner"
backend = "sqlite"
format = "yaml"
log_level = "debug"
default_slot = 7
`)
	writeFile(t, filepath.Join(work, "dayplan.toml"), `
format = "json"
log_level = "warn"
`)
	writeFile(t, filepath.Join(work, ".env"), "DAYPLAN_LOG_LEVEL=error\nDAYPLAN_LOG_FORMAT=json\n")
	t.Setenv("DAYPLAN_LOG_FORMAT", "logfmt")
	t.Setenv("DAYPLAN_DEFAULT_SLOT", "8")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"-default-slot", "10", "task", "ls"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	tests := []struct {
		key    string
		got    string
		want   string
		source ConfigSource
	}{
		{"data_dir", cfg.DataDir, filepath.Join(home, "planner"), SourceUserFile},
		{"backend", cfg.Backend, "sqlite", SourceUserFile},
		{"format", cfg.Format, "json", SourceProjFile},
		{"log_level", cfg.LogLevel, "error", SourceDotEnv},
		{"log_format", cfg.LogFormat, "logfmt", SourceEnv},
		{"database_file", cfg.DatabaseFile, DefaultDatabaseFile, SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("value: got %q, want %q", tt.got, tt.want)
			}
			if cws.Sources[tt.key] != tt.source {
				t.Errorf("source: got %q, want %q", cws.Sources[tt.key], tt.source)
			}
		})
	}

	if cfg.DefaultSlot != 10 || cws.Sources["default_slot"] != SourceFlag {
		t.Errorf("default_slot: got %d from %q", cfg.DefaultSlot, cws.Sources["default_slot"])
	}
	if args := fs.Args(); len(args) != 2 || args[0] != "task" {
		t.Errorf("remaining args: %v", args)
	}
	if len(cws.Files) != 3 {
		t.Errorf("Files: got %v", cws.Files)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
		args []string
	}{
		{name: "unknown key", file: "colour = \"red\"\n"},
		{name: "bad backend", file: "backend = \"redis\"\n"},
		{name: "bad format flag", args: []string{"-format", "xml"}},
		{name: "slot out of range", env: map[string]string{"DAYPLAN_DEFAULT_SLOT": "24"}},
		{name: "slot not a number", env: map[string]string{"DAYPLAN_DEFAULT_SLOT": "nine"}},
		{name: "bad log level", file: "log_level = \"loud\"\n"},
		{name: "bad log format", env: map[string]string{"DAYPLAN_LOG_FORMAT": "xml"}},
		{name: "unknown flag", args: []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, work := isolate(t)
			if tt.file != "" {
				writeFile(t, filepath.Join(work, "dayplan.toml"), tt.file)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(&strings.Builder{})
			if _, err := LoadWithSources(fs, tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, ".env"), "DAYPLAN_BACKEND=sqlite\n")
	t.Setenv("DAYPLAN_BACKEND", "file")

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	if cfg := cws.Config; cfg.Backend != "file" {
		t.Errorf("Backend: got %q, want file", cfg.Backend)
	}
}

func TestEntries(t *testing.T) {
	isolate(t)
	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-log-caller"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}

	entries := cws.Entries()
	if len(entries) != len(configKeys()) {
		t.Fatalf("Entries: got %d, want %d", len(entries), len(configKeys()))
	}
	for _, e := range entries {
		if e.Key == "log_caller" && (e.Value != "true" || e.Source != SourceFlag) {
			t.Errorf("log_caller entry: %+v", e)
		}
	}
}

func TestExampleConfigParses(t *testing.T) {
	var cfg Config
	md, err := toml.Decode(ExampleConfig(), &cfg)
	if err != nil {
		t.Fatalf("decode example: %v", err)
	}
	if len(md.Undecoded()) != 0 {
		t.Errorf("example has unknown keys: %v", md.Undecoded())
	}
	if cfg.DefaultSlot != DefaultSlot || cfg.LogKeep != DefaultLogKeep {
		t.Errorf("example defaults drifted: %+v", cfg)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DAYPLAN_TEST_DIR", "/srv/plans")

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
		{"$DAYPLAN_TEST_DIR/data", "/srv/plans/data"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBoolFromString(t *testing.T) {
	for _, s := range []string{"1", "true", "YES", "on"} {
		if !boolFromString(s) {
			t.Errorf("boolFromString(%q) = false", s)
		}
	}
	for _, s := range []string{"0", "false", "", "nah"} {
		if boolFromString(s) {
			t.Errorf("boolFromString(%q) = true", s)
		}
	}
}
