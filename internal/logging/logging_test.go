package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"bogus", log.InfoLevel},
		{"", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if ValidLevel("bogus") {
		t.Error("ValidLevel(bogus) = true")
	}
	if !ValidFormat("logfmt") || ValidFormat("xml") {
		t.Error("ValidFormat mismatch")
	}
}

func TestNewWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: "debug", Format: "json"})
	logger.Debug("task added", "date", "2024-03-10")

	out := buf.String()
	if !strings.HasPrefix(out, "{") {
		t.Errorf("expected a JSON object, got %q", out)
	}
	for _, want := range []string{"task added", "2024-03-10", Prefix} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}

	buf.Reset()
	quiet := New(&buf, Options{Level: "error"})
	quiet.Info("ignored")
	if buf.Len() != 0 {
		t.Errorf("info line written at error level: %q", buf.String())
	}
}

func TestOpenRunLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	run, err := OpenRunLog(dir)
	if err != nil {
		t.Fatalf("OpenRunLog: %v", err)
	}
	logger := New(run.Writer(), Options{})
	logger.Info("hello")
	if err := run.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if filepath.Dir(run.LogPath) != dir {
		t.Errorf("LogPath %s not in %s", run.LogPath, dir)
	}
	data, err := os.ReadFile(run.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file missing message: %q", data)
	}

	if _, err := OpenRunLog(""); err == nil {
		t.Error("expected error for empty dir")
	}
}

func writeRun(t *testing.T, dir, id, content string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, id+LogExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	return path
}

func TestFindLatestLogAndPrune(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	latest, err := FindLatestLog(dir)
	if err != nil || latest != "" {
		t.Fatalf("FindLatestLog on empty dir = %q, %v", latest, err)
	}

	writeRun(t, dir, "20240101-000000-1", "old\n", base)
	writeRun(t, dir, "20240102-000000-2", "mid\n", base.Add(time.Minute))
	newest := writeRun(t, dir, "20240103-000000-3", "new\n", base.Add(2*time.Minute))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	latest, err = FindLatestLog(dir)
	if err != nil {
		t.Fatalf("FindLatestLog: %v", err)
	}
	if latest != newest {
		t.Errorf("FindLatestLog = %s, want %s", latest, newest)
	}

	removed, err := Prune(dir, 2)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune removed %d, want 1", removed)
	}
	runs, err := FindRuns(dir)
	if err != nil {
		t.Fatalf("FindRuns: %v", err)
	}
	if len(runs) != 2 || runs[1].RunID != "20240102-000000-2" {
		t.Errorf("runs after prune = %+v", runs)
	}

	if runs, err := FindRuns(filepath.Join(dir, "missing")); err != nil || runs != nil {
		t.Errorf("FindRuns(missing) = %v, %v", runs, err)
	}
}

func TestTailLog(t *testing.T) {
	dir := t.TempDir()
	path := writeRun(t, dir, "run", "one\ntwo\nthree\nfour\n", time.Now())

	tests := []struct {
		name string
		n    int
		want string
	}{
		{"all", 0, "one\ntwo\nthree\nfour\n"},
		{"last two", 2, "three\nfour\n"},
		{"more than file", 10, "one\ntwo\nthree\nfour\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := TailLog(context.Background(), &buf, path, tt.n, false); err != nil {
				t.Fatalf("TailLog: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("TailLog(n=%d) = %q, want %q", tt.n, buf.String(), tt.want)
			}
		})
	}

	if err := TailLog(context.Background(), &bytes.Buffer{}, filepath.Join(dir, "nope.log"), 0, false); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTailLogFollowStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := writeRun(t, dir, "run", "first\n", time.Now())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- TailLog(ctx, &buf, path, 0, true) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("TailLog: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("TailLog did not return after cancel")
	}
	if !strings.Contains(buf.String(), "first") {
		t.Errorf("output = %q", buf.String())
	}
}
