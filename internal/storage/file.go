package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileEngine keeps one file per collection inside a directory.
type FileEngine struct {
	dir string
	ext string
}

// NewFileEngine returns an engine rooted at dir. Files are named
// <name><ext>, for example tasks.json. The directory is created lazily on
// the first write.
func NewFileEngine(dir, ext string) *FileEngine {
	return &FileEngine{dir: dir, ext: ext}
}

// Path returns the file backing name.
func (e *FileEngine) Path(name string) string {
	return filepath.Join(e.dir, name+e.ext)
}

func (e *FileEngine) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(e.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", e.Path(name), ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Write stores data through a temp file in the same directory followed by
// a rename, so readers see either the old or the new blob.
func (e *FileEngine) Write(name string, data []byte) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(e.dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := os.Rename(tmpName, e.Path(name)); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// Close is a no-op.
func (e *FileEngine) Close() error { return nil }
