package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nibzard/dayplan/internal/planner"
)

// Engine names accepted by Open.
const (
	EngineFile   = "file"
	EngineSQLite = "sqlite"
)

// DefaultDatabaseFile is used when Options.DatabaseFile is empty.
const DefaultDatabaseFile = "dayplan.db"

// Options selects the engine and codec for Open.
type Options struct {
	Backend      string // file or sqlite
	Format       string // json or yaml
	DataDir      string
	DatabaseFile string // relative paths resolve against DataDir
}

// Backend implements planner.Backend on top of an Engine and a Codec.
type Backend struct {
	engine Engine
	codec  Codec
	now    func() time.Time
}

var _ planner.Backend = (*Backend)(nil)

// NewBackend pairs an engine with a codec.
func NewBackend(engine Engine, codec Codec) *Backend {
	return &Backend{engine: engine, codec: codec, now: time.Now}
}

// Open builds the backend described by opts.
func Open(opts Options) (*Backend, error) {
	codec, err := CodecFor(opts.Format)
	if err != nil {
		return nil, err
	}
	if opts.DataDir == "" {
		return nil, fmt.Errorf("data dir is required")
	}

	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", EngineFile:
		return NewBackend(NewFileEngine(opts.DataDir, codec.Ext()), codec), nil
	case EngineSQLite:
		path := opts.DatabaseFile
		if path == "" {
			path = DefaultDatabaseFile
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(opts.DataDir, path)
		}
		engine, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return NewBackend(engine, codec), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want file or sqlite)", opts.Backend)
	}
}

// Close releases the engine.
func (b *Backend) Close() error { return b.engine.Close() }

func (b *Backend) LoadTasks() ([]planner.Task, error) {
	doc, err := b.read(KindTasks)
	if err != nil {
		return nil, err
	}
	return doc.Tasks, nil
}

func (b *Backend) SaveTasks(tasks []planner.Task) error {
	doc := newDocument(KindTasks, b.now())
	doc.Tasks = tasks
	return b.write(doc)
}

func (b *Backend) LoadPriorities() (map[string][]planner.PriorityItem, error) {
	doc, err := b.read(KindPriorities)
	if err != nil {
		return nil, err
	}
	return doc.Priorities, nil
}

func (b *Backend) SavePriorities(buckets map[string][]planner.PriorityItem) error {
	doc := newDocument(KindPriorities, b.now())
	doc.Priorities = buckets
	return b.write(doc)
}

func (b *Backend) LoadTodos() (map[string][]planner.TodoItem, error) {
	doc, err := b.read(KindTodos)
	if err != nil {
		return nil, err
	}
	return doc.Todos, nil
}

func (b *Backend) SaveTodos(buckets map[string][]planner.TodoItem) error {
	doc := newDocument(KindTodos, b.now())
	doc.Todos = buckets
	return b.write(doc)
}

// read fetches, decodes and validates one collection.
func (b *Backend) read(kind Kind) (*Document, error) {
	data, err := b.engine.Read(string(kind))
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := b.codec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	if err := doc.check(kind); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	if err := Validate(&doc); err != nil {
		return nil, fmt.Errorf("validate %s: %w", kind, err)
	}
	return &doc, nil
}

func (b *Backend) write(doc *Document) error {
	data, err := b.codec.Marshal(doc)
	if err != nil {
		return err
	}
	if err := b.engine.Write(string(doc.Kind), data); err != nil {
		return err
	}
	return nil
}
