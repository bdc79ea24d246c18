package store

import (
	"context"
	"fmt"

	"github.com/hyperjump/crime360/internal/config"
)

// Source kinds accepted in seed.source.
const (
	SourceBuiltin = "builtin"
	SourceFile    = "file"
	SourceSQLite  = "sqlite"
)

// Source produces a fresh snapshot each time Load is called.
type Source interface {
	Load(ctx context.Context) (*Snapshot, error)
	// Describe names the source for status output and logs.
	Describe() string
	// WatchPath is the file to watch for changes, or "" when the source cannot change.
	WatchPath() string
}

// NewSource builds the source named by cfg.Source.
func NewSource(cfg *config.SeedConfig) (Source, error) {
	switch cfg.Source {
	case "", SourceBuiltin:
		return builtinSource{}, nil
	case SourceFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("seed.path is required for the file source")
		}
		return fileSource{path: cfg.Path}, nil
	case SourceSQLite:
		if cfg.DatabasePath == "" {
			return nil, fmt.Errorf("seed.database_path is required for the sqlite source")
		}
		return sqliteSource{path: cfg.DatabasePath}, nil
	}
	return nil, fmt.Errorf("unknown seed source %q", cfg.Source)
}

type builtinSource struct{}

func (builtinSource) Load(ctx context.Context) (*Snapshot, error) { return Builtin() }
func (builtinSource) Describe() string                            { return SourceBuiltin }
func (builtinSource) WatchPath() string                           { return "" }

type fileSource struct{ path string }

func (f fileSource) Load(ctx context.Context) (*Snapshot, error) { return LoadFile(f.path) }
func (f fileSource) Describe() string                            { return SourceFile + ":" + f.path }
func (f fileSource) WatchPath() string                           { return f.path }

type sqliteSource struct{ path string }

func (s sqliteSource) Load(ctx context.Context) (*Snapshot, error) {
	db, err := NewSQLiteStore(s.path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.Load(ctx)
}
func (s sqliteSource) Describe() string  { return SourceSQLite + ":" + s.path }
func (s sqliteSource) WatchPath() string { return s.path }
