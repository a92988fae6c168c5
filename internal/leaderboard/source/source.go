// Package source opens the bundle provider named by a command-line path.
package source

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/louisbranch/benchboard/internal/leaderboard/bundle"
	"github.com/louisbranch/benchboard/internal/leaderboard/provider"
	"github.com/louisbranch/benchboard/internal/leaderboard/provider/sqlite"
)

// Kind names the provider backing a Source.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
)

// Source is an opened provider plus the file it reads.
type Source struct {
	Kind     Kind
	Path     string
	Provider provider.Provider
	closer   func() error
}

// Close releases resources held by the provider.
func (s *Source) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer()
}

// KindForPath reports which provider serves path.
func KindForPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	default:
		return KindFile
	}
}

// Open returns the provider for path. SQLite databases are opened (and
// migrated) immediately; file bundles are read on each Load.
func Open(ctx context.Context, path string) (*Source, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, bundle.LoadError("", errors.New("bundle path is required"))
	}
	switch KindForPath(path) {
	case KindSQLite:
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, bundle.LoadError(path, err)
		}
		return &Source{Kind: KindSQLite, Path: path, Provider: store, closer: store.Close}, nil
	default:
		if _, err := provider.FormatForPath(path); err != nil {
			return nil, bundle.LoadError(path, err)
		}
		return &Source{Kind: KindFile, Path: path, Provider: provider.File{Path: path}}, nil
	}
}
