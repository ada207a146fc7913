// Package kv is the persistence collaborator: a string-keyed store of UTF-8
// JSON values with SQLite, PostgreSQL, JSON-file and in-memory backends.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// Store is the minimal get/set/remove contract the core depends on.
// Implementations must make Set and Remove atomic per key: a reader sees
// either the previous value or the new one, never a partial write.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Backend is a Store with an on-disk (or remote) lifecycle.
type Backend interface {
	Store

	// Init creates the backing storage, running migrations where applicable.
	Init(ctx context.Context) error
	// Load opens previously initialized storage.
	Load(ctx context.Context) error
	// Location is a non-sensitive description of where data lives.
	Location() string
}

// Open picks a backend for target: PostgreSQL connection strings, ".json"
// files, ":memory:", or a SQLite database path.
func Open(target string) (Backend, error) {
	target = strings.TrimSpace(target)
	switch {
	case target == "":
		return nil, fmt.Errorf("store location cannot be empty")
	case IsPostgres(target):
		if valid, err := ValidateConnString(target); !valid {
			return nil, err
		}
		return NewPostgresStore(target), nil
	case target == ":memory:":
		return NewMemoryStore(), nil
	case strings.HasSuffix(strings.ToLower(target), ".json"):
		return NewFileStore(target), nil
	default:
		return NewSQLiteStore(target), nil
	}
}

// IsPostgres reports whether target looks like a PostgreSQL connection URL.
func IsPostgres(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}
