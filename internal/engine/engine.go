// Package engine provides the core database engine for the ignite
// key/value store. The engine is a thin, thread-safe coordinator in front
// of the storage package: it owns the closed-flag lifecycle and translates
// "closed" into an error at every public entry point, but the write path,
// read path, and compaction all live in internal/storage.
package engine

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ignitedb/ignite/internal/storage"
	"github.com/ignitedb/ignite/pkg/options"
)

// ErrEngineClosed is returned when attempting to perform operations on a
// closed engine.
var ErrEngineClosed = errors.New("operation failed: cannot access closed engine")

// Engine is the public coordinator over one data directory's storage
// engine.
type Engine struct {
	options *options.Options
	log     *zap.SugaredLogger
	closed  atomic.Bool
	store   *storage.Store
}

// Config holds the parameters needed to initialize a new Engine.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New opens the storage engine at Config.Options.DataDir, replaying any
// existing segments.
func New(ctx context.Context, config *Config) (*Engine, error) {
	if err := config.Options.Validate(); err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, &storage.Config{
		DataDir:             config.Options.DataDir,
		CompactionThreshold: config.Options.CompactionThreshold,
		Logger:              config.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Engine{options: config.Options, log: config.Logger, store: store}, nil
}

// NewReaderCache creates a handle for one caller (a goroutine, typically a
// long-lived connection handler) to reuse across many Get calls. See
// storage.ReaderCache for why it must not be shared across goroutines.
func (e *Engine) NewReaderCache() *storage.ReaderCache {
	return e.store.NewReaderCache()
}

// Set inserts or overwrites key's value.
func (e *Engine) Set(key, value string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	return e.store.Set(key, value)
}

// Get looks up key using cache. A miss is reported as ("", false, nil), not
// an error.
func (e *Engine) Get(cache *storage.ReaderCache, key string) (string, bool, error) {
	if e.closed.Load() {
		return "", false, ErrEngineClosed
	}
	return e.store.Get(cache, key)
}

// Remove deletes key. Removing a key with no live value reports
// errors.ErrKeyNotFound.
func (e *Engine) Remove(key string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	return e.store.Remove(key)
}

// Close shuts the engine down. A second call returns ErrEngineClosed.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}
	return e.store.Close()
}
