// Package ignite provides a high-performance key/value data store
// designed for fast read and write operations, inspired by Bitcask.
// It combines an in-memory ordered key index (KeyDir/Index) with an append-only
// log structure on disk to achieve high throughput. It is designed for applications
// requiring fast read and write operations, such as caching, session management,
// and real-time data processing, aiming to provide a simple, efficient, and
// reliable solution for persistent key/value storage in Go applications.
package ignite

import (
	"context"
	"sync"

	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/internal/storage"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
)

// Represents an instance of the Ignite key/value data store.
// It encapsulates the core engine responsible for data handling and
// the configuration options for this specific database instance.
//
// Instance is the primary entry point for interacting with the Ignite store,
// providing methods for setting, getting, and deleting key-value pairs.
type Instance struct {
	engine  *engine.Engine   // The underlying database engine handling read/write operations.
	options *options.Options // Configuration options applied to this DB instance.

	// readers pools *storage.ReaderCache handles across concurrent Get
	// calls. A ReaderCache must not be shared between callers active at
	// the same time, but Instance's public API has no notion of "the
	// same caller across calls" the way a long-lived connection handler
	// does, so each Get borrows one, uses it, and returns it.
	readers sync.Pool
}

// Creates and initializes a new Ignite DB instance.
func NewInstance(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	// Initialize a logger for the given service.
	log := logger.New(service)

	// Initialize default options.
	defaultOpts := options.NewDefaultOptions()

	// Apply any provided functional options to override defaults.
	if len(opts) > 0 {
		for _, opt := range opts {
			opt(&defaultOpts)
		}
	}

	// Create a new internal engine with the initialized logger.
	eng, err := engine.New(ctx, &engine.Config{Logger: log, Options: &defaultOpts})
	if err != nil {
		return nil, err
	}

	inst := &Instance{engine: eng, options: &defaultOpts}
	inst.readers.New = func() any { return eng.NewReaderCache() }
	return inst, nil
}

// Set stores a key-value pair in the database.
// If the key already exists, its value will be updated.
// The operation is durable and will be written to the append-only log.
func (i *Instance) Set(ctx context.Context, key string, value []byte) error {
	return i.engine.Set(key, string(value))
}

// Get retrieves the value associated with the given key. A missing key
// returns (nil, errors.ErrKeyNotFound).
func (i *Instance) Get(ctx context.Context, key string) ([]byte, error) {
	cache := i.readers.Get().(*storage.ReaderCache)
	defer i.readers.Put(cache)

	value, ok, err := i.engine.Get(cache, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.ErrKeyNotFound
	}
	return []byte(value), nil
}

// Delete removes a key-value pair from the database.
// The operation marks the key as deleted and will eventually be
// removed during compaction.
func (i *Instance) Delete(ctx context.Context, key string) error {
	return i.engine.Remove(key)
}

// Close gracefully shuts down the Ignite DB instance, releasing all
// associated resources, flushing any pending writes, and ensuring data
// durability.
func (i *Instance) Close(ctx context.Context) error {
	return i.engine.Close()
}
