// Package index provides the in-memory, concurrent, ordered key location
// index for the ignite key/value engine. It maps each live key to the
// segment generation, byte offset, and length of its most recent Set
// record.
//
// It is backed by NonLockingReadMap, a copy-on-write, atomic-pointer-
// published ordered map: Get is always lock-free, and GetAll returns
// entries in ascending key order, which compaction relies on for
// deterministic iteration.
package index

import (
	stdErrors "errors"
	"sync/atomic"

	nlrm "github.com/launix-de/NonLockingReadMap"
	"go.uber.org/zap"

	"github.com/ignitedb/ignite/pkg/errors"
)

var ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")

// Index is the key location index. The single storage writer is the only
// caller that mutates it (Put/Delete); any number of readers may call Get
// concurrently without blocking the writer or each other.
type Index struct {
	log    *zap.SugaredLogger
	m      nlrm.NonLockingReadMap[RecordPointer, string]
	closed atomic.Bool
}

// Config configures a new Index.
type Config struct {
	Logger *zap.SugaredLogger
}

// New creates an empty Index.
func New(config *Config) (*Index, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewRequiredFieldError("config")
	}
	return &Index{log: config.Logger, m: nlrm.New[RecordPointer, string]()}, nil
}

// Get returns the current pointer for key, if any.
func (idx *Index) Get(key string) (RecordPointer, bool) {
	p := idx.m.Get(key)
	if p == nil {
		return RecordPointer{}, false
	}
	return *p, true
}

// Put inserts or overwrites the pointer for a key, returning the previous
// pointer and whether one existed. Only the storage writer calls this.
func (idx *Index) Put(key string, pointer RecordPointer) (RecordPointer, bool) {
	old := idx.m.Set(&pointer)
	if old == nil {
		return RecordPointer{}, false
	}
	return *old, true
}

// Delete removes the pointer for a key, returning the removed pointer and
// whether one existed. Only the storage writer calls this.
func (idx *Index) Delete(key string) (RecordPointer, bool) {
	old := idx.m.Remove(key)
	if old == nil {
		return RecordPointer{}, false
	}
	return *old, true
}

// Snapshot returns every live pointer in ascending key order. Compaction
// relies on this order to make its rewrite of the log deterministic.
func (idx *Index) Snapshot() []RecordPointer {
	all := idx.m.GetAll()
	out := make([]RecordPointer, 0, len(all))
	for _, p := range all {
		out = append(out, *p)
	}
	return out
}

// Len returns the number of live keys.
func (idx *Index) Len() int {
	return len(idx.m.GetAll())
}

// Close marks the index closed. It is idempotent-unsafe by design: a second
// Close call returns ErrIndexClosed, matching the engine's own closed-flag
// contract.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}
	idx.log.Infow("closing index")
	return nil
}
