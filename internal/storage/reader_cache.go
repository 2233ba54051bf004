package storage

import (
	"go.uber.org/multierr"

	"github.com/ignitedb/ignite/internal/segment"
	"github.com/ignitedb/ignite/pkg/seginfo"
)

// ReaderCache is a per-caller cache of open segment-file read handles. Go
// has no thread-local storage, so this plays the role the original engine's
// per-thread reader cache did by being scoped to whichever goroutine holds
// it: a long-lived connection handler creates one and reuses it across
// every Get on that connection, never sharing it with another goroutine.
// Because only its owner ever touches it, it needs no internal locking.
type ReaderCache struct {
	store   *Store
	readers map[uint64]*segment.Reader
}

// NewReaderCache creates an empty cache bound to s. Callers should create
// one per goroutine that will issue Get calls and retain it for the
// goroutine's lifetime rather than creating one per call.
func (s *Store) NewReaderCache() *ReaderCache {
	return &ReaderCache{store: s, readers: make(map[uint64]*segment.Reader)}
}

func (c *ReaderCache) get(gen uint64) (*segment.Reader, error) {
	if r, ok := c.readers[gen]; ok {
		return r, nil
	}
	r, err := segment.OpenRead(seginfo.Path(c.store.dir, gen))
	if err != nil {
		return nil, err
	}
	c.readers[gen] = r
	return r, nil
}

// closeStale drops every cached handle for a generation below the store's
// current safe-point. It is best-effort and cooperative: a handle it misses
// this round because a compaction advanced the safe-point moments earlier
// is simply picked up the next time this cache is used.
func (c *ReaderCache) closeStale() {
	sp := c.store.safePoint.Load()
	for gen, r := range c.readers {
		if gen < sp {
			_ = r.Close()
			delete(c.readers, gen)
		}
	}
}

// Close releases every handle this cache holds open.
func (c *ReaderCache) Close() error {
	var err error
	for gen, r := range c.readers {
		if cerr := r.Close(); cerr != nil {
			err = multierr.Append(err, cerr)
		}
		delete(c.readers, gen)
	}
	return err
}
