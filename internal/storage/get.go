package storage

import (
	"github.com/ignitedb/ignite/internal/codec"
	"github.com/ignitedb/ignite/pkg/errors"
)

// Get looks up key using cache, a per-caller handle created by
// NewReaderCache. It never takes the writer lock: the index's Get is
// lock-free, and cache is private to the calling goroutine, so reads never
// contend with the single writer or with each other.
func (s *Store) Get(cache *ReaderCache, key string) (string, bool, error) {
	if s.closed.Load() {
		return "", false, ErrStoreClosed
	}

	cache.closeStale()

	ptr, ok := s.index.Get(key)
	if !ok {
		return "", false, nil
	}

	reader, err := cache.get(ptr.Gen)
	if err != nil {
		return "", false, errors.NewSegmentIDError(ptr.Gen, key)
	}
	if err := reader.Seek(ptr.Offset); err != nil {
		return "", false, err
	}

	raw, err := reader.ReadExact(ptr.Length)
	if err != nil {
		return "", false, err
	}

	rec, err := codec.DecodeOne(raw)
	if err != nil {
		return "", false, err
	}
	if !rec.IsSet() {
		return "", false, errors.NewIndexCorruptionError("Get", s.index.Len(), errors.ErrUnexpectedRecordType).WithKey(key)
	}

	return rec.Value, true, nil
}
