package storage

import (
	"fmt"

	"github.com/ignitedb/ignite/internal/codec"
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/pkg/errors"
)

// Set appends a Set record, publishes its location to the index, and
// triggers a compaction if the dead-byte threshold is crossed. Only one
// Set, Remove, or compaction runs at a time: writerMu serializes the whole
// write path.
func (s *Store) Set(key, value string) (err error) {
	if s.closed.Load() {
		return ErrStoreClosed
	}

	s.writerMu.Lock()
	defer s.writerMu.Unlock()
	defer s.recoverWriter(&err)

	if s.writerState.poisoned {
		return errors.ErrPoolPoisoned
	}

	rec := codec.NewSet(key, value)
	posBefore := s.writerState.writer.Pos()
	if err := codec.Encode(s.writerState.writer, rec); err != nil {
		return err
	}
	if err := s.writerState.writer.Flush(); err != nil {
		return err
	}
	posAfter := s.writerState.writer.Pos()

	newPtr := index.RecordPointer{Gen: s.writerState.currentGen, Offset: posBefore, Length: uint32(posAfter - posBefore), Key: key}
	if old, had := s.index.Put(key, newPtr); had {
		s.writerState.uncompacted += uint64(old.Length)
	}

	if s.writerState.uncompacted > s.compactionThreshold {
		return s.compact()
	}
	return nil
}

// Remove appends a tombstone record for key and removes it from the index.
// Removing a key with no live value is reported as ErrKeyNotFound, matching
// the public contract: a miss on Get is not an error, but a Remove of a
// missing key is.
func (s *Store) Remove(key string) (err error) {
	if s.closed.Load() {
		return ErrStoreClosed
	}

	s.writerMu.Lock()
	defer s.writerMu.Unlock()
	defer s.recoverWriter(&err)

	if s.writerState.poisoned {
		return errors.ErrPoolPoisoned
	}

	old, had := s.index.Get(key)
	if !had {
		return errors.NewKeyNotFoundError(key, "Remove")
	}

	rec := codec.NewRemove(key)
	posBefore := s.writerState.writer.Pos()
	if err := codec.Encode(s.writerState.writer, rec); err != nil {
		return err
	}
	if err := s.writerState.writer.Flush(); err != nil {
		return err
	}
	posAfter := s.writerState.writer.Pos()
	tombstoneLen := uint64(posAfter - posBefore)

	s.index.Delete(key)
	s.writerState.uncompacted += uint64(old.Length) + tombstoneLen

	if s.writerState.uncompacted > s.compactionThreshold {
		return s.compact()
	}
	return nil
}

// recoverWriter absorbs a panic that unwound through a writer-path call,
// marking the writer poisoned and turning the panic into an error return
// instead of crashing the process. Go mutexes don't poison themselves on a
// panicking critical section the way std::sync::Mutex does; this recover is
// the explicit substitute.
func (s *Store) recoverWriter(err *error) {
	if r := recover(); r != nil {
		s.writerState.poisoned = true
		*err = fmt.Errorf("%w: %v", errors.ErrPoolPoisoned, r)
	}
}
