package storage

import (
	"os"

	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/segment"
	"github.com/ignitedb/ignite/pkg/seginfo"
)

// compact rewrites every live record into a fresh segment and retires every
// older one. It must be called with writerMu held.
//
// The active generation is bumped by two rather than one: the compaction
// sink takes the generation directly after the current active segment
// (oldCurrent+1), and writes resume in a brand new segment at
// oldCurrent+2. This keeps the compaction sink and the new write target
// from ever being the same file, so a crash mid-compaction can never leave
// a segment that is simultaneously "being compacted into" and "being
// written to".
func (s *Store) compact() error {
	oldCurrentGen := s.writerState.currentGen
	compactionGen := oldCurrentGen + 1
	newCurrentGen := oldCurrentGen + 2

	newWriter, err := segment.OpenAppend(seginfo.Path(s.dir, newCurrentGen))
	if err != nil {
		return err
	}

	sink, err := segment.OpenAppend(seginfo.Path(s.dir, compactionGen))
	if err != nil {
		_ = newWriter.Close()
		return err
	}

	live := s.index.Snapshot()
	scratch := s.NewReaderCache()

	for _, ptr := range live {
		reader, err := scratch.get(ptr.Gen)
		if err != nil {
			_ = scratch.Close()
			_ = sink.Close()
			_ = newWriter.Close()
			return err
		}
		if err := reader.Seek(ptr.Offset); err != nil {
			_ = scratch.Close()
			_ = sink.Close()
			_ = newWriter.Close()
			return err
		}

		newOffset := sink.Pos()
		if _, err := segment.CopyInto(sink, reader, ptr.Length); err != nil {
			_ = scratch.Close()
			_ = sink.Close()
			_ = newWriter.Close()
			return err
		}

		s.index.Put(ptr.Key, index.RecordPointer{Gen: compactionGen, Offset: newOffset, Length: ptr.Length, Key: ptr.Key})
	}

	if err := sink.Flush(); err != nil {
		_ = scratch.Close()
		_ = newWriter.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		_ = scratch.Close()
		_ = newWriter.Close()
		return err
	}
	_ = scratch.Close()

	// The safe-point only advances once every live pointer already refers
	// to compactionGen, so a reader can never observe the new safe-point
	// alongside a pointer into a generation that safe-point would let
	// another goroutine delete out from under it.
	s.safePoint.Store(compactionGen)

	if err := s.writerState.writer.Close(); err != nil {
		s.log.Errorw("failed to close previous segment writer after compaction", "error", err, "gen", oldCurrentGen)
	}

	s.writerState.writer = newWriter
	s.writerState.currentGen = newCurrentGen
	s.writerState.uncompacted = 0

	gens, err := seginfo.List(s.dir, s.log)
	if err != nil {
		return err
	}
	for _, gen := range gens {
		if gen >= compactionGen {
			continue
		}
		if err := os.Remove(seginfo.Path(s.dir, gen)); err != nil {
			// Best effort: removal correctness does not matter beyond
			// freeing disk space, since the safe-point already keeps any
			// reader from opening this generation again.
			s.log.Warnw("failed to remove stale segment after compaction", "gen", gen, "error", err)
		}
	}

	return nil
}
