package storage

import (
	"context"
	stdErrors "errors"
	"io"

	"go.uber.org/multierr"

	"github.com/ignitedb/ignite/internal/codec"
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/segment"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/seginfo"
)

var ErrStoreClosed = stdErrors.New("operation failed: cannot access closed storage engine")

// Open bootstraps a Store over dataDir: it creates the directory if
// necessary, replays every existing segment in generation order to rebuild
// the index and the uncompacted-bytes counter, and opens a fresh writer at
// the next generation.
func Open(ctx context.Context, config *Config) (*Store, error) {
	if config == nil || config.DataDir == "" || config.Logger == nil {
		return nil, errors.NewRequiredFieldError("config")
	}

	threshold := config.CompactionThreshold
	if threshold == 0 {
		threshold = DefaultCompactionThreshold
	}

	dir := config.DataDir
	if err := filesys.CreateDir(dir, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, dir)
	}

	idx, err := index.New(&index.Config{Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	gens, err := seginfo.List(dir, config.Logger)
	if err != nil {
		return nil, err
	}

	var uncompacted uint64
	for _, gen := range gens {
		n, err := replay(dir, gen, idx)
		if err != nil {
			return nil, err
		}
		uncompacted += n
	}

	currentGen := uint64(1)
	if len(gens) > 0 {
		currentGen = gens[len(gens)-1] + 1
	}

	safePoint := currentGen
	if len(gens) > 0 {
		safePoint = gens[0]
	}

	writer, err := segment.OpenAppend(seginfo.Path(dir, currentGen))
	if err != nil {
		return nil, err
	}

	s := &Store{
		dir:                 dir,
		log:                 config.Logger,
		index:               idx,
		compactionThreshold: threshold,
	}
	s.safePoint.Store(safePoint)
	s.writerState = &writerState{currentGen: currentGen, writer: writer, uncompacted: uncompacted}

	config.Logger.Infow("storage engine opened",
		"dataDir", dir, "currentGen", currentGen, "safePoint", safePoint, "segments", len(gens), "uncompacted", uncompacted,
	)
	return s, nil
}

// replay reads every record of segment gen in order, folding Set/Remove
// records into idx exactly as the original write path would have, and
// returns the number of dead bytes found along the way: the length of every
// earlier record a Set or Remove in this segment supersedes, plus the length
// of each Remove tombstone itself.
func replay(dir string, gen uint64, idx *index.Index) (uint64, error) {
	reader, err := segment.OpenRead(seginfo.Path(dir, gen))
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	dec := codec.NewDecoder(reader)
	var uncompacted uint64
	var pos int64

	for {
		rec, newPos, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}

		length := uint32(newPos - pos)
		switch rec.Kind {
		case codec.KindSet:
			if old, had := idx.Put(rec.Key, index.RecordPointer{Gen: gen, Offset: pos, Length: length, Key: rec.Key}); had {
				uncompacted += uint64(old.Length)
			}
		case codec.KindRemove:
			if old, had := idx.Delete(rec.Key); had {
				uncompacted += uint64(old.Length)
			}
			uncompacted += uint64(length)
		}
		pos = newPos
	}

	return uncompacted, nil
}

// Close shuts the store down: it closes the active segment writer and the
// index, combining any failures into one error.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrStoreClosed
	}

	var err error
	s.writerMu.Lock()
	if cerr := s.writerState.writer.Close(); cerr != nil {
		err = multierr.Append(err, cerr)
	}
	s.writerMu.Unlock()

	if cerr := s.index.Close(); cerr != nil {
		err = multierr.Append(err, cerr)
	}
	return err
}
