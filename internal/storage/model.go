// Package storage is the log-structured key/value storage engine: segment
// bootstrap and replay, the single serialized writer path (set, remove,
// compaction), and the lock-free reader path all live here.
package storage

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/segment"
)

// DefaultCompactionThreshold mirrors options.Options.CompactionThreshold's
// default (1 MiB of dead bytes) for callers that construct a Store
// directly, without going through pkg/options.
const DefaultCompactionThreshold = 1024 * 1024

// Store is the log-structured storage engine for one data directory.
type Store struct {
	dir string
	log *zap.SugaredLogger

	index               *index.Index
	compactionThreshold uint64

	safePoint atomic.Uint64

	writerMu    sync.Mutex
	writerState *writerState

	closed atomic.Bool
}

// writerState holds everything only the single writer path touches. It is
// always accessed with writerMu held.
type writerState struct {
	currentGen  uint64
	writer      *segment.Writer
	uncompacted uint64
	poisoned    bool
}

// Config configures a new Store.
type Config struct {
	DataDir             string
	CompactionThreshold uint64
	Logger              *zap.SugaredLogger
}
