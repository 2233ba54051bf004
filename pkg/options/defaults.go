package options

import "time"

const (
	// DefaultDataDir is the default base directory for segment files.
	DefaultDataDir = "/var/lib/ignitedb"

	// DefaultCompactionThreshold is the default number of dead bytes that
	// triggers an online compaction (1 MiB).
	DefaultCompactionThreshold uint64 = 1024 * 1024

	// DefaultPoolSize is the default worker pool size backing the network
	// front end.
	DefaultPoolSize = 4

	// DefaultAddr is the default bind address for the network front end.
	DefaultAddr = "127.0.0.1:4000"

	// DefaultReadTimeout is the default per-read timeout a connection
	// handler uses to re-poll the server's shutdown flag.
	DefaultReadTimeout = 2 * time.Second
)

// defaultOptions holds the baseline configuration for an ignite engine.
var defaultOptions = Options{
	DataDir:             DefaultDataDir,
	CompactionThreshold: DefaultCompactionThreshold,
	PoolSize:            DefaultPoolSize,
	Addr:                DefaultAddr,
	ReadTimeout:         DefaultReadTimeout,
}

// NewDefaultOptions returns a copy of the baseline configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
