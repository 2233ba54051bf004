// Package options provides data structures and functions for configuring
// the ignite key/value engine. It defines the parameters that control the
// engine's storage location, compaction behavior, worker pool sizing, and
// network front end, using the same functional-options pattern the rest of
// this module builds its constructors around.
package options

import (
	"net"
	"strings"
	"time"

	"github.com/ignitedb/ignite/pkg/errors"
)

// Options defines the configuration parameters for an ignite engine.
type Options struct {
	// DataDir is the directory holding segment files ("<generation>.log")
	// directly; there is no nested segments subdirectory.
	//
	// Default: "/var/lib/ignitedb"
	DataDir string `json:"dataDir"`

	// CompactionThreshold is the number of dead (uncompacted) bytes that
	// triggers an online compaction.
	//
	// Default: 1,048,576 (1 MiB)
	CompactionThreshold uint64 `json:"compactionThreshold"`

	// PoolSize is the number of workers in the worker pool backing the
	// network front end.
	//
	// Default: 4
	PoolSize int `json:"poolSize"`

	// Addr is the host:port the network front end binds to.
	//
	// Default: "127.0.0.1:4000"
	Addr string `json:"addr"`

	// ReadTimeout bounds how long a connection handler blocks on a single
	// read before re-polling the server's shutdown flag.
	//
	// Default: 2s
	ReadTimeout time.Duration `json:"readTimeout"`
}

// Validate reports the first structural problem with o, if any. It is
// meant to catch options built by hand (not through the OptionFunc
// constructors, which clamp rather than reject) before they reach the
// engine.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.DataDir) == "" {
		return errors.NewRequiredFieldError("dataDir")
	}
	if o.PoolSize <= 0 {
		return errors.NewFieldRangeError("poolSize", o.PoolSize, 1, nil)
	}
	if strings.TrimSpace(o.Addr) == "" {
		return errors.NewRequiredFieldError("addr")
	}
	if _, _, err := net.SplitHostPort(o.Addr); err != nil {
		return errors.NewFieldFormatError("addr", o.Addr, "host:port")
	}
	if o.ReadTimeout <= 0 {
		return errors.NewConfigurationValidationError("readTimeout", "must be positive")
	}
	return nil
}

// OptionFunc is a function type that modifies the engine's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies the baseline configuration values.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		defaults := NewDefaultOptions()
		*o = defaults
	}
}

// WithDataDir sets the directory where segment files are stored.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithCompactionThreshold sets the number of dead bytes that triggers
// compaction. A zero threshold is ignored and the current value kept, since
// a threshold of 0 would compact on every single write.
func WithCompactionThreshold(threshold uint64) OptionFunc {
	return func(o *Options) {
		if threshold > 0 {
			o.CompactionThreshold = threshold
		}
	}
}

// WithPoolSize sets the number of workers backing the network front end.
func WithPoolSize(size int) OptionFunc {
	return func(o *Options) {
		if size > 0 {
			o.PoolSize = size
		}
	}
}

// WithAddr sets the network front end's bind address.
func WithAddr(addr string) OptionFunc {
	return func(o *Options) {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			o.Addr = addr
		}
	}
}

// WithReadTimeout sets how long a connection handler blocks on a single
// read before re-checking the shutdown flag.
func WithReadTimeout(d time.Duration) OptionFunc {
	return func(o *Options) {
		if d > 0 {
			o.ReadTimeout = d
		}
	}
}
