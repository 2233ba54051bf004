// Command ignite-server runs the ignite TCP front end: it opens (or
// creates) a data directory with the log-structured engine, starts the
// worker pool that services connections, and serves the wire protocol
// until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/natefinch/atomic"
	"github.com/spf13/pflag"

	"github.com/ignitedb/ignite/internal/engine"
	"github.com/ignitedb/ignite/internal/server"
	"github.com/ignitedb/ignite/internal/workerpool"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
)

// engineSentinelFile records which storage engine a data directory was
// created with. Reopening it with a different --engine value is rejected,
// mirroring the original CLI's refusal to mix engine implementations
// within one directory.
const engineSentinelFile = "engine"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ignite-server:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		addr                string
		dataDir             string
		engineName          string
		poolSize            int
		compactionThreshold uint64
	)

	defaults := options.NewDefaultOptions()

	pflag.StringVar(&addr, "addr", defaults.Addr, "address to bind the server to")
	pflag.StringVar(&dataDir, "data-dir", defaults.DataDir, "directory to store log segments in")
	pflag.StringVar(&engineName, "engine", "kvs", "storage engine to use (kvs)")
	pflag.IntVar(&poolSize, "pool-size", defaults.PoolSize, "number of worker goroutines servicing connections")
	pflag.Uint64Var(&compactionThreshold, "compaction-threshold", defaults.CompactionThreshold, "bytes of stale data that trigger compaction")
	pflag.Parse()

	if err := resolveEngine(dataDir, engineName); err != nil {
		return err
	}

	log := logger.New("ignite-server")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	eng, err := engine.New(ctx, &engine.Config{
		Logger: log,
		Options: &options.Options{
			DataDir:             dataDir,
			CompactionThreshold: compactionThreshold,
			PoolSize:            poolSize,
			Addr:                addr,
			ReadTimeout:         defaults.ReadTimeout,
		},
	})
	if err != nil {
		return fmt.Errorf("opening engine: %w", err)
	}
	defer eng.Close()

	pool := workerpool.New(poolSize, log)
	defer pool.Stop()

	srv := server.New(eng, pool, log, addr, defaults.ReadTimeout)

	go func() {
		<-ctx.Done()
		log.Infow("shutting down")
		srv.Stop()
	}()

	return srv.Run()
}

// resolveEngine rejects storage engines this build does not implement and
// enforces that a data directory is always reopened with the same engine
// it was created with.
func resolveEngine(dataDir, requested string) error {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if requested != "kvs" {
		return fmt.Errorf("engine %q is not supported by this build; only \"kvs\" is implemented", requested)
	}

	sentinelPath := dataDir + string(os.PathSeparator) + engineSentinelFile

	present, err := filesys.Exists(sentinelPath)
	if err != nil {
		return fmt.Errorf("checking engine sentinel: %w", err)
	}
	if !present {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		if err := atomic.WriteFile(sentinelPath, strings.NewReader(requested)); err != nil {
			return fmt.Errorf("writing engine sentinel: %w", err)
		}
		return nil
	}

	existing, err := filesys.ReadFile(sentinelPath)
	if err != nil {
		return fmt.Errorf("reading engine sentinel: %w", err)
	}
	if got := strings.TrimSpace(string(existing)); got != requested {
		return fmt.Errorf("data directory %s was created with engine %q, cannot reopen with %q", dataDir, got, requested)
	}
	return nil
}
