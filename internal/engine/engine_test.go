package engine

import (
	"context"
	stdErrors "errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ignitedb/ignite/pkg/options"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.DataDir = t.TempDir()

	eng, err := New(context.Background(), &Config{Options: &opts, Logger: zap.NewNop().Sugar()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { eng.Close() })
	return eng
}

func TestEngineSetGetRemove(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	cache := eng.NewReaderCache()
	defer cache.Close()

	if err := eng.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, err := eng.Get(cache, "k")
	if err != nil || !ok || value != "v" {
		t.Fatalf("got (%q, %v, %v), want (\"v\", true, nil)", value, ok, err)
	}

	if err := eng.Remove("k"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	_, ok, err = eng.Get(cache, "k")
	if err != nil || ok {
		t.Fatalf("expected a miss after Remove, got ok=%v err=%v", ok, err)
	}
}

func TestEngineRejectsInvalidOptions(t *testing.T) {
	t.Parallel()

	opts := options.NewDefaultOptions()
	opts.PoolSize = 0

	if _, err := New(context.Background(), &Config{Options: &opts, Logger: zap.NewNop().Sugar()}); err == nil {
		t.Fatal("expected an error for a zero pool size")
	}
}

func TestEngineClosedRejectsOperations(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t)
	if err := eng.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := eng.Set("k", "v"); !stdErrors.Is(err, ErrEngineClosed) {
		t.Fatalf("expected ErrEngineClosed, got %v", err)
	}
	if err := eng.Close(); !stdErrors.Is(err, ErrEngineClosed) {
		t.Fatalf("expected second Close to report ErrEngineClosed, got %v", err)
	}
}
