package ignite

import (
	"context"
	stdErrors "errors"
	"testing"

	kverrors "github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/options"
)

func newTestInstance(t *testing.T) *Instance {
	t.Helper()
	inst, err := NewInstance(context.Background(), "ignite-test", options.WithDataDir(t.TempDir()))
	if err != nil {
		t.Fatalf("NewInstance failed: %v", err)
	}
	t.Cleanup(func() { inst.Close(context.Background()) })
	return inst
}

func TestInstanceSetGetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inst := newTestInstance(t)

	if err := inst.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := inst.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("got %q, want %q", got, "v")
	}

	if err := inst.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := inst.Get(ctx, "k"); !stdErrors.Is(err, kverrors.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after delete, got %v", err)
	}
}

func TestInstanceRepeatedGetsWithPooledReaderCaches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inst := newTestInstance(t)

	if err := inst.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		if _, err := inst.Get(ctx, "k"); err != nil {
			t.Fatalf("Get failed on call %d: %v", i, err)
		}
	}
}
