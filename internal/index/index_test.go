package index

import (
	"sync"
	"testing"

	"go.uber.org/zap"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(&Config{Logger: zap.NewNop().Sugar()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return idx
}

func TestIndexPutGetDelete(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)

	if _, ok := idx.Get("missing"); ok {
		t.Fatal("expected miss on empty index")
	}

	ptr := RecordPointer{Gen: 1, Offset: 10, Length: 5, Key: "a"}
	if _, had := idx.Put("a", ptr); had {
		t.Fatal("expected no previous pointer on first insert")
	}

	got, ok := idx.Get("a")
	if !ok || got != ptr {
		t.Fatalf("got (%+v, %v), want (%+v, true)", got, ok, ptr)
	}

	newPtr := RecordPointer{Gen: 2, Offset: 20, Length: 7, Key: "a"}
	old, had := idx.Put("a", newPtr)
	if !had || old != ptr {
		t.Fatalf("expected overwrite to return old pointer %+v, got %+v (had=%v)", ptr, old, had)
	}

	removed, had := idx.Delete("a")
	if !had || removed != newPtr {
		t.Fatalf("expected Delete to return %+v, got %+v (had=%v)", newPtr, removed, had)
	}

	if _, ok := idx.Get("a"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestIndexSnapshotIsKeyOrdered(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	keys := []string{"banana", "apple", "cherry", "date"}
	for i, k := range keys {
		idx.Put(k, RecordPointer{Gen: 1, Offset: int64(i), Length: 1, Key: k})
	}

	snap := idx.Snapshot()
	if len(snap) != len(keys) {
		t.Fatalf("got %d entries, want %d", len(snap), len(keys))
	}
	for i := 1; i < len(snap); i++ {
		if snap[i-1].Key >= snap[i].Key {
			t.Fatalf("snapshot not sorted: %q before %q", snap[i-1].Key, snap[i].Key)
		}
	}
}

func TestIndexConcurrentReadsDuringWrites(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	idx.Put("k", RecordPointer{Gen: 1, Offset: 0, Length: 1, Key: "k"})

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for gen := uint64(2); ; gen++ {
			select {
			case <-stop:
				return
			default:
				idx.Put("k", RecordPointer{Gen: gen, Offset: 0, Length: 1, Key: "k"})
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		if _, ok := idx.Get("k"); !ok {
			t.Error("expected a live pointer for k at all times")
			break
		}
	}
	close(stop)
	wg.Wait()
}

func TestIndexCloseIsNotReentrant(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	if err := idx.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := idx.Close(); err == nil {
		t.Fatal("expected second Close to report an error")
	}
}
