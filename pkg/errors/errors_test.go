package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestStorageErrorPathAndFileNameAreIndependent(t *testing.T) {
	t.Parallel()

	err := NewStorageError(nil, ErrorCodeIO, "boom").
		WithPath("/data/1.log").
		WithFileName("1.log")

	if err.Path() != "/data/1.log" {
		t.Errorf("Path() = %q, want %q", err.Path(), "/data/1.log")
	}
	if err.FileName() != "1.log" {
		t.Errorf("FileName() = %q, want %q", err.FileName(), "1.log")
	}
}

func TestAsStorageErrorUnwrapsThroughWrapping(t *testing.T) {
	t.Parallel()

	base := NewStorageError(stdErrors.New("disk error"), ErrorCodeIO, "failed to write").WithPath("/data/1.log")
	wrapped := stdErrors.New("operation failed") // a plain error, not wrapping base: negative case
	if _, ok := AsStorageError(wrapped); ok {
		t.Error("expected AsStorageError to report false for an unrelated error")
	}

	se, ok := AsStorageError(fmt.Errorf("write path: %w", base))
	if !ok {
		t.Fatal("expected AsStorageError to find the StorageError")
	}
	if se.Path() != "/data/1.log" {
		t.Errorf("Path() = %q, want %q", se.Path(), "/data/1.log")
	}
}

func TestIndexErrorKeyNotFoundWrapsSentinel(t *testing.T) {
	t.Parallel()

	err := NewKeyNotFoundError("missing-key", "Remove")
	if !stdErrors.Is(err, ErrKeyNotFound) {
		t.Fatal("expected NewKeyNotFoundError to wrap ErrKeyNotFound")
	}
	if err.Key() != "missing-key" {
		t.Errorf("Key() = %q, want %q", err.Key(), "missing-key")
	}
}

func TestCodecErrorCarriesOffset(t *testing.T) {
	t.Parallel()

	err := NewCodecError(stdErrors.New("unexpected token"), "malformed record").WithOffset(42)
	if err.Offset() != 42 {
		t.Errorf("Offset() = %d, want 42", err.Offset())
	}
}
