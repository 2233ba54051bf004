package index

import "unsafe"

// RecordPointer contains the absolute minimum metadata required to locate
// and retrieve a live Set record from disk: which segment generation it
// lives in, its byte offset within that segment, and its exact on-disk
// length. This structure is the primary memory consumer in the whole
// engine, so every field except Key stays fixed-width; Key is the map key
// itself, which NonLockingReadMap reads back through GetKey.
//
// Gen identifies the segment by its generation number rather than a small
// fixed-width ordinal: compaction advances the generation on every run, and
// a long-lived store will eventually push it past what a 16-bit counter
// could hold.
type RecordPointer struct {
	Gen    uint64
	Offset int64
	Length uint32
	Key    string
}

// GetKey and ComputeSize are implemented with value receivers, not pointer
// receivers: NonLockingReadMap calls them on a dereferenced *T, so a pointer
// receiver here would not satisfy its KeyGetter constraint.

// GetKey returns the key this pointer indexes, satisfying
// NonLockingReadMap's KeyGetter constraint.
func (p RecordPointer) GetKey() string { return p.Key }

// ComputeSize estimates the memory this entry occupies, satisfying
// NonLockingReadMap's Sizable constraint.
func (p RecordPointer) ComputeSize() uint {
	return uint(unsafe.Sizeof(p)) + uint(len(p.Key))
}
