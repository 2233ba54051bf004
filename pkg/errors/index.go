package errors

// IndexError provides specialized error handling for index-related operations.
// This structure extends the base error system with index-specific context
// while properly supporting method chaining through all base error methods.
type IndexError struct {
	// Embed the base error to inherit all standard error functionality
	// including error chaining, structured details, and error codes.
	*baseError

	// Identifies which key was being processed when the error occurred.
	// This is particularly valuable for debugging because it tells you exactly
	// which piece of data was involved in the failed operation.
	key string

	// Indicates which segment generation was involved in the error, if
	// applicable. This helps correlate index errors with specific segment
	// files and can guide recovery operations or compaction decisions.
	//
	// Widened from the original uint16 to uint64: this system identifies
	// segments by an unbounded generation counter, not a 16-bit ordinal, so
	// capping it at 65,535 would silently misreport segment identity long
	// before a long-lived store ever got close to that many generations.
	segmentID uint64

	// Describes what index operation was being performed when the
	// error occurred (e.g., "Get", "Put", "Delete", "Recovery"). This context
	// helps understand the system state and user actions that led to the error.
	operation string

	// Captures the size of the index at the time of the error.
	// This information helps diagnose capacity-related issues and provides
	// context about the scale of the system when problems occur.
	indexSize int
}

// NewIndexError creates a new index-specific error with the provided context.
// This constructor follows the same pattern as other error types in the system,
// taking a causing error, error code, and descriptive message.
func NewIndexError(err error, code ErrorCode, msg string) *IndexError {
	return &IndexError{
		baseError: NewBaseError(err, code, msg),
	}
}

// WithDetail adds contextual information while maintaining the IndexError type.
func (ie *IndexError) WithDetail(key string, value any) *IndexError {
	ie.baseError.WithDetail(key, value)
	return ie
}

// Index-specific methods that add domain-specific context to the error.
// These methods enable comprehensive error reporting for index operations
// while maintaining the fluent interface pattern for readable error construction.

// WithKey records which key was being processed when the error occurred.
// This information proves invaluable for debugging because it enables
// reproduction of the error by attempting the same operation on the same key.
func (ie *IndexError) WithKey(key string) *IndexError {
	ie.key = key
	return ie
}

// WithSegmentID captures which segment was involved in the error.
// This information provides a direct link between index errors and
// the underlying storage system, facilitating cross-layer debugging.
func (ie *IndexError) WithSegmentID(segmentID uint64) *IndexError {
	ie.segmentID = segmentID
	return ie
}

// WithOperation records what index operation was being performed.
// This context helps understand the system state and operation sequence
// that led to the error condition, enabling more effective debugging.
func (ie *IndexError) WithOperation(operation string) *IndexError {
	ie.operation = operation
	return ie
}

// WithIndexSize captures the size of the index when the error occurred.
// This information helps diagnose capacity-related issues and provides
// context about system scale when problems arise.
func (ie *IndexError) WithIndexSize(size int) *IndexError {
	ie.indexSize = size
	return ie
}

// Getter methods provide access to the IndexError-specific context.
// These methods enable error handling code to make informed decisions
// based on the specific context captured during error creation.

// Key returns the key that was being processed when the error occurred.
func (ie *IndexError) Key() string {
	return ie.key
}

// SegmentID returns the segment generation associated with the error.
func (ie *IndexError) SegmentID() uint64 {
	return ie.segmentID
}

// Operation returns the name of the operation that was being performed.
func (ie *IndexError) Operation() string {
	return ie.operation
}

// IndexSize returns the size of the index when the error occurred.
func (ie *IndexError) IndexSize() int {
	return ie.indexSize
}

// Helper functions for creating common index errors with appropriate context.
// These convenience functions encapsulate best practices for index error
// creation while reducing the cognitive burden on developers using the system.

// KeyNotFoundMessage is the exact text NewKeyNotFoundError reports. It is
// exported so a client on the other side of the wire protocol — which only
// ever receives this as an opaque string, never the sentinel itself — can
// still recognize this specific case and give it distinct handling (e.g.
// a literal "Key not found" printed on a CLI's stderr).
const KeyNotFoundMessage = "key not found in index"

// NewKeyNotFoundError creates a specialized error for missing keys,
// wrapping the ErrKeyNotFound sentinel so callers can still match it with
// errors.Is(err, ErrKeyNotFound) regardless of which operation raised it.
func NewKeyNotFoundError(key, operation string) *IndexError {
	return NewIndexError(ErrKeyNotFound, ErrorCodeIndexKeyNotFound, KeyNotFoundMessage).
		WithKey(key).
		WithOperation(operation)
}

// NewSegmentIDError creates an error for the case where the index points a
// key at a generation whose segment file no longer exists on disk. This
// should only happen under corruption, since the safe-point mechanism is
// supposed to guarantee a live pointer's generation is never deleted.
func NewSegmentIDError(segmentID uint64, key string) *IndexError {
	return NewIndexError(nil, ErrorCodeIndexInvalidSegmentID, "segment file for indexed generation not found").
		WithSegmentID(segmentID).
		WithKey(key).
		WithOperation("Get").
		WithDetail("segment_file_exists", false).
		WithDetail("index_consistency_check", "failed")
}

// NewGenerationParseError creates an error for a directory entry that looks
// like a segment file but whose name can't be parsed into a generation
// number (segments are named "<generation>.log").
func NewGenerationParseError(filename string, cause error) *IndexError {
	return NewIndexError(cause, ErrorCodeIndexTimestampExtraction, "failed to parse generation from segment filename").
		WithOperation("GenerationParse").
		WithDetail("filename", filename).
		WithDetail("expected_format", "<generation>.log")
}

// NewIndexCorruptionError creates an error for index corruption scenarios.
// This specialized constructor provides comprehensive context for
// serious index integrity issues that require immediate attention.
func NewIndexCorruptionError(operation string, indexSize int, cause error) *IndexError {
	return NewIndexError(cause, ErrorCodeIndexCorrupted, "index data structure corrupted").
		WithOperation(operation).
		WithIndexSize(indexSize).
		WithDetail("corruption_detected", true).
		WithDetail("recovery_required", true).
		WithDetail("backup_recommended", true)
}
