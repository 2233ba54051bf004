// Package errors is the error taxonomy for the ignite storage engine: a
// shared baseError embedded by StorageError, IndexError, ValidationError,
// and CodecError, each adding only the context fields its own domain
// needs (segment path and offset, key and generation, field and rule,
// record offset). Every error carries an ErrorCode so callers can branch
// on failure kind without parsing messages, and an optional cause so
// errors.Is/errors.As see through the chain to the underlying syscall or
// sentinel error.
package errors

import (
	stdErrors "errors"
	"os"
	"syscall"
)

// AsStorageError extracts a StorageError from err's chain, giving access
// to the segment path, file name, and byte offset involved.
func AsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ClassifyDirectoryCreationError turns a failed os.MkdirAll into a
// StorageError with a code that reflects the underlying syscall, so
// callers can distinguish "fix your permissions" from "the disk is full"
// without inspecting the raw error.
func ClassifyDirectoryCreationError(err error, path string) error {
	if os.IsPermission(err) {
		return NewStorageError(
			err, ErrorCodePermissionDenied,
			"insufficient permissions to create segment directory",
		).WithPath(path).
			WithDetail("operation", "directory_creation").
			WithDetail("required_permission", "write")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewStorageError(
					err, ErrorCodeDiskFull,
					"insufficient disk space to create segment directory",
				).WithPath(path).WithDetail("operation", "directory_creation")
			case syscall.EROFS:
				return NewStorageError(
					err, ErrorCodeFilesystemReadonly,
					"cannot create directory on read-only filesystem",
				).WithPath(path).WithDetail("operation", "directory_creation")
			}
		}
	}

	return NewStorageError(
		err, ErrorCodeIO, "failed to create segment directory",
	).WithPath(path).WithDetail("operation", "directory_creation")
}

// ClassifyFileOpenError turns a failed segment file open into a
// StorageError with a code reflecting the underlying syscall.
func ClassifyFileOpenError(err error, filePath, fileName string) error {
	if os.IsPermission(err) {
		return NewStorageError(
			err, ErrorCodePermissionDenied,
			"insufficient permissions to open segment file",
		).WithPath(filePath).
			WithFileName(fileName).
			WithDetail("operation", "file_open").
			WithDetail("required_permission", "read_write")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewStorageError(
					err, ErrorCodeDiskFull,
					"insufficient disk space to create segment file",
				).WithPath(filePath).WithFileName(fileName).WithDetail("operation", "file_open")
			case syscall.EROFS:
				return NewStorageError(
					err, ErrorCodeFilesystemReadonly,
					"cannot create file on read-only filesystem",
				).WithPath(filePath).WithFileName(fileName).WithDetail("operation", "file_open")
			}
		}
	}

	return NewStorageError(err, ErrorCodeIO, "failed to open segment file").
		WithPath(filePath).
		WithFileName(fileName).
		WithDetail("operation", "file_open").
		WithDetail("flags", []string{"O_CREATE", "O_RDWR", "O_APPEND"})
}

// ClassifySyncError turns a failed fsync into a StorageError with a code
// reflecting the underlying syscall. offset is the segment's write
// position at the time of the sync, recorded so the segment can be
// truncated back to a known-good boundary on recovery.
func ClassifySyncError(err error, fileName, filePath string, offset int) error {
	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewStorageError(
					err, ErrorCodeDiskFull,
					"cannot sync file: insufficient disk space",
				).WithFileName(fileName).WithPath(filePath).WithOffset(offset).
					WithDetail("operation", "file_sync")
			case syscall.EROFS:
				return NewStorageError(
					err, ErrorCodeFilesystemReadonly,
					"cannot sync file: filesystem is read-only",
				).WithFileName(fileName).WithPath(filePath).WithOffset(offset).
					WithDetail("operation", "file_sync")
			case syscall.EIO:
				return NewStorageError(
					err, ErrorCodeIO,
					"I/O error during file sync: possible hardware or corruption issue",
				).WithFileName(fileName).WithPath(filePath).WithOffset(offset).
					WithDetail("operation", "file_sync").
					WithDetail("severity", "high")
			}
		}
	}

	return NewStorageError(
		err, ErrorCodeIO, "failed to sync segment file to disk",
	).WithFileName(fileName).WithPath(filePath).WithOffset(offset).
		WithDetail("operation", "file_sync").
		WithDetail("currentSize", offset)
}
