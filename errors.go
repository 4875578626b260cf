package vfs

import (
	"fmt"

	"github.com/pkg/errors"
)

// NoSuchFileError is returned whenever a path, or an intermediate component
// of a path, does not exist. This also covers a broken symbolic link whose
// target cannot be found, and popping ".." past a component that turned out
// not to exist.
type NoSuchFileError struct {
	Path  string
	Cause error
}

func (e *NoSuchFileError) Error() string { return "no such file: " + e.Path }
func (e *NoSuchFileError) Unwrap() error { return e.Cause }

// FileAlreadyExistsError is returned by create_new, by a non-replacing copy
// or move onto an existing target, by creating the root, and by creating a
// symbolic link onto an existing name.
type FileAlreadyExistsError struct {
	Path  string
	Cause error
}

func (e *FileAlreadyExistsError) Error() string { return "file already exists: " + e.Path }
func (e *FileAlreadyExistsError) Unwrap() error { return e.Cause }

// NotDirectoryError is returned when an operation that requires a Directory
// (enumeration, descending a path) is attempted on a node that is not one.
type NotDirectoryError struct {
	Path  string
	Cause error
}

func (e *NotDirectoryError) Error() string { return "not a directory: " + e.Path }
func (e *NotDirectoryError) Unwrap() error { return e.Cause }

// NotLinkError is returned when reading a symbolic-link target on a node
// that is not a Link.
type NotLinkError struct {
	Path  string
	Cause error
}

func (e *NotLinkError) Error() string { return "not a symbolic link: " + e.Path }
func (e *NotLinkError) Unwrap() error { return e.Cause }

// DirectoryNotEmptyError is returned when deleting a non-empty directory, or
// moving a directory onto an existing non-empty directory, or moving the root.
type DirectoryNotEmptyError struct {
	Path  string
	Cause error
}

func (e *DirectoryNotEmptyError) Error() string { return "directory not empty: " + e.Path }
func (e *DirectoryNotEmptyError) Unwrap() error { return e.Cause }

// AccessDeniedError is returned whenever a read-only node or a read-only
// parent blocks a mutation, including opening a read-only File for writing.
type AccessDeniedError struct {
	Path  string
	Cause error
}

func (e *AccessDeniedError) Error() string { return "access denied: " + e.Path }
func (e *AccessDeniedError) Unwrap() error { return e.Cause }

// IsDirectoryError is returned when opening a Directory as a byte channel or
// stream, or creating a hard link that targets a Directory.
type IsDirectoryError struct {
	Path  string
	Cause error
}

func (e *IsDirectoryError) Error() string { return "is a directory: " + e.Path }
func (e *IsDirectoryError) Unwrap() error { return e.Cause }

// FileSystemError is the generic taxonomy member, carrying a free-form
// Reason alongside the Path it concerns. It is what path resolution raises
// once the symbolic-link hop budget is exhausted. Negative sizes and
// negative positions are rejected with IllegalArgumentError instead.
type FileSystemError struct {
	Path   string
	Reason string
	Cause  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("file system error on %s: %s", e.Path, e.Reason)
}
func (e *FileSystemError) Unwrap() error { return e.Cause }

// UnsupportedOperationError is returned for an unknown open/copy option, or
// an unsupported attribute view.
type UnsupportedOperationError struct {
	Detail string
	Cause  error
}

func (e *UnsupportedOperationError) Error() string { return "unsupported operation: " + e.Detail }
func (e *UnsupportedOperationError) Unwrap() error { return e.Cause }

// IllegalArgumentError is returned for an unsupported attribute name within
// a known view, an invalid URI scheme, or a negative channel position, size
// or count.
type IllegalArgumentError struct {
	Detail string
	Cause  error
}

func (e *IllegalArgumentError) Error() string { return "illegal argument: " + e.Detail }
func (e *IllegalArgumentError) Unwrap() error { return e.Cause }

// IllegalStateError is returned for a DirectoryStream#Iterator() call made
// twice, or made after the stream has been closed.
type IllegalStateError struct {
	Detail string
	Cause  error
}

func (e *IllegalStateError) Error() string { return "illegal state: " + e.Detail }
func (e *IllegalStateError) Unwrap() error { return e.Cause }

// ClosedChannelError is returned by any operation attempted on a channel or
// stream after Close has already run.
type ClosedChannelError struct {
	Cause error
}

func (e *ClosedChannelError) Error() string { return "channel closed" }
func (e *ClosedChannelError) Unwrap() error { return e.Cause }

// NonReadableChannelError is returned by a read on a channel opened without
// read access, and by a shared-lock request on a channel that is not readable.
type NonReadableChannelError struct {
	Cause error
}

func (e *NonReadableChannelError) Error() string { return "channel is not readable" }
func (e *NonReadableChannelError) Unwrap() error { return e.Cause }

// NonWritableChannelError is returned by a write on a channel opened without
// write access, and by an exclusive-lock request on a channel that is not
// writable.
type NonWritableChannelError struct {
	Cause error
}

func (e *NonWritableChannelError) Error() string { return "channel is not writable" }
func (e *NonWritableChannelError) Unwrap() error { return e.Cause }

// OverlappingFileLockError is returned when a lock acquisition overlaps any
// currently-valid lock on the same File.
type OverlappingFileLockError struct {
	Path  string
	Cause error
}

func (e *OverlappingFileLockError) Error() string { return "overlapping file lock: " + e.Path }
func (e *OverlappingFileLockError) Unwrap() error { return e.Cause }

// DirectoryIterationError wraps an error returned by a filter callback,
// surfaced from the directory-stream iterator that consulted it. A panic in
// the filter is not recovered.
type DirectoryIterationError struct {
	Cause error
}

func (e *DirectoryIterationError) Error() string {
	return fmt.Sprintf("directory iteration error: %v", e.Cause)
}
func (e *DirectoryIterationError) Unwrap() error { return e.Cause }

// ClassCastError is returned when an attribute is set with a value of the
// wrong Go type for its declared kind.
type ClassCastError struct {
	Detail string
	Cause  error
}

func (e *ClassCastError) Error() string { return "class cast error: " + e.Detail }
func (e *ClassCastError) Unwrap() error { return e.Cause }

// wrapf attaches additional context to cause using github.com/pkg/errors,
// preserving a stack trace for diagnostics while leaving cause itself
// discoverable via errors.As/errors.Is down the chain.
func wrapf(cause error, format string, args ...interface{}) error {
	return errors.Wrapf(cause, format, args...)
}
