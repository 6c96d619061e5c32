package common

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"syscall"
)

// Error kinds surfaced by the organizer passes
var (
	ErrRenameConflict    = errors.New("rename blocked by another process")
	ErrExtractionFailure = errors.New("archive extraction failed")
	ErrIOFailure         = errors.New("filesystem operation failed")
	ErrInvalidTarget     = errors.New("invalid target folder")
	ErrCleanupFailure    = errors.New("failed to delete empty folder")
	ErrPathEmpty         = errors.New("path cannot be empty")
	ErrPathInvalid       = errors.New("path contains invalid characters")
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	ErrUnsafeArchivePath = errors.New("archive entry escapes destination")
	ErrNotDirectory      = errors.New("not a directory")
)

// OpError records the kind of failure, the operation and the path it hit.
type OpError struct {
	Kind error
	Op   string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

// Is reports whether target is the error kind of e.
func (e *OpError) Is(target error) bool {
	return e.Kind == target
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// NewOpError builds an OpError. A nil err yields nil.
func NewOpError(kind error, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Kind: kind, Op: op, Path: path, Err: err}
}

// IOError wraps err as an ErrIOFailure unless it already carries a kind.
func IOError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return err
	}
	return NewOpError(ErrIOFailure, op, path, err)
}

// IsLockError reports whether err means the target is held by another
// process: a permission failure, a busy resource or a sharing violation.
func IsLockError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrPermission) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EBUSY, syscall.EACCES, syscall.EPERM, syscall.ETXTBSY:
			return true
		}
		// ERROR_SHARING_VIOLATION and ERROR_LOCK_VIOLATION on windows
		if errno == 32 || errno == 33 {
			return runtime.GOOS == "windows"
		}
	}
	return false
}
