// Package errors defines the structured error type used throughout the tempa
// pipeline. Every failure carries an ErrorKind identifying the stage that
// failed, so callers can distinguish read failures (which trigger the
// byte-copy fallback) from terminal ones, together with the path the failure
// originated from.
package errors

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes pipeline failures by the stage they occurred in.
type ErrorKind string

const (
	KindDirCreate   ErrorKind = "dir-create"
	KindFileRead    ErrorKind = "file-read"
	KindFileWrite   ErrorKind = "file-write"
	KindFileCopy    ErrorKind = "file-copy"
	KindFileCreate  ErrorKind = "file-create"
	KindUnsupported ErrorKind = "unsupported-entry"
	KindTraversal   ErrorKind = "traversal"
	KindConfig      ErrorKind = "config"
)

// TempaError is a structured error carrying the failure kind, the path it
// originated from and the underlying cause.
type TempaError struct {
	Kind    ErrorKind
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *TempaError) Error() string {
	msg := fmt.Sprintf("[%s]", e.Kind)
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error.
func (e *TempaError) Unwrap() error {
	return e.Cause
}

// Is matches TempaErrors by kind, so errors.Is(err, &TempaError{Kind:
// KindFileRead}) holds regardless of path and cause.
func (e *TempaError) Is(target error) bool {
	var t *TempaError
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New creates a TempaError without a cause.
func New(kind ErrorKind, path, message string) *TempaError {
	return &TempaError{Kind: kind, Path: path, Message: message}
}

// Wrap creates a TempaError wrapping an underlying cause.
func Wrap(kind ErrorKind, path string, cause error) *TempaError {
	return &TempaError{Kind: kind, Path: path, Cause: cause}
}

// Error creation functions

// NewDirCreateError reports a failure to create a destination directory.
func NewDirCreateError(path string, cause error) *TempaError {
	return Wrap(KindDirCreate, path, cause)
}

// NewFileReadError reports a failure to read a source file as text.
func NewFileReadError(path string, cause error) *TempaError {
	return Wrap(KindFileRead, path, cause)
}

// NewFileWriteError reports a failure to write rendered output.
func NewFileWriteError(path string, cause error) *TempaError {
	return Wrap(KindFileWrite, path, cause)
}

// NewFileCopyError reports a failure of the byte-copy fallback.
func NewFileCopyError(path string, cause error) *TempaError {
	return Wrap(KindFileCopy, path, cause)
}

// NewFileCreateError reports a failure to create a destination file,
// typically because it already exists.
func NewFileCreateError(path string, cause error) *TempaError {
	return Wrap(KindFileCreate, path, cause)
}

// NewUnsupportedEntryError reports a directory entry that is neither a
// regular file nor a directory (symlink, device, fifo, ...).
func NewUnsupportedEntryError(path string) *TempaError {
	return New(KindUnsupported, path, "entry type not supported")
}

// NewTraversalError reports an inaccessible traversal root. This is the only
// fatal filesystem error; everything below the root degrades to a skip.
func NewTraversalError(path string, cause error) *TempaError {
	return Wrap(KindTraversal, path, cause)
}

// NewConfigError reports invalid or missing run configuration.
func NewConfigError(message string) *TempaError {
	return New(KindConfig, "", message)
}

// KindOf extracts the ErrorKind from an error chain, if any.
func KindOf(err error) (ErrorKind, bool) {
	var t *TempaError
	if errors.As(err, &t) {
		return t.Kind, true
	}
	return "", false
}
