// Package docfile provides an embedded document store backed by a single
// JSON file. A Database holds an ordered tree of named values in memory
// and rewrites the whole file on every mutation, so after any successful
// call the file on disk is exactly the pretty-printed form of the tree.
//
// Values are strings, unsigned integers, booleans, arrays of strings and
// nested trees. Trees can be built on their own and attached to a database
// (or to another tree) under a key; attaching copies the contents.
package docfile

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic handling. ErrNotFound and
// ErrTypeMismatch are the routine outcomes callers are expected to branch
// on. ErrUnusable means an I/O fault left the file and the tree out of step.
var (
	ErrNotFound     = errors.New("key not found")
	ErrTypeMismatch = errors.New("type mismatch")
	ErrDecode       = errors.New("malformed document")
	ErrEmptyKey     = errors.New("key cannot be empty")
	ErrNotLoaded    = errors.New("database is not loaded")
	ErrLoaded       = errors.New("database is already loaded")
	ErrClosed       = errors.New("database is closed")
	ErrUnusable     = errors.New("database is unusable")
	ErrShortWrite   = errors.New("short write")
	ErrSnapshot     = errors.New("corrupt snapshot")
)

// KeyNotFoundError is returned by Find when the key is absent. The message
// names the key and is safe to show to end users.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q does not exist", e.Key)
}

func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TypeMismatchError is returned by a Value projection when the stored kind
// differs from the requested one.
type TypeMismatchError struct {
	Want Kind
	Got  Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: want %s, got %s", e.Want, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// DecodeError wraps a failure to parse a document.
type DecodeError struct {
	Offset int64 // byte offset when known, -1 otherwise
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%v at offset %d: %v", ErrDecode, e.Offset, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrDecode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func decodeErrorf(offset int64, format string, args ...any) error {
	return &DecodeError{Offset: offset, Err: fmt.Errorf(format, args...)}
}
