package domain

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	// ErrEndOfData signals that a cursor move or field enumeration ran out of data.
	// It is a normal terminal condition and never reaches API callers.
	ErrEndOfData = errors.New("end of data")

	// ErrEntryNotFound is returned when no entry exists at a requested timestamp.
	ErrEntryNotFound = errors.New("journal entry not found")

	// ErrInvalidQuery is returned when a query request cannot be turned into a QuerySpec.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrStoreUnavailable is returned when the journal cannot be opened on this platform.
	ErrStoreUnavailable = errors.New("journal store unavailable")
)

// CodeInternal is used for failures that carry no native return code,
// such as field data that is not valid text.
const CodeInternal = -1

// StoreError is a failure reported by the journal store. Code holds the
// negative native return code (-errno) or CodeInternal.
type StoreError struct {
	Op   string
	Code int
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("journal %s failed (code %d): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("journal %s failed (code %d)", e.Op, e.Code)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err as a StoreError for op. An errno anywhere in the
// chain becomes the code; errors that are already StoreErrors, and
// ErrEndOfData, pass through unchanged.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrEndOfData) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}

	code := CodeInternal
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		code = -int(errno)
	}
	return &StoreError{Op: op, Code: code, Err: err}
}

// FromReturnCode maps a native return value to an error. Non-negative values are success.
func FromReturnCode(op string, rc int) error {
	if rc >= 0 {
		return nil
	}
	return &StoreError{Op: op, Code: rc, Err: syscall.Errno(-rc)}
}

// InvalidTextError reports field data that could not be decoded as text.
func InvalidTextError(op, field string) error {
	return &StoreError{Op: op, Code: CodeInternal, Err: fmt.Errorf("field %q is not valid UTF-8", field)}
}

// IsSkippableField reports whether err marks a field that is too large or
// uses an unsupported encoding. Enumeration skips such fields.
func IsSkippableField(err error) bool {
	var se *StoreError
	if !errors.As(err, &se) {
		return false
	}
	switch syscall.Errno(-se.Code) {
	case syscall.E2BIG, syscall.ENOBUFS, syscall.EPROTONOSUPPORT:
		return true
	}
	return false
}
