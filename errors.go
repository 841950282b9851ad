package cursorpagination

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnNotRegistered matches every *ColumnNotRegisteredError.
	ErrColumnNotRegistered = errors.New("column not registered")
	// ErrCursorDecode matches every *CursorDecodeError.
	ErrCursorDecode = errors.New("could not decode cursor")
	// ErrCursorMismatch is wrapped by a *CursorDecodeError when a well-formed
	// cursor does not fit the current sort specification.
	ErrCursorMismatch = errors.New("cursor does not match sort specification")
	// ErrInvalidResultShape is returned when result rows cannot be read by
	// column name.
	ErrInvalidResultShape = errors.New("invalid result shape")
	// ErrEmptySort is returned when a specification has no sort columns.
	ErrEmptySort = errors.New("empty ordering list")
)

// NameSide tells which side of the name mapping a failed lookup started from.
type NameSide string

const (
	SideInternal NameSide = "internal"
	SidePublic   NameSide = "public"
)

// ColumnNotRegisteredError is returned when an internal or public column name
// was never registered.
type ColumnNotRegisteredError struct {
	Column string
	Side   NameSide
}

func (e *ColumnNotRegisteredError) Error() string {
	if e.Side == SidePublic {
		return fmt.Sprintf("property '%s' could not be found, register all sortable properties before building", e.Column)
	}

	return fmt.Sprintf("column '%s' is not registered, register it before building", e.Column)
}

func (e *ColumnNotRegisteredError) Is(target error) bool {
	return target == ErrColumnNotRegistered
}

// CursorDecodeError reports an inbound cursor token that cannot be used. The
// message is deliberately generic so it can be returned to clients; the cause
// is available through errors.Unwrap.
type CursorDecodeError struct {
	Err error
}

func (e *CursorDecodeError) Error() string {
	return ErrCursorDecode.Error()
}

func (e *CursorDecodeError) Unwrap() error {
	return e.Err
}

func (e *CursorDecodeError) Is(target error) bool {
	return target == ErrCursorDecode
}

func newCursorDecodeError(format string, args ...any) *CursorDecodeError {
	return &CursorDecodeError{Err: fmt.Errorf(format, args...)}
}

func newCursorMismatchError(format string, args ...any) *CursorDecodeError {
	return &CursorDecodeError{Err: fmt.Errorf("%w: %s", ErrCursorMismatch, fmt.Sprintf(format, args...))}
}
