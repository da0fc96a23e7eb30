package store

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel conditions shared by every backend. Flows match on these with
// errors.Is to pick the user-facing message.
var (
	// ErrNotFound reports a missing category, sheet or record.
	ErrNotFound = errors.New("not found")
	// ErrExists reports a duplicate category or sheet name.
	ErrExists = errors.New("already exists")
	// ErrProtected reports an attempt to delete a default category.
	ErrProtected = errors.New("category is protected")
)

// Error wraps a backend failure with the store operation it occurred in.
type Error struct {
	Op  string // e.g. "append_record"
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Code returns a stable machine-readable code for log correlation.
func (e *Error) Code() string {
	return "STORE_" + strings.ToUpper(e.Op)
}

// E wraps err with the operation name. Returns nil for a nil err.
func E(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
