package db

import "errors"

// ErrNotFound signals a missing row or key.
var ErrNotFound = errors.New("db: row not found")

// Op names give error context for driver failures.
const (
	OpOpen    = "OPEN"
	OpPing    = "PING"
	OpEval    = "EVAL"
	OpHGetAll = "HGETALL"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
