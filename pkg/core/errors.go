package core

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	// ErrTableNotFound means both existence probes agree the table is missing.
	ErrTableNotFound = errors.New("table not found")

	// ErrTableInaccessible means the table could not be described and the
	// fallback listing probe failed as well.
	ErrTableInaccessible = errors.New("table not found or inaccessible")

	// ErrInvalidInput is returned before any SQL is built for input that would
	// produce malformed statements.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExecution wraps database errors raised while running a statement.
	ErrExecution = errors.New("execution failed")
)

// TableStatus is the outcome of a table existence check.
type TableStatus int

const (
	// TableExists means the table can be described.
	TableExists TableStatus = iota
	// TableMissing means the table does not exist.
	TableMissing
	// TableInaccessible means existence could not be determined.
	TableInaccessible
	// TableInvalid means the name was rejected before any query ran.
	TableInvalid
)

func (s TableStatus) String() string {
	switch s {
	case TableExists:
		return "exists"
	case TableMissing:
		return "missing"
	case TableInaccessible:
		return "inaccessible"
	case TableInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// TableError is returned when a table fails validation.
type TableError struct {
	Table  string
	Status TableStatus
	Cause  error
}

func (e *TableError) Error() string {
	if e.Status == TableInaccessible && e.Cause != nil {
		return fmt.Sprintf("table '%s' does not exist or is not accessible: %v", e.Table, e.Cause)
	}
	return fmt.Sprintf("table '%s' does not exist", e.Table)
}

// Is matches ErrTableNotFound or ErrTableInaccessible depending on Status.
func (e *TableError) Is(target error) bool {
	switch target {
	case ErrTableNotFound:
		return e.Status == TableMissing
	case ErrTableInaccessible:
		return e.Status == TableInaccessible
	}
	return false
}

func (e *TableError) Unwrap() error { return e.Cause }

// ExecError is returned when the database rejects a statement.
type ExecError struct {
	Op  string
	SQL string
	Err error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

// Is matches ErrExecution.
func (e *ExecError) Is(target error) bool { return target == ErrExecution }

func (e *ExecError) Unwrap() error { return e.Err }
