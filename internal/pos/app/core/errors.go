package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNoItems        = errors.New("no order lines to settle")
	ErrInvalidStatus  = errors.New("invalid table status")
	ErrCatalogMissing = errors.New("catalog unavailable and no cached snapshot")
	ErrCollaborator   = errors.New("collaborator unavailable")

	ErrDBConn = errors.New("db connection failure")
	ErrMBConn = errors.New("message broker connection failure")
	ErrMBCh   = errors.New("message broker channel failure")
)

// ValidationErrors collects every reason a settlement request is invalid so
// the caller can show all corrective actions at once, not just the first.
type ValidationErrors struct {
	Reasons []string
}

func (e *ValidationErrors) Add(format string, args ...any) {
	e.Reasons = append(e.Reasons, fmt.Sprintf(format, args...))
}

func (e *ValidationErrors) Empty() bool { return len(e.Reasons) == 0 }

func (e *ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(e.Reasons, "; ")
}

// CommitError marks a failure of the local commit step. Money state integrity
// outranks availability: the store has rolled back and the caller gets a hard
// failure instead of a half-settled table.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string { return "settlement commit failed: " + e.Err.Error() }
func (e *CommitError) Unwrap() error { return e.Err }
