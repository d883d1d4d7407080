package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrBadPrototype is returned when a cell references a prototype that
	// the load result does not carry.
	ErrBadPrototype = errors.New("grid: cell references unknown prototype")
	// ErrInvalidResult is returned when a load result violates the metric
	// invariants.
	ErrInvalidResult = errors.New("grid: invalid load result")
	// ErrResizeInactive is returned when a resize gesture arrives with no
	// drag in progress.
	ErrResizeInactive = errors.New("grid: no resize in progress")
	// ErrResizeActive is returned when a drag starts while another one is
	// still running.
	ErrResizeActive = errors.New("grid: resize already in progress")
	// ErrOutOfRange is returned when a gesture targets a row or column the
	// table does not have.
	ErrOutOfRange = errors.New("grid: row or column out of range")
)

// LoadError is a failed load. The engine keeps its previous state; hosts
// surface the error to the user.
type LoadError struct {
	TableID string
	Start   int
	Count   int
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load rows %d..%d of table %s: %v", e.Start, e.Start+e.Count, e.TableID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// CommitError is a failed resize commit or one-shot action.
type CommitError struct {
	TableID string
	Op      string
	Err     error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("%s on table %s: %v", e.Op, e.TableID, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
