package workspace

import (
	"errors"
	"fmt"
)

var (
	ErrLastPage    = errors.New("cannot delete: at least one page required")
	ErrFolderCycle = errors.New("cannot move folder into itself or one of its descendants")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ValidationError reports rejected input. Err is usually a validation.Errors map keyed by
// json field name.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid input: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PersistError means the change was computed but could not be saved. The in-memory state
// is left as it was before the call.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s: save failed: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func notFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}
