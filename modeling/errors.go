package modeling

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateName is matched by every DuplicateNameError.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrInvalidContainer is matched by every InvalidContainerError.
	ErrInvalidContainer = errors.New("invalid container")

	// ErrPortNotFound is returned when an operation refers to a port that the
	// entity does not own.
	ErrPortNotFound = errors.New("port not found")
)

// DuplicateNameError reports a name collision within one entity.
type DuplicateNameError struct {
	Entity string
	Kind   string
	Name   string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q already exists in %s", e.Kind, e.Name, e.Entity)
}

// Is makes the error match ErrDuplicateName.
func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

// InvalidContainerError reports a refinement placed under something that
// cannot hold refinements.
type InvalidContainerError struct {
	Refinement string
	Reason     string
}

func (e *InvalidContainerError) Error() string {
	return fmt.Sprintf(
		"refinement %s has an invalid container: %s", e.Refinement, e.Reason)
}

// Is makes the error match ErrInvalidContainer.
func (e *InvalidContainerError) Is(target error) bool {
	return target == ErrInvalidContainer
}

// PartialMirrorError reports a broadcast that failed after some refinements
// were already mirrored. The structure is left as is; the caller is
// responsible for repairing or discarding it.
type PartialMirrorError struct {
	Port     string
	Mirrored []string
	Pending  []string
	Err      error
}

func (e *PartialMirrorError) Error() string {
	return fmt.Sprintf(
		"mirroring port %q stopped after [%s], pending [%s]: %v",
		e.Port,
		strings.Join(e.Mirrored, ", "),
		strings.Join(e.Pending, ", "),
		e.Err,
	)
}

func (e *PartialMirrorError) Unwrap() error {
	return e.Err
}
