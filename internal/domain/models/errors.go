package models

import "fmt"

// ValidationError signals malformed or out-of-range input supplied by the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// InvalidStateError signals an operation attempted against a plot in the wrong
// lifecycle state, e.g. planting into a plot that is already growing.
type InvalidStateError struct {
	PlotID string
	Status PlotStatus
	Op     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s plot %s while status is %q", e.Op, e.PlotID, e.Status)
}

// NotFoundError signals that a referenced entity does not exist within the
// caller's owner scope.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// DependencyError wraps a failure from an external collaborator (database,
// object storage, remote API). The core never retries these internally.
type DependencyError struct {
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }
