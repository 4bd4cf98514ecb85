package reconcile

import (
	"errors"
	"fmt"
)

// Precondition errors. None of these may be followed by a mutating
// backend call, and none are softened by dry-run mode.
var (
	// ErrNotFound means a lookup yielded nothing where a resource was required.
	ErrNotFound = errors.New("resource not found")

	// ErrMultipleMatches means a name resolved to more than one resource.
	// Ambiguous identity is never auto-resolved.
	ErrMultipleMatches = errors.New("multiple resources match")

	// ErrInvalidCombination means the identifying fields do not match any
	// row of the dispatch table.
	ErrInvalidCombination = errors.New("invalid combination of identifying fields")

	// ErrDependencyNotFound means a resource this one depends on (the user
	// or project of a role assignment) does not exist. The dependency is
	// never created implicitly. It matches ErrNotFound under errors.Is.
	ErrDependencyNotFound = fmt.Errorf("dependent %w", ErrNotFound)

	// ErrNotImplemented marks a lifecycle transition the backend module
	// does not support yet, as distinct from one that failed.
	ErrNotImplemented = errors.New("operation not implemented")
)

// isPrecondition reports whether err is a local precondition failure
// rather than a backend failure.
func isPrecondition(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrMultipleMatches) ||
		errors.Is(err, ErrInvalidCombination) ||
		errors.Is(err, ErrDependencyNotFound) ||
		errors.Is(err, ErrNotImplemented)
}
