package reconcile

import (
	"errors"
	"fmt"
)

// findByNameOrID resolves a resource identity against a backend listing.
// The backend id and the human-facing name are both accepted. Zero
// matches returns nil, exactly one match returns it, and more than one
// is a data-consistency error, never silently resolved to the first.
func findByNameOrID[R any](records []R, nameOrID string, identity func(R) (id, name string)) (*R, error) {
	if nameOrID == "" {
		return nil, errors.New("name or id required")
	}
	var matches []R
	for _, r := range records {
		id, name := identity(r)
		if id == nameOrID || name == nameOrID {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	}
	return nil, fmt.Errorf("%d resources match %q: %w", len(matches), nameOrID, ErrMultipleMatches)
}
