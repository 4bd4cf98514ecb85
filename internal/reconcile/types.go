package reconcile

import "fmt"

// State is the caller's target existence for a resource.
type State string

const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
)

func ParseState(s string) (State, error) {
	switch s {
	case "", string(StatePresent):
		return StatePresent, nil
	case string(StateAbsent):
		return StateAbsent, nil
	}
	return "", fmt.Errorf("unknown lifecycle state %q", s)
}

// Action is the single mutation (or lack of one) a converge decided on.
type Action string

const (
	ActionNone   Action = "noop"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Ref identifies a backend resource after a converge.
type Ref struct {
	ID   string
	Name string
}

// Outcome is the result contract every converge returns.
// Changed=false implies the backend was not mutated. Resource is nil
// after a delete, after a dry-run create (no id is knowable before
// creation) and when the resource is absent. Diagnostic carries the
// best-effort explanation when a dry run hit a backend failure during
// its read phase.
type Outcome struct {
	Changed    bool
	Action     Action
	Resource   *Ref
	Diagnostic string
}

// Results aggregates the per-resource outcomes of one sync pass.
type Results struct {
	Outcomes []ResourceOutcome
	Failures []Failure
}

type ResourceOutcome struct {
	Kind    string
	Name    string
	Outcome Outcome
}

type Failure struct {
	Kind  string
	Name  string
	Error string
}

func (r Results) Changed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Outcome.Changed {
			n++
		}
	}
	return n
}
