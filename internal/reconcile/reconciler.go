package reconcile

import (
	"context"
	"fmt"
	"log/slog"
)

// Reconciler is the per-kind capability the converge state machine is
// parameterized by. A Reconciler is built for one resource instance and
// used for one converge; Lookup must run before Diverges, Update or
// Delete, and must not mutate the backend.
type Reconciler interface {
	Kind() string
	Name() string

	// Lookup resolves the observed state, returning its ref when the
	// resource exists and nil when it does not.
	Lookup(ctx context.Context) (*Ref, error)

	// Diverges compares every managed mutable attribute of the desired
	// state against the observed state found by Lookup. Unset desired
	// attributes are unmanaged and never compared.
	Diverges() bool

	Create(ctx context.Context) (*Ref, error)
	Update(ctx context.Context) (*Ref, error)
	Delete(ctx context.Context) error
}

// Converge runs the create/update/delete/no-op state machine for one
// resource instance. Lookup always precedes any mutating call and at
// most one mutating call is issued. With dryRun set no mutating call is
// ever issued; a backend failure during the read phase is then reported
// as a changed outcome with a diagnostic instead of an error, so check
// output stays actionable.
func Converge(ctx context.Context, r Reconciler, state State, dryRun bool) (Outcome, error) {
	observed, err := r.Lookup(ctx)
	if err != nil {
		if dryRun && !isPrecondition(err) {
			slog.Warn("backend failure during dry-run read, reporting assumed change",
				"kind", r.Kind(), "name", r.Name(), "error", err)
			return Outcome{Changed: true, Diagnostic: err.Error()}, nil
		}
		return Outcome{}, fmt.Errorf("lookup %s %q: %w", r.Kind(), r.Name(), err)
	}

	switch state {
	case StatePresent:
		if observed == nil {
			if dryRun {
				return Outcome{Changed: true, Action: ActionCreate}, nil
			}
			ref, err := r.Create(ctx)
			if err != nil {
				return Outcome{}, fmt.Errorf("create %s %q: %w", r.Kind(), r.Name(), err)
			}
			return Outcome{Changed: true, Action: ActionCreate, Resource: ref}, nil
		}
		if !r.Diverges() {
			return Outcome{Changed: false, Action: ActionNone, Resource: observed}, nil
		}
		if dryRun {
			return Outcome{Changed: true, Action: ActionUpdate, Resource: observed}, nil
		}
		ref, err := r.Update(ctx)
		if err != nil {
			return Outcome{}, fmt.Errorf("update %s %q: %w", r.Kind(), r.Name(), err)
		}
		return Outcome{Changed: true, Action: ActionUpdate, Resource: ref}, nil

	case StateAbsent:
		if observed == nil {
			return Outcome{Changed: false, Action: ActionNone}, nil
		}
		if dryRun {
			return Outcome{Changed: true, Action: ActionDelete}, nil
		}
		if err := r.Delete(ctx); err != nil {
			return Outcome{}, fmt.Errorf("delete %s %q: %w", r.Kind(), r.Name(), err)
		}
		return Outcome{Changed: true, Action: ActionDelete}, nil
	}
	return Outcome{}, fmt.Errorf("unknown lifecycle state %q", state)
}

func strOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
