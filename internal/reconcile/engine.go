package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudsync-io/identity-sync/internal/backend"
	"github.com/cloudsync-io/identity-sync/internal/config"
	"github.com/cloudsync-io/identity-sync/internal/journal"
	"github.com/cloudsync-io/identity-sync/internal/manifest"
	"github.com/cloudsync-io/identity-sync/internal/metrics"
)

type Engine interface {
	Reconcile(ctx context.Context, entries []manifest.Entry) (Results, error)
}

type engine struct {
	client  backend.Client
	journal journal.Journal
	dryRun  bool
	metrics *metrics.Metrics
}

func NewEngine(client backend.Client, jrnl journal.Journal, cfg *config.Config, metrics *metrics.Metrics) *engine {
	return &engine{
		client:  client,
		journal: jrnl,
		dryRun:  cfg.Reconcile.DryRun,
		metrics: metrics,
	}
}

// Reconcile converges every manifest entry in order, one resource to
// completion before the next. A failing entry is reported and does not
// stop the pass.
func (e *engine) Reconcile(ctx context.Context, entries []manifest.Entry) (Results, error) {
	results := Results{}

	for _, entry := range entries {
		name := entry.DisplayName()

		rec, err := e.reconcilerFor(entry)
		if err != nil {
			slog.Error("Failed to route manifest entry", "name", name, "error", err)
			results.Failures = append(results.Failures, Failure{Name: name, Error: err.Error()})
			continue
		}

		state, err := ParseState(entry.State)
		if err != nil {
			results.Failures = append(results.Failures, Failure{Kind: rec.Kind(), Name: name, Error: err.Error()})
			continue
		}

		outcome, err := Converge(ctx, rec, state, e.dryRun)
		if err != nil {
			slog.Error("Converge failed", "kind", rec.Kind(), "name", name, "error", err)
			results.Failures = append(results.Failures, Failure{Kind: rec.Kind(), Name: name, Error: err.Error()})
			continue
		}

		slog.Info("Converged resource",
			"kind", rec.Kind(), "name", name,
			"changed", outcome.Changed, "action", string(outcome.Action), "dry_run", e.dryRun)
		e.metrics.IncResourceOperation(string(outcome.Action), rec.Kind())
		results.Outcomes = append(results.Outcomes, ResourceOutcome{Kind: rec.Kind(), Name: name, Outcome: outcome})

		// Journal only real passes, dry runs leave no trace
		if !e.dryRun {
			jentry := journal.Entry{
				Kind:     rec.Kind(),
				Name:     name,
				Action:   string(outcome.Action),
				Changed:  outcome.Changed,
				SyncedAt: time.Now().Unix(),
			}
			if outcome.Resource != nil {
				jentry.ResourceID = outcome.Resource.ID
			}
			if err := e.journal.Record(ctx, jentry); err != nil {
				slog.Warn("Failed to journal outcome", "kind", rec.Kind(), "name", name, "error", err)
			}
		}
	}
	return results, nil
}

// reconcilerFor picks the resource kind from the entry's identifying
// fields. Router entries stand alone; everything else goes through the
// identity dispatch table.
func (e *engine) reconcilerFor(entry manifest.Entry) (Reconciler, error) {
	if entry.Router != "" {
		if entry.Project != "" || entry.User != "" || entry.Role != "" {
			return nil, fmt.Errorf("router %q combined with identity fields: %w", entry.Router, ErrInvalidCombination)
		}
		return NewRouter(e.client, RouterSpec{
			Name:         entry.Router,
			AdminStateUp: entry.AdminStateUp,
		}), nil
	}
	return Dispatch(e.client, Request{
		Project:     entry.Project,
		User:        entry.User,
		Role:        entry.Role,
		Description: entry.Description,
		Enabled:     entry.Enabled,
		Password:    entry.Password,
		Email:       entry.Email,
	})
}
