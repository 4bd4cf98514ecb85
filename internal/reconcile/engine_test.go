package reconcile

import (
	"context"
	"testing"

	"github.com/cloudsync-io/identity-sync/internal/backend"
	"github.com/cloudsync-io/identity-sync/internal/backend/fake"
	"github.com/cloudsync-io/identity-sync/internal/config"
	"github.com/cloudsync-io/identity-sync/internal/journal"
	"github.com/cloudsync-io/identity-sync/internal/manifest"
	"github.com/cloudsync-io/identity-sync/internal/metrics"
)

type MockJournal struct {
	entries []journal.Entry
	err     error
}

func (m *MockJournal) Record(ctx context.Context, e journal.Entry) error {
	m.entries = append(m.entries, e)
	return m.err
}
func (m *MockJournal) Load(ctx context.Context) ([]journal.Entry, error) { return m.entries, m.err }
func (m *MockJournal) Close() error                                      { return nil }

func TestEngine(t *testing.T) {
	tests := []struct {
		name          string
		seed          func(be *fake.Backend)
		entries       []manifest.Entry
		dryRun        bool
		wantOutcomes  int
		wantChanged   int
		wantFailures  int
		wantJournaled int
	}{
		{
			name: "full stack bootstrap",
			entries: []manifest.Entry{
				{Project: "demo", Description: strPtr("Default Tenant"), Enabled: boolPtr(true)},
				{Project: "demo", User: "john", Password: "secrete", Email: strPtr("john@example.com")},
				{Project: "demo", User: "john", Role: "admin"},
				{Router: "router1", AdminStateUp: boolPtr(true)},
			},
			wantOutcomes:  4,
			wantChanged:   4,
			wantJournaled: 4,
		},
		{
			name: "converged stack is all noops",
			seed: func(be *fake.Backend) {
				be.SeedProject(backend.Project{ID: "p-1", Name: "demo", Description: "Default Tenant", Enabled: true})
				be.SeedUser(backend.User{ID: "u-1", Name: "john", Email: "john@example.com", Enabled: true, ProjectID: "p-1"})
				be.SeedRouter(backend.Router{ID: "r-1", Name: "router1", AdminStateUp: true})
			},
			entries: []manifest.Entry{
				{Project: "demo", Description: strPtr("Default Tenant"), Enabled: boolPtr(true)},
				{Project: "demo", User: "john", Email: strPtr("john@example.com")},
				{Router: "router1", AdminStateUp: boolPtr(true)},
			},
			wantOutcomes:  3,
			wantChanged:   0,
			wantJournaled: 3,
		},
		{
			name:   "dry run journals nothing",
			dryRun: true,
			entries: []manifest.Entry{
				{Project: "demo", Description: strPtr("Default Tenant")},
			},
			wantOutcomes:  1,
			wantChanged:   1,
			wantJournaled: 0,
		},
		{
			name: "invalid combination is reported not fatal",
			entries: []manifest.Entry{
				{User: "john"},
				{Project: "demo"},
			},
			wantOutcomes:  1,
			wantChanged:   1,
			wantFailures:  1,
			wantJournaled: 1,
		},
		{
			name: "router mixed with identity fields",
			entries: []manifest.Entry{
				{Router: "router1", Project: "demo"},
			},
			wantFailures: 1,
		},
		{
			name: "absent nonexistent project reports no change",
			entries: []manifest.Entry{
				{Project: "demo", State: "absent"},
			},
			wantOutcomes:  1,
			wantChanged:   0,
			wantJournaled: 1,
		},
		{
			name: "role revocation is an explicit failure",
			seed: func(be *fake.Backend) {
				be.SeedProject(backend.Project{ID: "p-1", Name: "demo"})
				be.SeedUser(backend.User{ID: "u-1", Name: "john"})
				be.SeedRole(backend.Role{ID: "role-1", Name: "admin"})
				if err := be.Assign(context.Background(), "u-1", "role-1", "p-1"); err != nil {
					panic(err)
				}
			},
			entries: []manifest.Entry{
				{Project: "demo", User: "john", Role: "admin", State: "absent"},
			},
			wantFailures: 1,
		},
		{
			name: "absent unassigned role is a noop",
			seed: func(be *fake.Backend) {
				be.SeedProject(backend.Project{ID: "p-1", Name: "demo"})
				be.SeedUser(backend.User{ID: "u-1", Name: "john"})
				be.SeedRole(backend.Role{ID: "role-1", Name: "admin"})
			},
			entries: []manifest.Entry{
				{Project: "demo", User: "john", Role: "admin", State: "absent"},
			},
			wantOutcomes:  1,
			wantChanged:   0,
			wantJournaled: 1,
		},
	}

	for _, tt := range tests {
		ctx := context.Background()
		t.Run(tt.name, func(t *testing.T) {
			be := fake.New()
			if tt.seed != nil {
				tt.seed(be)
			}
			jrnl := &MockJournal{}
			cfg := &config.Config{Reconcile: config.Reconcile{DryRun: tt.dryRun}}
			engine := NewEngine(be, jrnl, cfg, metrics.New(false))

			results, err := engine.Reconcile(ctx, tt.entries)
			if err != nil {
				t.Fatalf("reconcile: %v", err)
			}

			if len(results.Outcomes) != tt.wantOutcomes {
				t.Errorf("outcomes: got %d, want %d", len(results.Outcomes), tt.wantOutcomes)
			}
			if results.Changed() != tt.wantChanged {
				t.Errorf("changed: got %d, want %d", results.Changed(), tt.wantChanged)
			}
			if len(results.Failures) != tt.wantFailures {
				t.Errorf("failures: got %d (%+v), want %d", len(results.Failures), results.Failures, tt.wantFailures)
			}
			if len(jrnl.entries) != tt.wantJournaled {
				t.Errorf("journaled: got %d, want %d", len(jrnl.entries), tt.wantJournaled)
			}
		})
	}
}

func TestEngineIdempotence(t *testing.T) {
	ctx := context.Background()
	be := fake.New()
	jrnl := &MockJournal{}
	engine := NewEngine(be, jrnl, &config.Config{}, metrics.New(false))

	entries := []manifest.Entry{
		{Project: "demo", Description: strPtr("Default Tenant"), Enabled: boolPtr(true)},
		{Project: "demo", User: "john", Password: "secrete"},
		{Project: "demo", User: "john", Role: "admin"},
		{Router: "router1"},
	}

	first, err := engine.Reconcile(ctx, entries)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if first.Changed() != len(entries) || len(first.Failures) != 0 {
		t.Fatalf("first pass should change everything: %+v", first)
	}

	second, err := engine.Reconcile(ctx, entries)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if second.Changed() != 0 || len(second.Failures) != 0 {
		t.Fatalf("second pass should be all noops: %+v", second)
	}

	for i := range first.Outcomes {
		a, b := first.Outcomes[i], second.Outcomes[i]
		if a.Outcome.Resource == nil || b.Outcome.Resource == nil {
			continue
		}
		if a.Outcome.Resource.ID != b.Outcome.Resource.ID {
			t.Errorf("%s %s: resource id changed between passes: %q vs %q",
				a.Kind, a.Name, a.Outcome.Resource.ID, b.Outcome.Resource.ID)
		}
	}
}
