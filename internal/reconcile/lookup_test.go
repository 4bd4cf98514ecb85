package reconcile

import (
	"errors"
	"testing"

	"github.com/cloudsync-io/identity-sync/internal/backend"
)

func TestFindByNameOrID(t *testing.T) {
	projects := []backend.Project{
		{ID: "p-1", Name: "demo"},
		{ID: "p-2", Name: "staging"},
		{ID: "p-3", Name: "dup"},
		{ID: "p-4", Name: "dup"},
	}
	identity := func(p backend.Project) (string, string) { return p.ID, p.Name }

	tests := []struct {
		name     string
		nameOrID string
		wantID   string
		wantNil  bool
		wantErr  error
	}{
		{name: "by name", nameOrID: "demo", wantID: "p-1"},
		{name: "by id", nameOrID: "p-2", wantID: "p-2"},
		{name: "absent", nameOrID: "missing", wantNil: true},
		{name: "ambiguous name", nameOrID: "dup", wantErr: ErrMultipleMatches},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := findByNameOrID(projects, tt.nameOrID, identity)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Fatalf("want nil, got %+v", got)
				}
				return
			}
			if got == nil || got.ID != tt.wantID {
				t.Fatalf("want id %q, got %+v", tt.wantID, got)
			}
		})
	}

	t.Run("empty identity", func(t *testing.T) {
		if _, err := findByNameOrID(projects, "", identity); err == nil {
			t.Fatal("empty name-or-id must be rejected")
		}
	})
}
