package fake

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudsync-io/identity-sync/internal/backend"
)

func TestProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	be := New()

	created, err := be.CreateProject(ctx, backend.Project{Name: "demo", Description: "Default Tenant", Enabled: true})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	updated, err := be.UpdateProject(ctx, created.ID, backend.Project{Description: "changed", Enabled: false})
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.Description)
	assert.False(t, updated.Enabled)
	assert.Equal(t, "demo", updated.Name, "update must not rename")

	require.NoError(t, be.DeleteProject(ctx, created.ID))
	projects, err := be.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)

	assert.Error(t, be.DeleteProject(ctx, created.ID))
}

func TestEnsureRoleIsIdempotent(t *testing.T) {
	ctx := context.Background()
	be := New()

	first, err := be.EnsureRole(ctx, "admin")
	require.NoError(t, err)
	second, err := be.EnsureRole(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	roles, err := be.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}

func TestAssignments(t *testing.T) {
	ctx := context.Background()
	be := New()
	be.SeedUser(backend.User{ID: "u-1", Name: "john"})
	be.SeedProject(backend.Project{ID: "p-1", Name: "demo"})
	be.SeedRole(backend.Role{ID: "role-1", Name: "admin"})

	require.NoError(t, be.Assign(ctx, "u-1", "role-1", "p-1"))
	// Double-assign stays a single grant
	require.NoError(t, be.Assign(ctx, "u-1", "role-1", "p-1"))

	granted, err := be.ListAssignments(ctx, "u-1", "p-1")
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "admin", granted[0].Name)

	other, err := be.ListAssignments(ctx, "u-1", "p-other")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, be.Unassign(ctx, "u-1", "role-1", "p-1"))
	granted, err = be.ListAssignments(ctx, "u-1", "p-1")
	require.NoError(t, err)
	assert.Empty(t, granted)
}

func TestInjectedError(t *testing.T) {
	ctx := context.Background()
	be := New()
	be.Err = assert.AnError

	_, err := be.ListProjects(ctx)
	assert.ErrorIs(t, err, assert.AnError)
	_, err = be.CreateRouter(ctx, backend.Router{Name: "router1"})
	assert.ErrorIs(t, err, assert.AnError)
}
