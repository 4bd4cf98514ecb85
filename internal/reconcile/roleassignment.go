package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudsync-io/identity-sync/internal/backend"
)

// RoleAssignmentSpec is the desired grant of a role to a user within a
// project. User and Project must already exist; they are resolved before
// membership is evaluated and never created as a side effect.
type RoleAssignmentSpec struct {
	Role    string
	User    string
	Project string
}

type roleAssignmentReconciler struct {
	roles    backend.Roles
	users    backend.Users
	projects backend.Projects
	spec     RoleAssignmentSpec

	user    *backend.User
	project *backend.Project
	granted *backend.Role
}

func NewRoleAssignment(roles backend.Roles, users backend.Users, projects backend.Projects, spec RoleAssignmentSpec) Reconciler {
	return &roleAssignmentReconciler{roles: roles, users: users, projects: projects, spec: spec}
}

func (a *roleAssignmentReconciler) Kind() string { return "role_assignment" }

func (a *roleAssignmentReconciler) Name() string {
	return fmt.Sprintf("%s@%s/%s", a.spec.Role, a.spec.User, a.spec.Project)
}

func (a *roleAssignmentReconciler) Lookup(ctx context.Context) (*Ref, error) {
	if err := a.resolveDependencies(ctx); err != nil {
		return nil, err
	}
	granted, err := a.roles.ListAssignments(ctx, a.user.ID, a.project.ID)
	if err != nil {
		return nil, fmt.Errorf("list role assignments: %w", err)
	}
	match, err := findByNameOrID(granted, a.spec.Role, func(r backend.Role) (string, string) {
		return r.ID, r.Name
	})
	if err != nil || match == nil {
		return nil, err
	}
	a.granted = match
	return &Ref{ID: match.ID, Name: match.Name}, nil
}

func (a *roleAssignmentReconciler) resolveDependencies(ctx context.Context) error {
	users, err := a.users.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	user, err := findByNameOrID(users, a.spec.User, func(u backend.User) (string, string) {
		return u.ID, u.Name
	})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %q: %w", a.spec.User, ErrDependencyNotFound)
	}

	projects, err := a.projects.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	project, err := findByNameOrID(projects, a.spec.Project, func(p backend.Project) (string, string) {
		return p.ID, p.Name
	})
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project %q: %w", a.spec.Project, ErrDependencyNotFound)
	}

	a.user = user
	a.project = project
	return nil
}

// Diverges is always false: a role assignment has no mutable attributes,
// it either exists or it does not.
func (a *roleAssignmentReconciler) Diverges() bool { return false }

func (a *roleAssignmentReconciler) Create(ctx context.Context) (*Ref, error) {
	role, err := a.roles.EnsureRole(ctx, a.spec.Role)
	if err != nil {
		return nil, fmt.Errorf("ensure role %q: %w", a.spec.Role, err)
	}
	if err := a.roles.Assign(ctx, a.user.ID, role.ID, a.project.ID); err != nil {
		return nil, fmt.Errorf("assign role %q: %w", a.spec.Role, err)
	}
	return &Ref{ID: role.ID, Name: role.Name}, nil
}

func (a *roleAssignmentReconciler) Update(ctx context.Context) (*Ref, error) {
	return nil, errors.New("role assignment has no mutable attributes")
}

func (a *roleAssignmentReconciler) Delete(ctx context.Context) error {
	return fmt.Errorf("revoke role %q: %w", a.spec.Role, ErrNotImplemented)
}
