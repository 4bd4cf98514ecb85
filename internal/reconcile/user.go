package reconcile

import (
	"context"
	"fmt"

	"github.com/cloudsync-io/identity-sync/internal/backend"
)

// UserSpec is the desired state of an identity user. Project names the
// default project the user is created under; it is resolved at create
// time and never created implicitly. Password is only used at creation,
// the backend does not report it back for comparison.
type UserSpec struct {
	Name     string
	Password string
	Email    *string
	Enabled  *bool
	Project  string
}

type userReconciler struct {
	projects backend.Projects
	client   backend.Users
	spec     UserSpec
	observed *backend.User
}

func NewUser(client backend.Users, projects backend.Projects, spec UserSpec) Reconciler {
	return &userReconciler{client: client, projects: projects, spec: spec}
}

func (u *userReconciler) Kind() string { return "user" }
func (u *userReconciler) Name() string { return u.spec.Name }

func (u *userReconciler) Lookup(ctx context.Context) (*Ref, error) {
	users, err := u.client.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	match, err := findByNameOrID(users, u.spec.Name, func(us backend.User) (string, string) {
		return us.ID, us.Name
	})
	if err != nil || match == nil {
		return nil, err
	}
	u.observed = match
	return &Ref{ID: match.ID, Name: match.Name}, nil
}

func (u *userReconciler) Diverges() bool {
	if u.spec.Email != nil && *u.spec.Email != u.observed.Email {
		return true
	}
	if u.spec.Enabled != nil && *u.spec.Enabled != u.observed.Enabled {
		return true
	}
	return false
}

func (u *userReconciler) Create(ctx context.Context) (*Ref, error) {
	var projectID string
	if u.spec.Project != "" {
		projects, err := u.projects.ListProjects(ctx)
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		project, err := findByNameOrID(projects, u.spec.Project, func(p backend.Project) (string, string) {
			return p.ID, p.Name
		})
		if err != nil {
			return nil, err
		}
		if project == nil {
			return nil, fmt.Errorf("project %q: %w", u.spec.Project, ErrDependencyNotFound)
		}
		projectID = project.ID
	}

	created, err := u.client.CreateUser(ctx, backend.User{
		Name:      u.spec.Name,
		Email:     strOr(u.spec.Email, ""),
		Enabled:   boolOr(u.spec.Enabled, true),
		ProjectID: projectID,
	}, u.spec.Password)
	if err != nil {
		return nil, err
	}
	return &Ref{ID: created.ID, Name: created.Name}, nil
}

func (u *userReconciler) Update(ctx context.Context) (*Ref, error) {
	next := *u.observed
	if u.spec.Email != nil {
		next.Email = *u.spec.Email
	}
	if u.spec.Enabled != nil {
		next.Enabled = *u.spec.Enabled
	}
	updated, err := u.client.UpdateUser(ctx, u.observed.ID, next)
	if err != nil {
		return nil, err
	}
	return &Ref{ID: updated.ID, Name: updated.Name}, nil
}

func (u *userReconciler) Delete(ctx context.Context) error {
	return u.client.DeleteUser(ctx, u.observed.ID)
}
