package reconcile

import (
	"context"
	"fmt"

	"github.com/cloudsync-io/identity-sync/internal/backend"
)

// ProjectSpec is the desired state of an identity project. Nil
// attributes are unmanaged: never compared, never overwritten.
type ProjectSpec struct {
	Name        string
	Description *string
	Enabled     *bool
}

type projectReconciler struct {
	client   backend.Projects
	spec     ProjectSpec
	observed *backend.Project
}

func NewProject(client backend.Projects, spec ProjectSpec) Reconciler {
	return &projectReconciler{client: client, spec: spec}
}

func (p *projectReconciler) Kind() string { return "project" }
func (p *projectReconciler) Name() string { return p.spec.Name }

func (p *projectReconciler) Lookup(ctx context.Context) (*Ref, error) {
	projects, err := p.client.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	match, err := findByNameOrID(projects, p.spec.Name, func(pr backend.Project) (string, string) {
		return pr.ID, pr.Name
	})
	if err != nil || match == nil {
		return nil, err
	}
	p.observed = match
	return &Ref{ID: match.ID, Name: match.Name}, nil
}

func (p *projectReconciler) Diverges() bool {
	if p.spec.Description != nil && *p.spec.Description != p.observed.Description {
		return true
	}
	if p.spec.Enabled != nil && *p.spec.Enabled != p.observed.Enabled {
		return true
	}
	return false
}

func (p *projectReconciler) Create(ctx context.Context) (*Ref, error) {
	created, err := p.client.CreateProject(ctx, backend.Project{
		Name:        p.spec.Name,
		Description: strOr(p.spec.Description, ""),
		Enabled:     boolOr(p.spec.Enabled, true),
	})
	if err != nil {
		return nil, err
	}
	return &Ref{ID: created.ID, Name: created.Name}, nil
}

func (p *projectReconciler) Update(ctx context.Context) (*Ref, error) {
	next := *p.observed
	if p.spec.Description != nil {
		next.Description = *p.spec.Description
	}
	if p.spec.Enabled != nil {
		next.Enabled = *p.spec.Enabled
	}
	updated, err := p.client.UpdateProject(ctx, p.observed.ID, next)
	if err != nil {
		return nil, err
	}
	return &Ref{ID: updated.ID, Name: updated.Name}, nil
}

func (p *projectReconciler) Delete(ctx context.Context) error {
	return p.client.DeleteProject(ctx, p.observed.ID)
}
