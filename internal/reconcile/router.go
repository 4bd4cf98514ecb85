package reconcile

import (
	"context"
	"fmt"

	"github.com/cloudsync-io/identity-sync/internal/backend"
)

// RouterSpec is the desired state of a network router.
type RouterSpec struct {
	Name         string
	AdminStateUp *bool
}

type routerReconciler struct {
	client   backend.Routers
	spec     RouterSpec
	observed *backend.Router
}

func NewRouter(client backend.Routers, spec RouterSpec) Reconciler {
	return &routerReconciler{client: client, spec: spec}
}

func (r *routerReconciler) Kind() string { return "router" }
func (r *routerReconciler) Name() string { return r.spec.Name }

func (r *routerReconciler) Lookup(ctx context.Context) (*Ref, error) {
	routers, err := r.client.ListRouters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list routers: %w", err)
	}
	match, err := findByNameOrID(routers, r.spec.Name, func(rt backend.Router) (string, string) {
		return rt.ID, rt.Name
	})
	if err != nil || match == nil {
		return nil, err
	}
	r.observed = match
	return &Ref{ID: match.ID, Name: match.Name}, nil
}

func (r *routerReconciler) Diverges() bool {
	return r.spec.AdminStateUp != nil && *r.spec.AdminStateUp != r.observed.AdminStateUp
}

func (r *routerReconciler) Create(ctx context.Context) (*Ref, error) {
	created, err := r.client.CreateRouter(ctx, backend.Router{
		Name:         r.spec.Name,
		AdminStateUp: boolOr(r.spec.AdminStateUp, true),
	})
	if err != nil {
		return nil, err
	}
	return &Ref{ID: created.ID, Name: created.Name}, nil
}

func (r *routerReconciler) Update(ctx context.Context) (*Ref, error) {
	next := *r.observed
	if r.spec.AdminStateUp != nil {
		next.AdminStateUp = *r.spec.AdminStateUp
	}
	updated, err := r.client.UpdateRouter(ctx, r.observed.ID, next)
	if err != nil {
		return nil, err
	}
	return &Ref{ID: updated.ID, Name: updated.Name}, nil
}

func (r *routerReconciler) Delete(ctx context.Context) error {
	return r.client.DeleteRouter(ctx, r.observed.ID)
}
