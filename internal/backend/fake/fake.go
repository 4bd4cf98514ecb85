// Package fake is an in-memory backend.Client. It backs the engine tests
// and can be selected with backend kind "fake" for local development.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/cloudsync-io/identity-sync/internal/backend"
)

var _ backend.Client = (*Backend)(nil)

type Backend struct {
	mu          sync.Mutex
	projects    map[string]backend.Project
	users       map[string]backend.User
	roles       map[string]backend.Role
	routers     map[string]backend.Router
	assignments map[string][]string // "userID/projectID" -> role IDs

	// Err, when set, is returned from every call. Lets tests simulate
	// an unreachable backend.
	Err error
}

func New() *Backend {
	return &Backend{
		projects:    make(map[string]backend.Project),
		users:       make(map[string]backend.User),
		roles:       make(map[string]backend.Role),
		routers:     make(map[string]backend.Router),
		assignments: make(map[string][]string),
	}
}

func assignmentKey(userID, projectID string) string {
	return userID + "/" + projectID
}

func (b *Backend) ListProjects(ctx context.Context) ([]backend.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return nil, b.Err
	}
	out := make([]backend.Project, 0, len(b.projects))
	for _, p := range b.projects {
		out = append(out, p)
	}
	return out, nil
}

func (b *Backend) CreateProject(ctx context.Context, p backend.Project) (backend.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return backend.Project{}, b.Err
	}
	p.ID = uuid.NewString()
	b.projects[p.ID] = p
	return p, nil
}

func (b *Backend) UpdateProject(ctx context.Context, id string, p backend.Project) (backend.Project, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return backend.Project{}, b.Err
	}
	existing, ok := b.projects[id]
	if !ok {
		return backend.Project{}, fmt.Errorf("project %s does not exist", id)
	}
	existing.Description = p.Description
	existing.Enabled = p.Enabled
	b.projects[id] = existing
	return existing, nil
}

func (b *Backend) DeleteProject(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	if _, ok := b.projects[id]; !ok {
		return fmt.Errorf("project %s does not exist", id)
	}
	delete(b.projects, id)
	return nil
}

func (b *Backend) ListUsers(ctx context.Context) ([]backend.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return nil, b.Err
	}
	out := make([]backend.User, 0, len(b.users))
	for _, u := range b.users {
		out = append(out, u)
	}
	return out, nil
}

func (b *Backend) CreateUser(ctx context.Context, u backend.User, password string) (backend.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return backend.User{}, b.Err
	}
	u.ID = uuid.NewString()
	b.users[u.ID] = u
	return u, nil
}

func (b *Backend) UpdateUser(ctx context.Context, id string, u backend.User) (backend.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return backend.User{}, b.Err
	}
	existing, ok := b.users[id]
	if !ok {
		return backend.User{}, fmt.Errorf("user %s does not exist", id)
	}
	existing.Email = u.Email
	existing.Enabled = u.Enabled
	b.users[id] = existing
	return existing, nil
}

func (b *Backend) DeleteUser(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	if _, ok := b.users[id]; !ok {
		return fmt.Errorf("user %s does not exist", id)
	}
	delete(b.users, id)
	return nil
}

func (b *Backend) ListRoles(ctx context.Context) ([]backend.Role, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return nil, b.Err
	}
	out := make([]backend.Role, 0, len(b.roles))
	for _, r := range b.roles {
		out = append(out, r)
	}
	return out, nil
}

func (b *Backend) EnsureRole(ctx context.Context, name string) (backend.Role, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return backend.Role{}, b.Err
	}
	for _, r := range b.roles {
		if r.Name == name {
			return r, nil
		}
	}
	role := backend.Role{ID: uuid.NewString(), Name: name}
	b.roles[role.ID] = role
	return role, nil
}

func (b *Backend) ListAssignments(ctx context.Context, userID, projectID string) ([]backend.Role, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return nil, b.Err
	}
	var out []backend.Role
	for _, roleID := range b.assignments[assignmentKey(userID, projectID)] {
		if r, ok := b.roles[roleID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (b *Backend) Assign(ctx context.Context, userID, roleID, projectID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	key := assignmentKey(userID, projectID)
	for _, id := range b.assignments[key] {
		if id == roleID {
			return nil
		}
	}
	b.assignments[key] = append(b.assignments[key], roleID)
	return nil
}

func (b *Backend) Unassign(ctx context.Context, userID, roleID, projectID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	key := assignmentKey(userID, projectID)
	kept := b.assignments[key][:0]
	for _, id := range b.assignments[key] {
		if id != roleID {
			kept = append(kept, id)
		}
	}
	b.assignments[key] = kept
	return nil
}

func (b *Backend) ListRouters(ctx context.Context) ([]backend.Router, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return nil, b.Err
	}
	out := make([]backend.Router, 0, len(b.routers))
	for _, r := range b.routers {
		out = append(out, r)
	}
	return out, nil
}

func (b *Backend) CreateRouter(ctx context.Context, r backend.Router) (backend.Router, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return backend.Router{}, b.Err
	}
	r.ID = uuid.NewString()
	b.routers[r.ID] = r
	return r, nil
}

func (b *Backend) UpdateRouter(ctx context.Context, id string, r backend.Router) (backend.Router, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return backend.Router{}, b.Err
	}
	existing, ok := b.routers[id]
	if !ok {
		return backend.Router{}, fmt.Errorf("router %s does not exist", id)
	}
	existing.AdminStateUp = r.AdminStateUp
	b.routers[id] = existing
	return existing, nil
}

func (b *Backend) DeleteRouter(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	if _, ok := b.routers[id]; !ok {
		return fmt.Errorf("router %s does not exist", id)
	}
	delete(b.routers, id)
	return nil
}

// SeedProject inserts a project with a fixed id, for tests that need
// pre-existing state (including duplicate names).
func (b *Backend) SeedProject(p backend.Project) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.projects[p.ID] = p
}

func (b *Backend) SeedUser(u backend.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[u.ID] = u
}

func (b *Backend) SeedRole(r backend.Role) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.roles[r.ID] = r
}

func (b *Backend) SeedRouter(r backend.Router) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routers[r.ID] = r
}
