// Package backend defines the client boundary to the remote
// identity/networking service. The reconciliation engine only ever talks
// to these interfaces; concrete clients live in subpackages.
package backend

import "context"

type Project struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
}

type User struct {
	ID        string
	Name      string
	Email     string
	Enabled   bool
	ProjectID string
}

type Role struct {
	ID   string
	Name string
}

type Router struct {
	ID           string
	Name         string
	AdminStateUp bool
}

type Projects interface {
	ListProjects(ctx context.Context) ([]Project, error)
	CreateProject(ctx context.Context, p Project) (Project, error)
	UpdateProject(ctx context.Context, id string, p Project) (Project, error)
	DeleteProject(ctx context.Context, id string) error
}

type Users interface {
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, u User, password string) (User, error)
	UpdateUser(ctx context.Context, id string, u User) (User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Roles covers role catalog and per-project role assignment.
// EnsureRole is create-if-missing and must be idempotent.
type Roles interface {
	ListRoles(ctx context.Context) ([]Role, error)
	EnsureRole(ctx context.Context, name string) (Role, error)
	ListAssignments(ctx context.Context, userID, projectID string) ([]Role, error)
	Assign(ctx context.Context, userID, roleID, projectID string) error
	Unassign(ctx context.Context, userID, roleID, projectID string) error
}

type Routers interface {
	ListRouters(ctx context.Context) ([]Router, error)
	CreateRouter(ctx context.Context, r Router) (Router, error)
	UpdateRouter(ctx context.Context, id string, r Router) (Router, error)
	DeleteRouter(ctx context.Context, id string) error
}

// Client bundles every kind the engine can reconcile. It is passed
// explicitly to reconcilers so tests can substitute doubles.
type Client interface {
	Projects
	Users
	Roles
	Routers
}
