package openstack

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloudsync-io/identity-sync/internal/backend"
)

// Keystone wire types. The API wraps every payload in a singular or
// plural envelope keyed by resource name.

type wireProject struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

type wireUser struct {
	ID               string `json:"id,omitempty"`
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	Enabled          bool   `json:"enabled"`
	DefaultProjectID string `json:"default_project_id,omitempty"`
	Password         string `json:"password,omitempty"`
}

type wireRole struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

func fromWireProject(w wireProject) backend.Project {
	return backend.Project{ID: w.ID, Name: w.Name, Description: w.Description, Enabled: w.Enabled}
}

func fromWireUser(w wireUser) backend.User {
	return backend.User{ID: w.ID, Name: w.Name, Email: w.Email, Enabled: w.Enabled, ProjectID: w.DefaultProjectID}
}

func (c *Client) ListProjects(ctx context.Context) ([]backend.Project, error) {
	var out struct {
		Projects []wireProject `json:"projects"`
	}
	url := c.identityURL + "/v3/projects"
	if err := c.do(ctx, http.MethodGet, url, nil, &out, "read", "project"); err != nil {
		return nil, err
	}
	projects := make([]backend.Project, 0, len(out.Projects))
	for _, w := range out.Projects {
		projects = append(projects, fromWireProject(w))
	}
	return projects, nil
}

func (c *Client) CreateProject(ctx context.Context, p backend.Project) (backend.Project, error) {
	body := map[string]wireProject{"project": {
		Name:        p.Name,
		Description: p.Description,
		Enabled:     p.Enabled,
	}}
	var out struct {
		Project wireProject `json:"project"`
	}
	url := c.identityURL + "/v3/projects"
	if err := c.do(ctx, http.MethodPost, url, body, &out, "create", "project"); err != nil {
		return backend.Project{}, err
	}
	return fromWireProject(out.Project), nil
}

func (c *Client) UpdateProject(ctx context.Context, id string, p backend.Project) (backend.Project, error) {
	body := map[string]wireProject{"project": {
		Name:        p.Name,
		Description: p.Description,
		Enabled:     p.Enabled,
	}}
	var out struct {
		Project wireProject `json:"project"`
	}
	url := fmt.Sprintf("%s/v3/projects/%s", c.identityURL, id)
	if err := c.do(ctx, http.MethodPatch, url, body, &out, "update", "project"); err != nil {
		return backend.Project{}, err
	}
	return fromWireProject(out.Project), nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/v3/projects/%s", c.identityURL, id)
	return c.do(ctx, http.MethodDelete, url, nil, nil, "delete", "project")
}

func (c *Client) ListUsers(ctx context.Context) ([]backend.User, error) {
	var out struct {
		Users []wireUser `json:"users"`
	}
	url := c.identityURL + "/v3/users"
	if err := c.do(ctx, http.MethodGet, url, nil, &out, "read", "user"); err != nil {
		return nil, err
	}
	users := make([]backend.User, 0, len(out.Users))
	for _, w := range out.Users {
		users = append(users, fromWireUser(w))
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, u backend.User, password string) (backend.User, error) {
	body := map[string]wireUser{"user": {
		Name:             u.Name,
		Email:            u.Email,
		Enabled:          u.Enabled,
		DefaultProjectID: u.ProjectID,
		Password:         password,
	}}
	var out struct {
		User wireUser `json:"user"`
	}
	url := c.identityURL + "/v3/users"
	if err := c.do(ctx, http.MethodPost, url, body, &out, "create", "user"); err != nil {
		return backend.User{}, err
	}
	return fromWireUser(out.User), nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, u backend.User) (backend.User, error) {
	body := map[string]wireUser{"user": {
		Name:    u.Name,
		Email:   u.Email,
		Enabled: u.Enabled,
	}}
	var out struct {
		User wireUser `json:"user"`
	}
	url := fmt.Sprintf("%s/v3/users/%s", c.identityURL, id)
	if err := c.do(ctx, http.MethodPatch, url, body, &out, "update", "user"); err != nil {
		return backend.User{}, err
	}
	return fromWireUser(out.User), nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/v3/users/%s", c.identityURL, id)
	return c.do(ctx, http.MethodDelete, url, nil, nil, "delete", "user")
}

func (c *Client) ListRoles(ctx context.Context) ([]backend.Role, error) {
	var out struct {
		Roles []wireRole `json:"roles"`
	}
	url := c.identityURL + "/v3/roles"
	if err := c.do(ctx, http.MethodGet, url, nil, &out, "read", "role"); err != nil {
		return nil, err
	}
	roles := make([]backend.Role, 0, len(out.Roles))
	for _, w := range out.Roles {
		roles = append(roles, backend.Role{ID: w.ID, Name: w.Name})
	}
	return roles, nil
}

// EnsureRole creates the role only when no role of that name exists.
func (c *Client) EnsureRole(ctx context.Context, name string) (backend.Role, error) {
	roles, err := c.ListRoles(ctx)
	if err != nil {
		return backend.Role{}, err
	}
	for _, r := range roles {
		if r.Name == name {
			return r, nil
		}
	}

	body := map[string]wireRole{"role": {Name: name}}
	var out struct {
		Role wireRole `json:"role"`
	}
	url := c.identityURL + "/v3/roles"
	if err := c.do(ctx, http.MethodPost, url, body, &out, "create", "role"); err != nil {
		return backend.Role{}, err
	}
	return backend.Role{ID: out.Role.ID, Name: out.Role.Name}, nil
}

func (c *Client) ListAssignments(ctx context.Context, userID, projectID string) ([]backend.Role, error) {
	var out struct {
		Roles []wireRole `json:"roles"`
	}
	url := fmt.Sprintf("%s/v3/projects/%s/users/%s/roles", c.identityURL, projectID, userID)
	if err := c.do(ctx, http.MethodGet, url, nil, &out, "read", "role_assignment"); err != nil {
		return nil, err
	}
	roles := make([]backend.Role, 0, len(out.Roles))
	for _, w := range out.Roles {
		roles = append(roles, backend.Role{ID: w.ID, Name: w.Name})
	}
	return roles, nil
}

func (c *Client) Assign(ctx context.Context, userID, roleID, projectID string) error {
	url := fmt.Sprintf("%s/v3/projects/%s/users/%s/roles/%s", c.identityURL, projectID, userID, roleID)
	return c.do(ctx, http.MethodPut, url, nil, nil, "create", "role_assignment")
}

func (c *Client) Unassign(ctx context.Context, userID, roleID, projectID string) error {
	url := fmt.Sprintf("%s/v3/projects/%s/users/%s/roles/%s", c.identityURL, projectID, userID, roleID)
	return c.do(ctx, http.MethodDelete, url, nil, nil, "delete", "role_assignment")
}
