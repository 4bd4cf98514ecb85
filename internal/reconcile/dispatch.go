package reconcile

import (
	"fmt"

	"github.com/cloudsync-io/identity-sync/internal/backend"
)

// Request carries the identifying fields and desired attributes of one
// identity resource. Which fields are non-empty decides the kind.
type Request struct {
	Project string
	User    string
	Role    string

	Description *string
	Enabled     *bool
	Password    string
	Email       *string
}

// Dispatch routes a request to exactly one reconciler by the set of
// non-empty identifying fields, first match wins:
//
//	project  user  role
//	-------  ----  ----
//	   X                  project
//	   X      X           user
//	   X      X     X     role assignment
//
// Any other combination fails before any backend call is made.
func Dispatch(client backend.Client, req Request) (Reconciler, error) {
	switch {
	case req.Project != "" && req.User == "" && req.Role == "":
		return NewProject(client, ProjectSpec{
			Name:        req.Project,
			Description: req.Description,
			Enabled:     req.Enabled,
		}), nil

	case req.Project != "" && req.User != "" && req.Role == "":
		return NewUser(client, client, UserSpec{
			Name:     req.User,
			Password: req.Password,
			Email:    req.Email,
			Enabled:  req.Enabled,
			Project:  req.Project,
		}), nil

	case req.Project != "" && req.User != "" && req.Role != "":
		return NewRoleAssignment(client, client, client, RoleAssignmentSpec{
			Role:    req.Role,
			User:    req.User,
			Project: req.Project,
		}), nil
	}

	return nil, fmt.Errorf("project=%q user=%q role=%q: %w",
		req.Project, req.User, req.Role, ErrInvalidCombination)
}
