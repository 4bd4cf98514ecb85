// Package manifest loads the desired-state file: a YAML list of
// identity/networking resources to converge. Which identifying fields
// an entry carries decides the resource kind; that routing (and its
// validity) belongs to the reconcile dispatcher, the loader only checks
// YAML shape and lifecycle state values.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Manifest struct {
	Resources []Entry `yaml:"resources"`
}

type Entry struct {
	Project string `yaml:"project,omitempty"`
	User    string `yaml:"user,omitempty"`
	Role    string `yaml:"role,omitempty"`
	Router  string `yaml:"router,omitempty"`

	Description  *string `yaml:"description,omitempty"`
	Enabled      *bool   `yaml:"enabled,omitempty"`
	Password     string  `yaml:"password,omitempty"`
	Email        *string `yaml:"email,omitempty"`
	AdminStateUp *bool   `yaml:"adminStateUp,omitempty"`

	// State is "present" or "absent", defaulting to present.
	State string `yaml:"state,omitempty"`
}

// DisplayName is the human identity of the entry for logs and the journal.
func (e Entry) DisplayName() string {
	switch {
	case e.Router != "":
		return e.Router
	case e.Role != "":
		return fmt.Sprintf("%s@%s/%s", e.Role, e.User, e.Project)
	case e.User != "":
		return e.User
	default:
		return e.Project
	}
}

func Load(path string) (Manifest, error) {
	var m Manifest
	f, err := os.Open(path)
	if err != nil {
		return m, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return m, fmt.Errorf("parse manifest: %w", err)
	}

	for i, e := range m.Resources {
		switch e.State {
		case "", "present", "absent":
		default:
			return m, fmt.Errorf("resource %d (%s): unknown state %q", i, e.DisplayName(), e.State)
		}
	}
	return m, nil
}
