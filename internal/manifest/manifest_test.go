package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `
resources:
  - project: demo
    description: "Default Tenant"
    enabled: true
  - project: demo
    user: john
    password: secrete
    email: john@example.com
  - project: demo
    user: john
    role: admin
  - router: router1
    adminStateUp: false
    state: absent
`)

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m.Resources, 4)

	project := m.Resources[0]
	assert.Equal(t, "demo", project.Project)
	require.NotNil(t, project.Description)
	assert.Equal(t, "Default Tenant", *project.Description)
	require.NotNil(t, project.Enabled)
	assert.True(t, *project.Enabled)
	assert.Empty(t, project.State)

	user := m.Resources[1]
	assert.Equal(t, "john", user.User)
	assert.Equal(t, "secrete", user.Password)
	assert.Nil(t, user.Enabled, "unset attributes stay nil")

	router := m.Resources[3]
	assert.Equal(t, "router1", router.Router)
	require.NotNil(t, router.AdminStateUp)
	assert.False(t, *router.AdminStateUp)
	assert.Equal(t, "absent", router.State)
}

func TestLoadRejectsUnknownState(t *testing.T) {
	path := writeManifest(t, `
resources:
  - project: demo
    state: deleted
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown state")
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, `
resources:
  - project: demo
    descriptoin: typo
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"project", Entry{Project: "demo"}, "demo"},
		{"user", Entry{Project: "demo", User: "john"}, "john"},
		{"role assignment", Entry{Project: "demo", User: "john", Role: "admin"}, "admin@john/demo"},
		{"router", Entry{Router: "router1"}, "router1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.DisplayName())
		})
	}
}
