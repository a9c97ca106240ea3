package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleYaml = `app: acme
organization:
  feature_set: ALL
organizational_units:
  workloads:
    children:
      dev: {}
accounts:
  - name: dev-main
    email: dev@acme.test
    parent: dev
roles:
  dev:
    - name: dev-limited-role
      policy_arns:
        - arn:aws:iam::aws:policy/ReadOnlyAccess
  all:
    - name: break-glass-role
users:
  - username: u1
    assume_roles:
      - dev-limited-role
`

func writeConfig(t *testing.T, name string, content string) string {
	t.Helper()
	fpath := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fpath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return fpath
}

func Test_ReadConfig(t *testing.T) {
	assert := assert.New(t)
	cfg, err := ReadConfig(writeConfig(t, "orgforge.yaml", sampleYaml))
	if !assert.NoError(err) {
		return
	}

	assert.Equal("acme", cfg.AppName)
	assert.Equal("orgforge", cfg.ManagedBy)
	assert.Equal("yaml", cfg.Format)
	assert.Equal("ALL", cfg.Organization.FeatureSet)
	assert.Contains(cfg.OrganizationalUnits, "workloads")

	if assert.Len(cfg.Roles[EnvironmentDev], 1) {
		// the roles table key becomes the record's environment
		assert.Equal(EnvironmentDev, cfg.Roles[EnvironmentDev][0].Environment)
	}
	if assert.Len(cfg.Roles[EnvironmentAll], 1) {
		assert.Equal(EnvironmentAll, cfg.Roles[EnvironmentAll][0].Environment)
	}
}

func Test_ReadConfigJson(t *testing.T) {
	assert := assert.New(t)
	cfg, err := ReadConfig(writeConfig(t, "orgforge.json", `{"app": "acme", "managed_by": "platform"}`))
	if !assert.NoError(err) {
		return
	}
	assert.Equal("acme", cfg.AppName)
	assert.Equal("platform", cfg.ManagedBy)
	assert.Equal("json", cfg.Format)
}

func Test_ReadConfigMissingFile(t *testing.T) {
	assert := assert.New(t)
	_, err := ReadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(err)
}

func Test_ApplyOverrides(t *testing.T) {
	assert := assert.New(t)
	cfg := OrgConfig{AppName: "acme", ManagedBy: "orgforge"}

	err := cfg.ApplyOverrides(map[string]string{
		"app":        "renamed",
		"managed_by": "platform-team",
	})
	if !assert.NoError(err) {
		return
	}
	assert.Equal("renamed", cfg.AppName)
	assert.Equal("platform-team", cfg.ManagedBy)
}

func Test_RoleTable(t *testing.T) {
	assert := assert.New(t)
	cfg := OrgConfig{
		Roles: map[Environment][]RoleSpec{
			EnvironmentAll:  {{Name: "break-glass-role"}},
			EnvironmentDev:  {{Name: "dev-limited-role"}},
			EnvironmentProd: {{Name: "prod-admin-role"}},
		},
	}

	var names []string
	for _, r := range cfg.RoleTable() {
		names = append(names, r.Name)
	}
	// stack environments in declaration order, then the shared records
	assert.Equal([]string{"prod-admin-role", "dev-limited-role", "break-glass-role"}, names)
}

func Test_RoleTableStampsEnvironment(t *testing.T) {
	assert := assert.New(t)
	// a config built in code, without ReadConfig's defaulting pass
	cfg := OrgConfig{
		Roles: map[Environment][]RoleSpec{
			EnvironmentAll: {{Name: "break-glass-role"}},
			EnvironmentDev: {{Name: "dev-limited-role"}},
		},
	}

	byName := make(map[string]Environment)
	for _, r := range cfg.RoleTable() {
		byName[r.Name] = r.Environment
	}
	assert.Equal(EnvironmentDev, byName["dev-limited-role"])
	assert.Equal(EnvironmentAll, byName["break-glass-role"])
}

func Test_OUNames(t *testing.T) {
	assert := assert.New(t)
	cfg := OrgConfig{
		OrganizationalUnits: map[string]*OUNode{
			"workloads": {Children: map[string]*OUNode{
				"dev": {Children: map[string]*OUNode{"sandbox1": nil}},
			}},
			"security": nil,
		},
	}

	names := cfg.OUNames()
	for _, want := range []string{"workloads", "dev", "sandbox1", "security"} {
		assert.Contains(names, want)
	}
	assert.Len(names, 4)
}

func Test_EnvironmentMatches(t *testing.T) {
	cases := []struct {
		name     string
		env      Environment
		stackEnv Environment
		want     bool
	}{
		{name: "exact", env: EnvironmentDev, stackEnv: EnvironmentDev, want: true},
		{name: "all matches everything", env: EnvironmentAll, stackEnv: EnvironmentQa, want: true},
		{name: "other environment", env: EnvironmentProd, stackEnv: EnvironmentDev, want: false},
		{name: "empty never matches", env: "", stackEnv: EnvironmentDev, want: false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tt.want, tt.env.Matches(tt.stackEnv))
		})
	}
}
