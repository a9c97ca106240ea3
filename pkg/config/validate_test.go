package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() OrgConfig {
	return OrgConfig{
		AppName: "acme",
		OrganizationalUnits: map[string]*OUNode{
			"workloads": {Children: map[string]*OUNode{"dev": nil}},
		},
		Accounts: []AccountSpec{
			{Name: "dev-main", Email: "dev@acme.test", Parent: "dev"},
		},
		Policies: []PolicySpec{
			{Name: "deny-regions", Kind: PolicyKindServiceControl, Target: "root", Document: map[string]any{"Version": "2012-10-17"}},
			{Name: "limited-permissions", Kind: PolicyKindIam, Environment: EnvironmentDev, Document: map[string]any{"Statement": []any{}}},
		},
		Roles: map[Environment][]RoleSpec{
			EnvironmentDev: {{Name: "dev-limited-role"}},
		},
		Users: []UserSpec{
			{Username: "u1", Environment: EnvironmentDev},
		},
	}
}

func Test_Validate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*OrgConfig)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(cfg *OrgConfig) {},
		},
		{
			name:    "missing app name",
			mutate:  func(cfg *OrgConfig) { cfg.AppName = "" },
			wantErr: "app name is required",
		},
		{
			name:    "account without email",
			mutate:  func(cfg *OrgConfig) { cfg.Accounts[0].Email = "" },
			wantErr: "email is required",
		},
		{
			name:    "account parent not declared",
			mutate:  func(cfg *OrgConfig) { cfg.Accounts[0].Parent = "ghost" },
			wantErr: `parent "ghost" is not a declared organizational unit`,
		},
		{
			name: "duplicate account email",
			mutate: func(cfg *OrgConfig) {
				cfg.Accounts = append(cfg.Accounts, AccountSpec{Name: "dev-spare", Email: "dev@acme.test", Parent: "dev"})
			},
			wantErr: `share email "dev@acme.test"`,
		},
		{
			name:    "iam policy with a target",
			mutate:  func(cfg *OrgConfig) { cfg.Policies[1].Target = "workloads" },
			wantErr: "target is not allowed for iam policies",
		},
		{
			name:    "service control policy without a target",
			mutate:  func(cfg *OrgConfig) { cfg.Policies[0].Target = "" },
			wantErr: "target is required for service_control policies",
		},
		{
			name:    "unsupported policy kind",
			mutate:  func(cfg *OrgConfig) { cfg.Policies[0].Kind = "backup" },
			wantErr: `unsupported kind "backup"`,
		},
		{
			name:    "policy without a document",
			mutate:  func(cfg *OrgConfig) { cfg.Policies[0].Document = nil },
			wantErr: "document is required",
		},
		{
			name: "unknown roles table environment",
			mutate: func(cfg *OrgConfig) {
				cfg.Roles["laboratory"] = []RoleSpec{{Name: "lab-role"}}
			},
			wantErr: `unknown environment "laboratory"`,
		},
		{
			name: "unknown group environment",
			mutate: func(cfg *OrgConfig) {
				cfg.Groups = []GroupSpec{{Name: "developers", Environment: "laboratory"}}
			},
			wantErr: `unknown environment "laboratory"`,
		},
		{
			name: "duplicate user",
			mutate: func(cfg *OrgConfig) {
				cfg.Users = append(cfg.Users, UserSpec{Username: "u1"})
			},
			wantErr: `duplicate user "u1"`,
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(err)
				return
			}
			if assert.Error(err) {
				assert.ErrorContains(err, tt.wantErr)
			}
		})
	}
}
