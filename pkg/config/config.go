package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type (
	// OrgConfig is the full set of hand-authored configuration tables. It is
	// loaded once per invocation and never mutated afterwards.
	OrgConfig struct {
		AppName   string `json:"app" yaml:"app" toml:"app"`
		ManagedBy string `json:"managed_by" yaml:"managed_by" toml:"managed_by"`

		// Format is what format the file was originally in, so emitted
		// artifacts can advertise their source format.
		Format string `json:"-" yaml:"-" toml:"-"`

		OutDir string `json:"out_dir" yaml:"out_dir" toml:"out_dir"`

		Organization        OrganizationArgs          `json:"organization" yaml:"organization" toml:"organization"`
		OrganizationalUnits map[string]*OUNode        `json:"organizational_units" yaml:"organizational_units" toml:"organizational_units"`
		Accounts            []AccountSpec             `json:"accounts,omitempty" yaml:"accounts,omitempty" toml:"accounts,omitempty"`
		Policies            []PolicySpec              `json:"policies,omitempty" yaml:"policies,omitempty" toml:"policies,omitempty"`
		Roles               map[Environment][]RoleSpec `json:"roles,omitempty" yaml:"roles,omitempty" toml:"roles,omitempty"`
		Groups              []GroupSpec               `json:"groups,omitempty" yaml:"groups,omitempty" toml:"groups,omitempty"`
		Users               []UserSpec                `json:"users,omitempty" yaml:"users,omitempty" toml:"users,omitempty"`
	}

	OrganizationArgs struct {
		FeatureSet         string   `json:"feature_set" yaml:"feature_set" toml:"feature_set"`
		EnabledPolicyTypes []string `json:"enabled_policy_types,omitempty" yaml:"enabled_policy_types,omitempty" toml:"enabled_policy_types,omitempty"`
		ServicePrincipals  []string `json:"service_principals,omitempty" yaml:"service_principals,omitempty" toml:"service_principals,omitempty"`
	}

	// OUNode is one node of the organizational unit tree. The map key at
	// each level is the OU name; single parenthood and acyclicity follow
	// from the tree shape.
	OUNode struct {
		Children map[string]*OUNode `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
	}

	AccountSpec struct {
		Name          string `json:"name" yaml:"name" toml:"name"`
		Email         string `json:"email" yaml:"email" toml:"email"`
		Parent        string `json:"parent" yaml:"parent" toml:"parent"`
		RoleName      string `json:"role_name,omitempty" yaml:"role_name,omitempty" toml:"role_name,omitempty"`
		BillingAccess bool   `json:"billing_access,omitempty" yaml:"billing_access,omitempty" toml:"billing_access,omitempty"`
	}

	PolicyKind string

	PolicySpec struct {
		Name        string         `json:"name" yaml:"name" toml:"name"`
		Kind        PolicyKind     `json:"kind" yaml:"kind" toml:"kind"`
		Document    map[string]any `json:"document" yaml:"document" toml:"document"`
		Target      string         `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
		Environment Environment    `json:"environment,omitempty" yaml:"environment,omitempty" toml:"environment,omitempty"`
	}

	RoleSpec struct {
		Name        string   `json:"name" yaml:"name" toml:"name"`
		Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
		PolicyArns  []string `json:"policy_arns,omitempty" yaml:"policy_arns,omitempty" toml:"policy_arns,omitempty"`

		// Environment is derived from the roles table key at load time.
		Environment Environment `json:"-" yaml:"-" toml:"-"`
	}

	GroupSpec struct {
		Name              string      `json:"name" yaml:"name" toml:"name"`
		Environment       Environment `json:"environment,omitempty" yaml:"environment,omitempty" toml:"environment,omitempty"`
		ManagedPolicyArns []string    `json:"managed_policy_arns,omitempty" yaml:"managed_policy_arns,omitempty" toml:"managed_policy_arns,omitempty"`
	}

	UserSpec struct {
		Username        string            `json:"username" yaml:"username" toml:"username"`
		Email           string            `json:"email" yaml:"email" toml:"email"`
		Groups          []string          `json:"groups,omitempty" yaml:"groups,omitempty" toml:"groups,omitempty"`
		ManagedPolicies []string          `json:"managed_policies,omitempty" yaml:"managed_policies,omitempty" toml:"managed_policies,omitempty"`
		AssumeRoles     []string          `json:"assume_roles,omitempty" yaml:"assume_roles,omitempty" toml:"assume_roles,omitempty"`
		Environment     Environment       `json:"environment,omitempty" yaml:"environment,omitempty" toml:"environment,omitempty"`
		Tags            map[string]string `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	}
)

const (
	PolicyKindIam            PolicyKind = "iam"
	PolicyKindServiceControl PolicyKind = "service_control"
	PolicyKindTag            PolicyKind = "tag"
)

const defaultManagedBy = "orgforge"

func ReadConfig(fpath string) (OrgConfig, error) {
	var cfg OrgConfig

	f, err := os.Open(fpath)
	if err != nil {
		return cfg, err
	}
	defer f.Close() // nolint:errcheck

	switch filepath.Ext(fpath) {
	case ".json":
		err = json.NewDecoder(f).Decode(&cfg)
		cfg.Format = "json"

	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(&cfg)
		cfg.Format = "yaml"

	case ".toml":
		err = toml.NewDecoder(f).Decode(&cfg)
		cfg.Format = "toml"
	}
	if err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (cfg *OrgConfig) applyDefaults() {
	if cfg.ManagedBy == "" {
		cfg.ManagedBy = defaultManagedBy
	}
	for env, roles := range cfg.Roles {
		for i := range roles {
			roles[i].Environment = env
		}
	}
}

// ApplyOverrides merges `--set-option key=value` pairs over the loaded
// config. Keys address top-level scalar fields by their config name.
func (cfg *OrgConfig) ApplyOverrides(options map[string]string) error {
	if len(options) == 0 {
		return nil
	}
	raw := make(map[string]interface{}, len(options))
	for k, v := range options {
		raw[k] = v
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// RoleTable flattens the per-environment roles map into a single slice.
// Each entry's Environment is stamped from its map key here, so the table is
// well-formed for configs built in code as well as loaded ones.
func (cfg *OrgConfig) RoleTable() []RoleSpec {
	var table []RoleSpec
	for _, env := range append(StackEnvironments(), EnvironmentAll) {
		for _, role := range cfg.Roles[env] {
			role.Environment = env
			table = append(table, role)
		}
	}
	return table
}

// OUNames walks the OU tree and returns the set of declared OU names.
func (cfg *OrgConfig) OUNames() map[string]struct{} {
	names := make(map[string]struct{})
	var walk func(nodes map[string]*OUNode)
	walk = func(nodes map[string]*OUNode) {
		for name, node := range nodes {
			names[name] = struct{}{}
			if node != nil {
				walk(node.Children)
			}
		}
	}
	walk(cfg.OrganizationalUnits)
	return names
}
