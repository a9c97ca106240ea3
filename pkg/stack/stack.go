// Package stack models independently-applied units of declared
// infrastructure and the read-only output bundles they export to each other.
package stack

import (
	"fmt"

	"github.com/orgforge/orgforge/pkg/config"
)

const FoundationStackName = "foundation"

type (
	// Stack identifies one synthesis target: the foundation stack owning the
	// organization topology, or one environment stack owning that
	// environment's IAM surface.
	Stack struct {
		Name        string
		Environment config.Environment
	}

	// Entry is the minimal stable projection of a created resource. Values
	// are opaque to this code: unresolved reference tokens at synthesis
	// time, concrete identifiers once the engine has applied the stack.
	Entry struct {
		Id   string `yaml:"id" json:"id"`
		Arn  string `yaml:"arn" json:"arn"`
		Name string `yaml:"name" json:"name"`
	}

	// Outputs is a stack's exported state. Downstream stacks consume it
	// strictly pass-through; no field ever carries a secret.
	Outputs struct {
		Stack               string           `yaml:"stack" json:"stack"`
		Organization        *Entry           `yaml:"organization,omitempty" json:"organization,omitempty"`
		OrganizationRoot    string           `yaml:"organization_root,omitempty" json:"organization_root,omitempty"`
		OrganizationalUnits map[string]Entry `yaml:"organizational_units,omitempty" json:"organizational_units,omitempty"`
		Accounts            map[string]Entry `yaml:"accounts,omitempty" json:"accounts,omitempty"`
		Roles               map[string]Entry `yaml:"roles,omitempty" json:"roles,omitempty"`
		Policies            map[string]Entry `yaml:"policies,omitempty" json:"policies,omitempty"`
	}
)

// ForName resolves a CLI stack argument to a Stack. Valid names are
// "foundation" and any stack environment.
func ForName(name string) (Stack, error) {
	if name == FoundationStackName {
		return Stack{Name: name}, nil
	}
	env := config.Environment(name)
	if err := env.Validate(); err != nil || env == config.EnvironmentAll {
		return Stack{}, fmt.Errorf("unknown stack %q: expected %q or one of the environments", name, FoundationStackName)
	}
	return Stack{Name: name, Environment: env}, nil
}

func (s Stack) IsFoundation() bool {
	return s.Name == FoundationStackName
}
