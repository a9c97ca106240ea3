package stack

import (
	"github.com/orgforge/orgforge/pkg/core"
	"github.com/orgforge/orgforge/pkg/provider/aws/resources"
)

// Project re-shapes the created resource handles of a stack into its
// exported output bundle. Only the allow-listed resource kinds below are
// projected; everything else (attachments, memberships, parameters) is an
// implementation detail of the stack, and nothing secret-bearing is ever
// considered.
func Project(s Stack, dag *core.ResourceGraph) *Outputs {
	outputs := &Outputs{Stack: s.Name}

	for _, res := range dag.ListResources() {
		switch res := res.(type) {
		case *resources.Organization:
			outputs.Organization = &Entry{
				Id:   core.PropertyOf(res, core.ID_PROPERTY).String(),
				Arn:  core.PropertyOf(res, core.ARN_PROPERTY).String(),
				Name: res.Name,
			}
			outputs.OrganizationRoot = res.RootId().String()

		case *resources.OrganizationalUnit:
			if outputs.OrganizationalUnits == nil {
				outputs.OrganizationalUnits = make(map[string]Entry)
			}
			outputs.OrganizationalUnits[res.Name] = entryFor(res, res.Name)

		case *resources.Account:
			if outputs.Accounts == nil {
				outputs.Accounts = make(map[string]Entry)
			}
			outputs.Accounts[res.Name] = entryFor(res, res.Name)

		case *resources.IamRole:
			if outputs.Roles == nil {
				outputs.Roles = make(map[string]Entry)
			}
			outputs.Roles[res.Name] = entryFor(res, res.Name)

		case *resources.IamPolicy:
			if outputs.Policies == nil {
				outputs.Policies = make(map[string]Entry)
			}
			outputs.Policies[res.Name] = entryFor(res, res.Name)

		case *resources.OrganizationPolicy:
			if outputs.Policies == nil {
				outputs.Policies = make(map[string]Entry)
			}
			outputs.Policies[res.Name] = entryFor(res, res.Name)
		}
	}
	return outputs
}

func entryFor(res core.Resource, name string) Entry {
	return Entry{
		Id:   core.PropertyOf(res, core.ID_PROPERTY).String(),
		Arn:  core.PropertyOf(res, core.ARN_PROPERTY).String(),
		Name: name,
	}
}
