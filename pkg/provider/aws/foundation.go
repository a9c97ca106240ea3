package aws

import (
	"sort"

	"github.com/iancoleman/strcase"
	"github.com/orgforge/orgforge/pkg/config"
	"github.com/orgforge/orgforge/pkg/core"
	"github.com/orgforge/orgforge/pkg/multierr"
	"github.com/orgforge/orgforge/pkg/provider/aws/resources"
	"github.com/orgforge/orgforge/pkg/stack"
	"go.uber.org/zap"
)

// FoundationStack owns the organization-wide topology: the organization
// itself, the OU tree, member accounts and org-wide policies. Environment
// stacks only ever reference its outputs.
type FoundationStack struct {
	Config *config.OrgConfig
	Strict bool
}

func (f *FoundationStack) Name() string {
	return stack.FoundationStackName
}

func (f *FoundationStack) Translate(dag *core.ResourceGraph) error {
	log := zap.S().Named("aws.foundation")
	tags := stackTags(f.Config.ManagedBy, stack.FoundationStackName)

	org := &resources.Organization{}
	err := org.Create(dag, resources.OrganizationCreateParams{
		AppName:            f.Config.AppName,
		FeatureSet:         f.Config.Organization.FeatureSet,
		EnabledPolicyTypes: f.Config.Organization.EnabledPolicyTypes,
		ServicePrincipals:  f.Config.Organization.ServicePrincipals,
		Tags:               tags,
	})
	if err != nil {
		return err
	}

	// The registry of created OUs is scoped to this translation; wiring
	// lookups never go through shared package state.
	ouByName := make(map[string]*resources.OrganizationalUnit)
	var errs multierr.Error
	errs.Append(f.translateUnits(dag, f.Config.OrganizationalUnits, org.RootId(), tags, ouByName))

	for _, spec := range f.Config.Accounts {
		parent, ok := ouByName[spec.Parent]
		if !ok {
			errs.Append(f.unresolved(log, "organizational unit", spec.Parent))
			continue
		}
		account := &resources.Account{}
		errs.Append(account.Create(dag, resources.AccountCreateParams{
			Name:          spec.Name,
			Email:         spec.Email,
			Parent:        core.PropertyOf(parent, core.ID_PROPERTY),
			RoleName:      spec.RoleName,
			BillingAccess: spec.BillingAccess,
			Tags:          tags,
		}))
	}

	for _, spec := range f.Config.Policies {
		errs.Append(f.translatePolicy(dag, log, org, ouByName, spec, tags))
	}

	errs.Append(f.persistOutputs(dag, org, ouByName, tags))
	return errs.ErrOrNil()
}

func (f *FoundationStack) translateUnits(
	dag *core.ResourceGraph,
	nodes map[string]*config.OUNode,
	parent core.IaCValue,
	tags map[string]string,
	ouByName map[string]*resources.OrganizationalUnit,
) error {
	var errs multierr.Error
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ou := &resources.OrganizationalUnit{}
		err := ou.Create(dag, resources.OrganizationalUnitCreateParams{
			Name:   name,
			Parent: parent,
			Tags:   tags,
		})
		if err != nil {
			errs.Append(err)
			continue
		}
		ouByName[ou.Name] = ou
		if node := nodes[name]; node != nil {
			errs.Append(f.translateUnits(dag, node.Children, core.PropertyOf(ou, core.ID_PROPERTY), tags, ouByName))
		}
	}
	return errs.ErrOrNil()
}

func (f *FoundationStack) translatePolicy(
	dag *core.ResourceGraph,
	log *zap.SugaredLogger,
	org *resources.Organization,
	ouByName map[string]*resources.OrganizationalUnit,
	spec config.PolicySpec,
	tags map[string]string,
) error {
	switch spec.Kind {
	case config.PolicyKindIam:
		if spec.Environment != "" {
			// Environment-tagged iam policies belong to their environment
			// stack; the foundation only declares the org-wide ones.
			return nil
		}
		doc, err := resources.ParsePolicyDocument(spec.Document)
		if err != nil {
			return core.WrapErrf(err, "policy %s", spec.Name)
		}
		policy := &resources.IamPolicy{}
		return policy.Create(dag, resources.IamPolicyCreateParams{
			Name:   spec.Name,
			Policy: doc,
			Tags:   tags,
		})

	case config.PolicyKindServiceControl, config.PolicyKindTag:
		kind := resources.SERVICE_CONTROL_POLICY
		if spec.Kind == config.PolicyKindTag {
			kind = resources.TAG_POLICY
		}
		policy := &resources.OrganizationPolicy{}
		err := policy.Create(dag, resources.OrganizationPolicyCreateParams{
			Name:    spec.Name,
			Kind:    kind,
			Content: spec.Document,
			Tags:    tags,
		})
		if err != nil {
			return err
		}

		target, err := f.policyTarget(org, ouByName, spec.Target)
		if err != nil {
			return f.unresolved(log, "policy target", spec.Target)
		}
		attachment := &resources.OrganizationPolicyAttachment{}
		return attachment.Create(dag, resources.OrganizationPolicyAttachmentCreateParams{
			Policy: policy,
			Target: target,
		})

	default:
		// Config validation rejects this earlier; failing here keeps the
		// union exhaustive even for hand-built configs.
		return &core.UnsupportedPolicyKindError{Kind: string(spec.Kind)}
	}
}

func (f *FoundationStack) policyTarget(
	org *resources.Organization,
	ouByName map[string]*resources.OrganizationalUnit,
	target string,
) (core.IaCValue, error) {
	if target == "root" {
		return org.RootId(), nil
	}
	if ou, ok := ouByName[target]; ok {
		return core.PropertyOf(ou, core.ID_PROPERTY), nil
	}
	return core.IaCValue{}, &core.UnresolvedLookupError{Kind: "policy target", Name: target, Stack: f.Name()}
}

// persistOutputs declares the SecureString parameters holding the projected
// organization identifiers under the fixed /organization/... paths.
func (f *FoundationStack) persistOutputs(
	dag *core.ResourceGraph,
	org *resources.Organization,
	ouByName map[string]*resources.OrganizationalUnit,
	tags map[string]string,
) error {
	var errs multierr.Error

	details := &resources.SsmParameter{}
	errs.Append(details.Create(dag, resources.SsmParameterCreateParams{
		Name: "organization-details",
		Path: "/organization/details",
		Values: map[string]core.IaCValue{
			"organization_id":  core.PropertyOf(org, core.ID_PROPERTY),
			"organization_arn": core.PropertyOf(org, core.ARN_PROPERTY),
			"root_id":          org.RootId(),
		},
		Tags: tags,
	}))

	accountValues := make(map[string]core.IaCValue)
	for _, account := range core.ListResourcesOfType[*resources.Account](dag) {
		accountValues[strcase.ToSnake(account.Name+"Id")] = core.PropertyOf(account, core.ID_PROPERTY)
	}
	if len(accountValues) > 0 {
		accounts := &resources.SsmParameter{}
		errs.Append(accounts.Create(dag, resources.SsmParameterCreateParams{
			Name:   "organization-accounts",
			Path:   "/organization/accounts",
			Values: accountValues,
			Tags:   tags,
		}))
	}
	return errs.ErrOrNil()
}

func (f *FoundationStack) unresolved(log *zap.SugaredLogger, kind string, name string) error {
	err := &core.UnresolvedLookupError{Kind: kind, Name: name, Stack: f.Name()}
	if f.Strict {
		return err
	}
	log.Warnf("%v; skipping", err)
	return nil
}
