package resources

import (
	"fmt"

	"github.com/orgforge/orgforge/pkg/core"
	"github.com/orgforge/orgforge/pkg/sanitization/aws"
)

const (
	ORGANIZATION_TYPE                   = "organization"
	ORGANIZATIONAL_UNIT_TYPE            = "organizational_unit"
	ACCOUNT_TYPE                        = "account"
	ORGANIZATION_POLICY_TYPE            = "organization_policy"
	ORGANIZATION_POLICY_ATTACHMENT_TYPE = "organization_policy_attachment"

	SERVICE_CONTROL_POLICY = "SERVICE_CONTROL_POLICY"
	TAG_POLICY             = "TAG_POLICY"
)

var ouSanitizer = aws.OrganizationalUnitSanitizer
var accountSanitizer = aws.AccountSanitizer
var orgPolicySanitizer = aws.OrganizationPolicySanitizer

type (
	// Organization is created exactly once by the foundation stack and is
	// immutable after creation.
	Organization struct {
		Name               string
		FeatureSet         string
		EnabledPolicyTypes []string
		ServicePrincipals  []string
		Tags               map[string]string
	}

	// OrganizationalUnit forms a tree: Parent references either the
	// organization root id or another OU's id.
	OrganizationalUnit struct {
		Name   string
		Parent core.IaCValue
		Tags   map[string]string
	}

	Account struct {
		Name          string
		Email         string
		Parent        core.IaCValue
		RoleName      string
		BillingAccess bool
		Tags          map[string]string
	}

	// OrganizationPolicy covers the organization-wide policy kinds (service
	// control and tag policies). IAM policies are a separate resource type.
	OrganizationPolicy struct {
		Name    string
		Kind    string
		Content map[string]any
		Tags    map[string]string
	}

	OrganizationPolicyAttachment struct {
		Name   string
		Policy *OrganizationPolicy
		Target core.IaCValue
	}
)

type OrganizationCreateParams struct {
	AppName            string
	FeatureSet         string
	EnabledPolicyTypes []string
	ServicePrincipals  []string
	Tags               map[string]string
}

func (org *Organization) Create(dag *core.ResourceGraph, params OrganizationCreateParams) error {
	org.Name = accountSanitizer.Apply(params.AppName)
	org.FeatureSet = params.FeatureSet
	org.EnabledPolicyTypes = params.EnabledPolicyTypes
	org.ServicePrincipals = params.ServicePrincipals
	org.Tags = params.Tags

	if dag.GetResource(org.Id()) != nil {
		return fmt.Errorf("organization %s already exists", org.Name)
	}
	dag.AddResource(org)
	return nil
}

type OrganizationalUnitCreateParams struct {
	Name   string
	Parent core.IaCValue
	Tags   map[string]string
}

func (ou *OrganizationalUnit) Create(dag *core.ResourceGraph, params OrganizationalUnitCreateParams) error {
	ou.Name = ouSanitizer.Apply(params.Name)
	ou.Parent = params.Parent
	ou.Tags = params.Tags

	if dag.GetResource(ou.Id()) != nil {
		return fmt.Errorf("organizational unit %s already exists", ou.Name)
	}
	dag.AddDependenciesReflect(ou)
	return nil
}

type AccountCreateParams struct {
	Name          string
	Email         string
	Parent        core.IaCValue
	RoleName      string
	BillingAccess bool
	Tags          map[string]string
}

func (account *Account) Create(dag *core.ResourceGraph, params AccountCreateParams) error {
	account.Name = accountSanitizer.Apply(params.Name)
	account.Email = params.Email
	account.Parent = params.Parent
	account.RoleName = params.RoleName
	account.BillingAccess = params.BillingAccess
	account.Tags = params.Tags

	if dag.GetResource(account.Id()) != nil {
		return fmt.Errorf("account %s already exists", account.Name)
	}
	dag.AddDependenciesReflect(account)
	return nil
}

type OrganizationPolicyCreateParams struct {
	Name    string
	Kind    string
	Content map[string]any
	Tags    map[string]string
}

func (policy *OrganizationPolicy) Create(dag *core.ResourceGraph, params OrganizationPolicyCreateParams) error {
	switch params.Kind {
	case SERVICE_CONTROL_POLICY, TAG_POLICY:
	default:
		return &core.UnsupportedPolicyKindError{Kind: params.Kind}
	}
	policy.Name = orgPolicySanitizer.Apply(params.Name)
	policy.Kind = params.Kind
	policy.Content = params.Content
	policy.Tags = params.Tags

	if dag.GetResource(policy.Id()) != nil {
		return fmt.Errorf("organization policy %s already exists", policy.Name)
	}
	dag.AddResource(policy)
	return nil
}

type OrganizationPolicyAttachmentCreateParams struct {
	Policy *OrganizationPolicy
	Target core.IaCValue
}

func (attachment *OrganizationPolicyAttachment) Create(dag *core.ResourceGraph, params OrganizationPolicyAttachmentCreateParams) error {
	attachment.Name = fmt.Sprintf("%s-attachment", params.Policy.Name)
	attachment.Policy = params.Policy
	attachment.Target = params.Target

	if dag.GetResource(attachment.Id()) != nil {
		return fmt.Errorf("organization policy attachment %s already exists", attachment.Name)
	}
	dag.AddDependenciesReflect(attachment)
	return nil
}

func (org *Organization) Id() core.ResourceId {
	return core.ResourceId{Provider: AWS_PROVIDER, Type: ORGANIZATION_TYPE, Name: org.Name}
}

func (org *Organization) ResourceTags() map[string]string {
	return org.Tags
}

// RootId returns the deferred reference to the organization's root container
// id, the attachment point for top-level OUs and organization policies.
func (org *Organization) RootId() core.IaCValue {
	return core.PropertyOf(org, core.ROOT_ID_PROPERTY)
}

func (ou *OrganizationalUnit) Id() core.ResourceId {
	return core.ResourceId{Provider: AWS_PROVIDER, Type: ORGANIZATIONAL_UNIT_TYPE, Name: ou.Name}
}

func (ou *OrganizationalUnit) ResourceTags() map[string]string {
	return ou.Tags
}

func (account *Account) Id() core.ResourceId {
	return core.ResourceId{Provider: AWS_PROVIDER, Type: ACCOUNT_TYPE, Name: account.Name}
}

func (account *Account) ResourceTags() map[string]string {
	return account.Tags
}

func (policy *OrganizationPolicy) Id() core.ResourceId {
	return core.ResourceId{Provider: AWS_PROVIDER, Type: ORGANIZATION_POLICY_TYPE, Name: policy.Name}
}

func (policy *OrganizationPolicy) ResourceTags() map[string]string {
	return policy.Tags
}

func (attachment *OrganizationPolicyAttachment) Id() core.ResourceId {
	return core.ResourceId{Provider: AWS_PROVIDER, Type: ORGANIZATION_POLICY_ATTACHMENT_TYPE, Name: attachment.Name}
}
