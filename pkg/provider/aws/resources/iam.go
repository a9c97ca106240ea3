package resources

import (
	"fmt"
	"strings"

	"github.com/orgforge/orgforge/pkg/core"
	"github.com/orgforge/orgforge/pkg/sanitization/aws"
)

const (
	IAM_ROLE_TYPE                = "iam_role"
	IAM_POLICY_TYPE              = "iam_policy"
	IAM_GROUP_TYPE               = "iam_group"
	IAM_USER_TYPE                = "iam_user"
	ROLE_POLICY_ATTACHMENT_TYPE  = "role_policy_attachment"
	GROUP_POLICY_ATTACHMENT_TYPE = "group_policy_attachment"
	USER_POLICY_ATTACHMENT_TYPE  = "user_policy_attachment"
	USER_GROUP_MEMBERSHIP_TYPE   = "user_group_membership"

	VERSION = "2012-10-17"
)

var roleSanitizer = aws.IamRoleSanitizer
var policySanitizer = aws.IamPolicySanitizer
var userSanitizer = aws.IamUserSanitizer
var groupSanitizer = aws.IamGroupSanitizer

// USER_ASSUMER_TRUST_POLICY is the static trust document attached to every
// role this tool creates: only IAM principals of type User may assume them.
var USER_ASSUMER_TRUST_POLICY = &PolicyDocument{
	Version: VERSION,
	Statement: []StatementEntry{
		{
			Action: []string{"sts:AssumeRole"},
			Principal: &Principal{
				AWS: core.LiteralValue(core.ALL_RESOURCES_VALUE),
			},
			Condition: &Condition{
				StringEquals: map[string]string{"aws:PrincipalType": "User"},
			},
			Effect: "Allow",
		},
	},
}

type (
	IamRole struct {
		Name                string
		Description         string
		AssumeRolePolicyDoc *PolicyDocument
		Tags                map[string]string
	}

	IamPolicy struct {
		Name   string
		Policy *PolicyDocument
		Tags   map[string]string
	}

	IamGroup struct {
		Name string
		Tags map[string]string
	}

	IamUser struct {
		Name string
		Tags map[string]string
	}

	// RolePolicyAttachment attaches one managed policy to a role. PolicyArn
	// may be a literal AWS-managed ARN or a deferred reference to a created
	// policy's arn.
	RolePolicyAttachment struct {
		Name      string
		PolicyArn core.IaCValue
		Role      *IamRole
	}

	GroupPolicyAttachment struct {
		Name      string
		PolicyArn core.IaCValue
		Group     *IamGroup
	}

	UserPolicyAttachment struct {
		Name      string
		PolicyArn core.IaCValue
		User      *IamUser
	}

	// UserGroupMembership is the single membership edge per user, listing
	// every group the user belongs to in its environment.
	UserGroupMembership struct {
		Name   string
		User   *IamUser
		Groups []*IamGroup
	}

	PolicyDocument struct {
		Version   string
		Statement []StatementEntry
	}

	StatementEntry struct {
		Effect    string
		Action    []string
		Resource  []core.IaCValue
		Principal *Principal
		Condition *Condition
	}

	Principal struct {
		Service   string
		AWS       core.IaCValue
		Federated core.IaCValue
	}

	Condition struct {
		StringEquals map[string]string
		Null         map[string]string
	}
)

type RoleCreateParams struct {
	Name        string
	Description string
	Tags        map[string]string
}

func (role *IamRole) Create(dag *core.ResourceGraph, params RoleCreateParams) error {
	role.Name = roleSanitizer.Apply(params.Name)
	role.Description = params.Description
	role.AssumeRolePolicyDoc = USER_ASSUMER_TRUST_POLICY
	role.Tags = params.Tags

	if dag.GetResource(role.Id()) != nil {
		return fmt.Errorf("iam role with name %s already exists", role.Name)
	}
	dag.AddResource(role)
	return nil
}

type IamPolicyCreateParams struct {
	Name   string
	Policy *PolicyDocument
	Tags   map[string]string
}

func (policy *IamPolicy) Create(dag *core.ResourceGraph, params IamPolicyCreateParams) error {
	policy.Name = policySanitizer.Apply(params.Name)
	policy.Policy = params.Policy
	policy.Tags = params.Tags

	if dag.GetResource(policy.Id()) != nil {
		return fmt.Errorf("iam policy with name %s already exists", policy.Name)
	}
	dag.AddDependenciesReflect(policy)
	return nil
}

type GroupCreateParams struct {
	Name string
	Tags map[string]string
}

func (group *IamGroup) Create(dag *core.ResourceGraph, params GroupCreateParams) error {
	group.Name = groupSanitizer.Apply(params.Name)
	group.Tags = params.Tags

	if dag.GetResource(group.Id()) != nil {
		return fmt.Errorf("iam group with name %s already exists", group.Name)
	}
	dag.AddResource(group)
	return nil
}

type UserCreateParams struct {
	Name string
	Tags map[string]string
}

func (user *IamUser) Create(dag *core.ResourceGraph, params UserCreateParams) error {
	user.Name = userSanitizer.Apply(params.Name)
	user.Tags = params.Tags

	if dag.GetResource(user.Id()) != nil {
		return fmt.Errorf("iam user with name %s already exists", user.Name)
	}
	dag.AddResource(user)
	return nil
}

// NewRolePolicyAttachment names the attachment deterministically as
// {roleName}-policy-{index} so re-synthesis cannot produce collisions.
func NewRolePolicyAttachment(role *IamRole, policyArn core.IaCValue, index int) *RolePolicyAttachment {
	return &RolePolicyAttachment{
		Name:      policySanitizer.Apply(fmt.Sprintf("%s-policy-%d", role.Name, index)),
		PolicyArn: policyArn,
		Role:      role,
	}
}

// NewGroupPolicyAttachment names the attachment {groupName}-attach-{arn
// suffix}, where the suffix is the last path segment of the managed policy
// ARN.
func NewGroupPolicyAttachment(group *IamGroup, policyArn string) *GroupPolicyAttachment {
	return &GroupPolicyAttachment{
		Name:      policySanitizer.Apply(fmt.Sprintf("%s-attach-%s", group.Name, ArnSuffix(policyArn))),
		PolicyArn: core.LiteralValue(policyArn),
		Group:     group,
	}
}

func NewUserPolicyAttachment(user *IamUser, name string, policyArn core.IaCValue) *UserPolicyAttachment {
	return &UserPolicyAttachment{
		Name:      policySanitizer.Apply(name),
		PolicyArn: policyArn,
		User:      user,
	}
}

func NewUserGroupMembership(user *IamUser, groups []*IamGroup) *UserGroupMembership {
	return &UserGroupMembership{
		Name:   userSanitizer.Apply(fmt.Sprintf("%s-membership", user.Name)),
		User:   user,
		Groups: groups,
	}
}

// NewAssumeRolePolicy synthesizes the dedicated per-(user, role) policy
// granting sts:AssumeRole on the role's ARN. The per-pair indirection keeps
// each grant auditable and revocable on its own.
func NewAssumeRolePolicy(user *IamUser, role *IamRole, tags map[string]string) *IamPolicy {
	return &IamPolicy{
		Name:   policySanitizer.Apply(fmt.Sprintf("%s-assume-%s-policy", user.Name, role.Name)),
		Policy: CreateAllowPolicyDocument([]string{"sts:AssumeRole"}, []core.IaCValue{role.Arn()}),
		Tags:   tags,
	}
}

func CreateAllowPolicyDocument(actions []string, resources []core.IaCValue) *PolicyDocument {
	return &PolicyDocument{
		Version: VERSION,
		Statement: []StatementEntry{
			{
				Effect:   "Allow",
				Action:   actions,
				Resource: resources,
			},
		},
	}
}

// ArnSuffix returns the last segment of an ARN, e.g.
// "arn:aws:iam::aws:policy/PowerUserAccess" -> "PowerUserAccess".
func ArnSuffix(arn string) string {
	idx := strings.LastIndexAny(arn, "/:")
	if idx < 0 || idx == len(arn)-1 {
		return arn
	}
	return arn[idx+1:]
}

func (role *IamRole) Id() core.ResourceId {
	return core.ResourceId{Provider: AWS_PROVIDER, Type: IAM_ROLE_TYPE, Name: role.Name}
}

func (role *IamRole) ResourceTags() map[string]string {
	return role.Tags
}

func (role *IamRole) Arn() core.IaCValue {
	return core.PropertyOf(role, core.ARN_PROPERTY)
}

func (policy *IamPolicy) Id() core.ResourceId {
	return core.ResourceId{Provider: AWS_PROVIDER, Type: IAM_POLICY_TYPE, Name: policy.Name}
}

func (policy *IamPolicy) ResourceTags() map[string]string {
	return policy.Tags
}

func (policy *IamPolicy) Arn() core.IaCValue {
	return core.PropertyOf(policy, core.ARN_PROPERTY)
}

func (group *IamGroup) Id() core.ResourceId {
	return core.ResourceId{Provider: AWS_PROVIDER, Type: IAM_GROUP_TYPE, Name: group.Name}
}

func (group *IamGroup) ResourceTags() map[string]string {
	return group.Tags
}

func (user *IamUser) Id() core.ResourceId {
	return core.ResourceId{Provider: AWS_PROVIDER, Type: IAM_USER_TYPE, Name: user.Name}
}

func (user *IamUser) ResourceTags() map[string]string {
	return user.Tags
}

func (attachment *RolePolicyAttachment) Id() core.ResourceId {
	return core.ResourceId{Provider: AWS_PROVIDER, Type: ROLE_POLICY_ATTACHMENT_TYPE, Name: attachment.Name}
}

func (attachment *GroupPolicyAttachment) Id() core.ResourceId {
	return core.ResourceId{Provider: AWS_PROVIDER, Type: GROUP_POLICY_ATTACHMENT_TYPE, Name: attachment.Name}
}

func (attachment *UserPolicyAttachment) Id() core.ResourceId {
	return core.ResourceId{Provider: AWS_PROVIDER, Type: USER_POLICY_ATTACHMENT_TYPE, Name: attachment.Name}
}

func (membership *UserGroupMembership) Id() core.ResourceId {
	return core.ResourceId{Provider: AWS_PROVIDER, Type: USER_GROUP_MEMBERSHIP_TYPE, Name: membership.Name}
}
