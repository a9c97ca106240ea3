package resources

import (
	"testing"

	"github.com/orgforge/orgforge/pkg/core"
	"github.com/orgforge/orgforge/pkg/core/coretesting"
	"github.com/stretchr/testify/assert"
)

func Test_RoleCreate(t *testing.T) {
	cases := []struct {
		name    string
		role    *IamRole
		want    coretesting.ResourcesExpectation
		wantErr bool
	}{
		{
			name: "nil role",
			want: coretesting.ResourcesExpectation{
				Nodes: []string{
					"aws:iam_role:dev-limited-role",
				},
				Deps: []coretesting.StringDep{},
			},
		},
		{
			name:    "existing role",
			role:    &IamRole{Name: "dev-limited-role"},
			wantErr: true,
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			dag := core.NewResourceGraph()
			if tt.role != nil {
				dag.AddResource(tt.role)
			}
			role := &IamRole{}
			err := role.Create(dag, RoleCreateParams{
				Name:        "dev-limited-role",
				Description: "limited dev access",
			})

			if tt.wantErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			tt.want.Assert(t, dag)

			assert.Equal("dev-limited-role", role.Name)
			assert.Equal(USER_ASSUMER_TRUST_POLICY, role.AssumeRolePolicyDoc)
		})
	}
}

func Test_RoleCreateSanitizesName(t *testing.T) {
	assert := assert.New(t)
	dag := core.NewResourceGraph()
	role := &IamRole{}
	err := role.Create(dag, RoleCreateParams{Name: "dev role!"})
	if !assert.NoError(err) {
		return
	}
	assert.Equal("dev_role_", role.Name)
}

func Test_IamPolicyCreate(t *testing.T) {
	cases := []struct {
		name     string
		existing *IamPolicy
		want     coretesting.ResourcesExpectation
		wantErr  bool
	}{
		{
			name: "nil policy",
			want: coretesting.ResourcesExpectation{
				Nodes: []string{
					"aws:iam_policy:limited-permissions",
				},
				Deps: []coretesting.StringDep{},
			},
		},
		{
			name:     "existing policy",
			existing: &IamPolicy{Name: "limited-permissions"},
			wantErr:  true,
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			dag := core.NewResourceGraph()
			if tt.existing != nil {
				dag.AddResource(tt.existing)
			}
			policy := &IamPolicy{}
			err := policy.Create(dag, IamPolicyCreateParams{
				Name:   "limited-permissions",
				Policy: CreateAllowPolicyDocument([]string{"s3:GetObject"}, []core.IaCValue{core.LiteralValue(core.ALL_RESOURCES_VALUE)}),
			})
			if tt.wantErr {
				assert.Error(err)
				// the first declaration must not be clobbered
				got, found := core.GetResource[*IamPolicy](dag, policy.Id())
				if assert.True(found) {
					assert.Same(tt.existing, got)
				}
				return
			}
			if !assert.NoError(err) {
				return
			}
			tt.want.Assert(t, dag)
		})
	}
}

func Test_NewRolePolicyAttachment(t *testing.T) {
	assert := assert.New(t)
	dag := core.NewResourceGraph()
	role := &IamRole{}
	if !assert.NoError(role.Create(dag, RoleCreateParams{Name: "dev-limited-role"})) {
		return
	}
	attachment := NewRolePolicyAttachment(role, core.LiteralValue("arn:aws:iam::aws:policy/ReadOnlyAccess"), 0)
	dag.AddDependenciesReflect(attachment)

	assert.Equal("dev-limited-role-policy-0", attachment.Name)
	assert.Equal("arn:aws:iam::aws:policy/ReadOnlyAccess", attachment.PolicyArn.String())
	coretesting.ResourcesExpectation{
		Nodes: []string{
			"aws:iam_role:dev-limited-role",
			"aws:role_policy_attachment:dev-limited-role-policy-0",
		},
		Deps: []coretesting.StringDep{
			coretesting.Dep("aws:role_policy_attachment:dev-limited-role-policy-0", "aws:iam_role:dev-limited-role"),
		},
	}.Assert(t, dag)
}

func Test_NewGroupPolicyAttachment(t *testing.T) {
	assert := assert.New(t)
	group := &IamGroup{Name: "developers"}
	attachment := NewGroupPolicyAttachment(group, "arn:aws:iam::aws:policy/PowerUserAccess")
	assert.Equal("developers-attach-PowerUserAccess", attachment.Name)
	assert.Equal("arn:aws:iam::aws:policy/PowerUserAccess", attachment.PolicyArn.String())
}

func Test_NewAssumeRolePolicy(t *testing.T) {
	assert := assert.New(t)
	user := &IamUser{Name: "u1"}
	role := &IamRole{Name: "dev-limited-role"}

	policy := NewAssumeRolePolicy(user, role, map[string]string{"Environment": "dev"})

	assert.Equal("u1-assume-dev-limited-role-policy", policy.Name)
	if !assert.Len(policy.Policy.Statement, 1) {
		return
	}
	statement := policy.Policy.Statement[0]
	assert.Equal("Allow", statement.Effect)
	assert.Equal([]string{"sts:AssumeRole"}, statement.Action)
	if assert.Len(statement.Resource, 1) {
		assert.Equal("${aws:iam_role:dev-limited-role#arn}", statement.Resource[0].String())
	}
}

func Test_NewUserGroupMembership(t *testing.T) {
	assert := assert.New(t)
	dag := core.NewResourceGraph()
	user := &IamUser{Name: "u1"}
	groups := []*IamGroup{{Name: "developers"}, {Name: "oncall"}}

	membership := NewUserGroupMembership(user, groups)
	dag.AddDependenciesReflect(membership)

	assert.Equal("u1-membership", membership.Name)
	coretesting.ResourcesExpectation{
		Nodes: []string{
			"aws:iam_user:u1",
			"aws:iam_group:developers",
			"aws:iam_group:oncall",
			"aws:user_group_membership:u1-membership",
		},
		Deps: []coretesting.StringDep{
			coretesting.Dep("aws:user_group_membership:u1-membership", "aws:iam_user:u1"),
			coretesting.Dep("aws:user_group_membership:u1-membership", "aws:iam_group:developers"),
			coretesting.Dep("aws:user_group_membership:u1-membership", "aws:iam_group:oncall"),
		},
	}.Assert(t, dag)
}

func Test_ArnSuffix(t *testing.T) {
	cases := []struct {
		name string
		arn  string
		want string
	}{
		{name: "managed policy path", arn: "arn:aws:iam::aws:policy/PowerUserAccess", want: "PowerUserAccess"},
		{name: "nested path", arn: "arn:aws:iam::aws:policy/job-function/ViewOnlyAccess", want: "ViewOnlyAccess"},
		{name: "colon separated", arn: "arn:aws:iam::123456789012:role/ops", want: "ops"},
		{name: "no separator", arn: "PowerUserAccess", want: "PowerUserAccess"},
		{name: "trailing separator", arn: "arn:aws:iam::aws:policy/", want: "arn:aws:iam::aws:policy/"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tt.want, ArnSuffix(tt.arn))
		})
	}
}
