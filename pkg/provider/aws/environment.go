package aws

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/orgforge/orgforge/pkg/config"
	"github.com/orgforge/orgforge/pkg/core"
	"github.com/orgforge/orgforge/pkg/envfilter"
	"github.com/orgforge/orgforge/pkg/multierr"
	"github.com/orgforge/orgforge/pkg/provider/aws/resources"
	"github.com/orgforge/orgforge/pkg/set"
	"github.com/orgforge/orgforge/pkg/stack"
	"go.uber.org/zap"
)

// EnvironmentStack owns one environment's IAM surface: its roles, groups,
// users, environment policies and the attachment edges between them. It
// consumes the foundation stack's outputs strictly pass-through.
type EnvironmentStack struct {
	Config      *config.OrgConfig
	Environment config.Environment

	// Foundation is the resolved output bundle of the foundation stack.
	// Translation fails up front when it is absent.
	Foundation *stack.Outputs

	// Strict turns unresolved role/group/policy references into errors
	// instead of warn-and-skip.
	Strict bool
}

func (e *EnvironmentStack) Name() string {
	return string(e.Environment)
}

func (e *EnvironmentStack) Translate(dag *core.ResourceGraph) error {
	if e.Foundation == nil {
		return &core.ReferenceNotFoundError{Stack: stack.FoundationStackName}
	}
	log := zap.S().Named("aws." + e.Name())
	tags := stackTags(e.Config.ManagedBy, e.Name())

	roleSpecs := envfilter.Roles(e.Config.RoleTable(), e.Environment)
	groupSpecs := envfilter.Groups(e.Config.Groups, e.Environment)
	policySpecs := envfilter.Policies(e.Config.Policies, e.Environment)
	userSpecs := envfilter.Users(e.Config.Users, e.Environment, roleSpecs, groupSpecs)

	var errs multierr.Error

	roleByName := make(map[string]*resources.IamRole)
	for _, spec := range roleSpecs {
		role, err := e.translateRole(dag, spec, tags)
		if err != nil {
			errs.Append(err)
			continue
		}
		roleByName[role.Name] = role
	}

	policyByName := make(map[string]*resources.IamPolicy)
	for _, spec := range policySpecs {
		doc, err := resources.ParsePolicyDocument(spec.Document)
		if err != nil {
			errs.Append(core.WrapErrf(err, "policy %s", spec.Name))
			continue
		}
		policy := &resources.IamPolicy{}
		if err := policy.Create(dag, resources.IamPolicyCreateParams{Name: spec.Name, Policy: doc, Tags: tags}); err != nil {
			errs.Append(err)
			continue
		}
		policyByName[policy.Name] = policy
	}

	groupByName := make(map[string]*resources.IamGroup)
	for _, spec := range groupSpecs {
		group, err := e.translateGroup(dag, spec, tags)
		if err != nil {
			errs.Append(err)
			continue
		}
		groupByName[group.Name] = group
	}

	for _, spec := range userSpecs {
		errs.Append(e.translateUser(dag, log, spec, roleByName, groupByName, policyByName, tags))
	}

	errs.Append(e.persistOutputs(dag, roleByName, tags))
	return errs.ErrOrNil()
}

func (e *EnvironmentStack) translateRole(dag *core.ResourceGraph, spec config.RoleSpec, tags map[string]string) (*resources.IamRole, error) {
	role := &resources.IamRole{}
	err := role.Create(dag, resources.RoleCreateParams{
		Name:        spec.Name,
		Description: spec.Description,
		Tags:        tags,
	})
	if err != nil {
		return nil, err
	}
	for i, arn := range spec.PolicyArns {
		attachment := resources.NewRolePolicyAttachment(role, core.LiteralValue(arn), i)
		dag.AddDependenciesReflect(attachment)
	}
	return role, nil
}

func (e *EnvironmentStack) translateGroup(dag *core.ResourceGraph, spec config.GroupSpec, tags map[string]string) (*resources.IamGroup, error) {
	group := &resources.IamGroup{}
	err := group.Create(dag, resources.GroupCreateParams{
		Name: spec.Name,
		Tags: tags,
	})
	if err != nil {
		return nil, err
	}
	for _, arn := range spec.ManagedPolicyArns {
		attachment := resources.NewGroupPolicyAttachment(group, arn)
		dag.AddDependenciesReflect(attachment)
	}
	return group, nil
}

func (e *EnvironmentStack) translateUser(
	dag *core.ResourceGraph,
	log *zap.SugaredLogger,
	spec config.UserSpec,
	roleByName map[string]*resources.IamRole,
	groupByName map[string]*resources.IamGroup,
	policyByName map[string]*resources.IamPolicy,
	tags map[string]string,
) error {
	user := &resources.IamUser{}
	err := user.Create(dag, resources.UserCreateParams{
		Name: spec.Username,
		Tags: userTags(spec, tags),
	})
	if err != nil {
		return err
	}

	var errs multierr.Error

	// One membership edge per user, listing the union of matched groups.
	matched := set.SetOf[string]()
	for _, name := range spec.Groups {
		if _, ok := groupByName[name]; ok {
			matched.Add(name)
		} else {
			errs.Append(e.unresolved(log, "group", name))
		}
	}
	if matched.Len() > 0 {
		groups := make([]*resources.IamGroup, 0, matched.Len())
		for _, name := range set.Sorted(matched, func(a, b string) bool { return a < b }) {
			groups = append(groups, groupByName[name])
		}
		membership := resources.NewUserGroupMembership(user, groups)
		dag.AddDependenciesReflect(membership)
	}

	for _, ref := range spec.ManagedPolicies {
		arn, err := e.resolvePolicyArn(policyByName, ref)
		if err != nil {
			errs.Append(e.unresolved(log, "policy", ref))
			continue
		}
		attachment := resources.NewUserPolicyAttachment(user,
			fmt.Sprintf("%s-attach-%s", user.Name, resources.ArnSuffix(ref)), arn)
		dag.AddDependenciesReflect(attachment)
	}

	for _, roleName := range spec.AssumeRoles {
		role, ok := roleByName[roleName]
		if !ok {
			// Defined degenerate behavior: the pair edge simply does not
			// exist in this environment.
			errs.Append(e.unresolved(log, "role", roleName))
			continue
		}
		assumePolicy := resources.NewAssumeRolePolicy(user, role, tags)
		dag.AddDependenciesReflect(assumePolicy)
		// The role reference lives inside the policy document, out of reach
		// of field reflection.
		dag.AddDependency(assumePolicy, role)
		attachment := resources.NewUserPolicyAttachment(user,
			fmt.Sprintf("%s-assume-%s-attach", user.Name, role.Name), assumePolicy.Arn())
		dag.AddDependenciesReflect(attachment)
	}

	return errs.ErrOrNil()
}

// resolvePolicyArn accepts either a full managed policy ARN or the name of
// an environment policy declared in the config tables.
func (e *EnvironmentStack) resolvePolicyArn(policyByName map[string]*resources.IamPolicy, ref string) (core.IaCValue, error) {
	if strings.HasPrefix(ref, "arn:") {
		return core.LiteralValue(ref), nil
	}
	if policy, ok := policyByName[ref]; ok {
		return policy.Arn(), nil
	}
	return core.IaCValue{}, &core.UnresolvedLookupError{Kind: "policy", Name: ref, Stack: e.Name()}
}

// persistOutputs declares the /environments/{env}/roles parameter. The
// organization id rides along untouched from the foundation outputs.
func (e *EnvironmentStack) persistOutputs(dag *core.ResourceGraph, roleByName map[string]*resources.IamRole, tags map[string]string) error {
	values := map[string]core.IaCValue{}
	names := make([]string, 0, len(roleByName))
	for name := range roleByName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		values[strcase.ToSnake(name+"Arn")] = roleByName[name].Arn()
	}
	if e.Foundation.Organization != nil {
		values["organization_id"] = core.LiteralValue(e.Foundation.Organization.Id)
	}
	if len(values) == 0 {
		return nil
	}
	param := &resources.SsmParameter{}
	return param.Create(dag, resources.SsmParameterCreateParams{
		Name:   fmt.Sprintf("%s-roles", e.Name()),
		Path:   fmt.Sprintf("/environments/%s/roles", e.Name()),
		Values: values,
		Tags:   tags,
	})
}

func userTags(spec config.UserSpec, tags map[string]string) map[string]string {
	merged := make(map[string]string, len(tags)+len(spec.Tags)+1)
	for k, v := range spec.Tags {
		merged[k] = v
	}
	if spec.Email != "" {
		merged["Email"] = spec.Email
	}
	// The uniform tag set wins over user-authored tags.
	for k, v := range tags {
		merged[k] = v
	}
	return merged
}

func (e *EnvironmentStack) unresolved(log *zap.SugaredLogger, kind string, name string) error {
	err := &core.UnresolvedLookupError{Kind: kind, Name: name, Stack: e.Name()}
	if e.Strict {
		return err
	}
	log.Warnf("%v; skipping", err)
	return nil
}
