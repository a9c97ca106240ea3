// Package envfilter selects the subset of the shared configuration tables
// that applies to a single environment stack. Selection is pure and
// idempotent: the same tables and environment always yield the same subset.
package envfilter

import (
	"github.com/orgforge/orgforge/pkg/config"
	"github.com/orgforge/orgforge/pkg/filter"
	"github.com/orgforge/orgforge/pkg/filter/predicate"
	"github.com/orgforge/orgforge/pkg/set"
)

// Roles returns the roles whose environment is env or "all".
func Roles(table []config.RoleSpec, env config.Environment) []config.RoleSpec {
	return filter.NewSimpleFilter(func(r config.RoleSpec) bool {
		return r.Environment.Matches(env)
	}).Apply(table...)
}

// Groups returns the groups whose environment is env or "all".
func Groups(table []config.GroupSpec, env config.Environment) []config.GroupSpec {
	return filter.NewSimpleFilter(func(g config.GroupSpec) bool {
		return g.Environment.Matches(env)
	}).Apply(table...)
}

// Policies returns the iam policies whose environment is env or "all".
// Organization-wide policy kinds (service control, tag) belong to the
// foundation stack and are never environment scoped.
func Policies(table []config.PolicySpec, env config.Environment) []config.PolicySpec {
	return filter.NewSimpleFilter(func(p config.PolicySpec) bool {
		return p.Kind == config.PolicyKindIam && p.Environment.Matches(env)
	}).Apply(table...)
}

// Users returns the users that belong to env. A user is included when any
// of three independent predicates holds: its environment tag matches, one
// of its groups is in the environment's group set, or one of its assumable
// roles is in the environment's role set. Duplicate matches cannot produce
// duplicate entries because usernames are unique in a validated config.
func Users(table []config.UserSpec, env config.Environment, roles []config.RoleSpec, groups []config.GroupSpec) []config.UserSpec {
	roleNames := set.SetOf[string]()
	for _, r := range roles {
		roleNames.Add(r.Name)
	}
	groupNames := set.SetOf[string]()
	for _, g := range groups {
		groupNames.Add(g.Name)
	}

	inEnvironment := predicate.AnyOf(
		func(u config.UserSpec) bool { return u.Environment.Matches(env) },
		func(u config.UserSpec) bool { return groupNames.ContainsAny(u.Groups...) },
		func(u config.UserSpec) bool { return roleNames.ContainsAny(u.AssumeRoles...) },
	)
	return filter.SimpleFilter[config.UserSpec]{Predicate: inEnvironment}.Apply(table...)
}
