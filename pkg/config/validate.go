package config

import (
	"fmt"

	"github.com/orgforge/orgforge/pkg/multierr"
)

// Validate checks the tagged-union and cross-reference invariants of the
// configuration tables at load time, so wiring never has to shape-check.
func (cfg *OrgConfig) Validate() error {
	var errs multierr.Error

	if cfg.AppName == "" {
		errs.Append(fmt.Errorf("app name is required"))
	}

	ouNames := cfg.OUNames()

	for _, account := range cfg.Accounts {
		if account.Email == "" {
			errs.Append(fmt.Errorf("account %q: email is required", account.Name))
		}
		if _, ok := ouNames[account.Parent]; !ok {
			errs.Append(fmt.Errorf("account %q: parent %q is not a declared organizational unit", account.Name, account.Parent))
		}
	}
	seenEmails := make(map[string]string)
	for _, account := range cfg.Accounts {
		if prev, ok := seenEmails[account.Email]; ok {
			errs.Append(fmt.Errorf("accounts %q and %q share email %q", prev, account.Name, account.Email))
			continue
		}
		seenEmails[account.Email] = account.Name
	}

	for _, policy := range cfg.Policies {
		switch policy.Kind {
		case PolicyKindIam:
			if policy.Target != "" {
				errs.Append(fmt.Errorf("policy %q: target is not allowed for iam policies", policy.Name))
			}

		case PolicyKindServiceControl, PolicyKindTag:
			if policy.Target == "" {
				errs.Append(fmt.Errorf("policy %q: target is required for %s policies", policy.Name, policy.Kind))
			}

		default:
			errs.Append(fmt.Errorf("policy %q: unsupported kind %q", policy.Name, policy.Kind))
		}
		if len(policy.Document) == 0 {
			errs.Append(fmt.Errorf("policy %q: document is required", policy.Name))
		}
		if policy.Environment != "" {
			if err := policy.Environment.Validate(); err != nil {
				errs.Append(fmt.Errorf("policy %q: %w", policy.Name, err))
			}
		}
	}

	for env := range cfg.Roles {
		if err := env.Validate(); err != nil {
			errs.Append(fmt.Errorf("roles table: %w", err))
		}
	}

	for _, group := range cfg.Groups {
		if group.Environment != "" {
			if err := group.Environment.Validate(); err != nil {
				errs.Append(fmt.Errorf("group %q: %w", group.Name, err))
			}
		}
	}

	seenUsers := make(map[string]struct{})
	for _, user := range cfg.Users {
		if _, ok := seenUsers[user.Username]; ok {
			errs.Append(fmt.Errorf("duplicate user %q", user.Username))
		}
		seenUsers[user.Username] = struct{}{}
		if user.Environment != "" {
			if err := user.Environment.Validate(); err != nil {
				errs.Append(fmt.Errorf("user %q: %w", user.Username, err))
			}
		}
	}

	return errs.ErrOrNil()
}
