package config

import "fmt"

// Environment scopes a record to one of the deployable environments. The
// special value "all" makes a record visible to every environment stack.
type Environment string

const (
	EnvironmentProd     Environment = "prod"
	EnvironmentStaging  Environment = "staging"
	EnvironmentDev      Environment = "dev"
	EnvironmentQa       Environment = "qa"
	EnvironmentSandbox1 Environment = "sandbox1"
	EnvironmentSandbox2 Environment = "sandbox2"
	EnvironmentAll      Environment = "all"
)

var knownEnvironments = map[Environment]struct{}{
	EnvironmentProd:     {},
	EnvironmentStaging:  {},
	EnvironmentDev:      {},
	EnvironmentQa:       {},
	EnvironmentSandbox1: {},
	EnvironmentSandbox2: {},
	EnvironmentAll:      {},
}

func (e Environment) Validate() error {
	if _, ok := knownEnvironments[e]; !ok {
		return fmt.Errorf("unknown environment %q", string(e))
	}
	return nil
}

// Matches reports whether a record tagged with e belongs to the given
// environment stack.
func (e Environment) Matches(stackEnv Environment) bool {
	return e == stackEnv || e == EnvironmentAll
}

// StackEnvironments lists the environments a stack can be synthesized for,
// which excludes the "all" pseudo-environment.
func StackEnvironments() []Environment {
	return []Environment{
		EnvironmentProd,
		EnvironmentStaging,
		EnvironmentDev,
		EnvironmentQa,
		EnvironmentSandbox1,
		EnvironmentSandbox2,
	}
}
