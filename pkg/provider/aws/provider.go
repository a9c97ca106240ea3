// Package aws declares the AWS organization and IAM topology as resource
// graphs for the external provisioning engine. It only ever constructs
// resources and attachment edges; scheduling, diffing and retries are the
// engine's problem.
package aws

import (
	"github.com/orgforge/orgforge/pkg/core"
	"github.com/orgforge/orgforge/pkg/provider/aws/resources"
)

// StackPlugin builds one stack's resource graph from the configuration
// tables. Implementations must be deterministic: identical config yields an
// identical graph, which is what makes re-applies idempotent.
type StackPlugin interface {
	Name() string
	Translate(dag *core.ResourceGraph) error
}

func stackTags(managedBy string, environment string) map[string]string {
	return map[string]string{
		resources.TagEnvironment: environment,
		resources.TagManagedBy:   managedBy,
	}
}
