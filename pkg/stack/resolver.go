package stack

import (
	"os"
	"path/filepath"

	"github.com/orgforge/orgforge/pkg/async"
	"github.com/orgforge/orgforge/pkg/core"
	"gopkg.in/yaml.v3"
)

const OutputsFileName = "outputs.yaml"

// Resolver reads the named outputs a previously-applied stack exported.
// Resolved bundles are cached; a stack's outputs do not change within one
// invocation.
type Resolver struct {
	OutDir string

	cache async.ConcurrentMap[string, *Outputs]
}

func NewResolver(outDir string) *Resolver {
	return &Resolver{OutDir: outDir}
}

// Resolve returns the output bundle of the named stack, or
// *core.ReferenceNotFoundError when the stack has never been applied.
func (r *Resolver) Resolve(stackName string) (*Outputs, error) {
	if cached, ok := r.cache.Get(stackName); ok {
		return cached, nil
	}

	fpath := filepath.Join(r.OutDir, stackName, OutputsFileName)
	content, err := os.ReadFile(fpath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &core.ReferenceNotFoundError{Stack: stackName}
		}
		return nil, core.WrapErrf(err, "reading outputs for stack %s", stackName)
	}

	outputs := &Outputs{}
	if err := yaml.Unmarshal(content, outputs); err != nil {
		return nil, core.WrapErrf(err, "parsing outputs for stack %s", stackName)
	}
	r.cache.Set(stackName, outputs)
	return outputs, nil
}

// GetOutput looks up a single named entry across the bundle's maps,
// mirroring the engine's named-output lookup.
func (o *Outputs) GetOutput(key string) (Entry, error) {
	for _, table := range []map[string]Entry{o.OrganizationalUnits, o.Accounts, o.Roles, o.Policies} {
		if entry, ok := table[key]; ok {
			return entry, nil
		}
	}
	if o.Organization != nil && key == o.Organization.Name {
		return *o.Organization, nil
	}
	return Entry{}, &core.ReferenceNotFoundError{Stack: o.Stack, Key: key}
}
