// Package iac renders a synthesized resource graph into the declaration
// artifacts the provisioning engine consumes: one resources.yaml declaring
// the stack's resources in creation order, and one outputs.yaml carrying the
// stack's exported output bundle.
package iac

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"

	"github.com/alitto/pond"
	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
	"github.com/orgforge/orgforge/pkg/core"
	"github.com/orgforge/orgforge/pkg/multierr"
	"github.com/orgforge/orgforge/pkg/stack"
	"gopkg.in/yaml.v3"
)

const (
	ResourcesFileName = "resources.yaml"

	// FormatVersion is bumped whenever the artifact layout changes in a way
	// the engine has to know about.
	FormatVersion = 1
)

// Emitter writes one stack's artifacts under <OutDir>/<stack>/.
type Emitter struct {
	OutDir  string
	AppName string
}

// document is the engine-facing shape of resources.yaml. Resources is a
// hand-built mapping node so that declaration order (creation order) and
// property order survive marshalling.
type document struct {
	App         string    `yaml:"app"`
	Stack       string    `yaml:"stack"`
	SynthesisId string    `yaml:"synthesis_id"`
	Format      int       `yaml:"format"`
	Resources   yaml.Node `yaml:"resources"`
	Edges       []string  `yaml:"edges,omitempty"`
}

// Emit renders the graph and output bundle and writes both artifact files.
// The graph must be acyclic; a cycle is a synthesis bug, not a config error.
func (e *Emitter) Emit(s stack.Stack, dag *core.ResourceGraph, outputs *stack.Outputs) error {
	doc, err := e.render(s, dag)
	if err != nil {
		return err
	}
	resourcesContent, err := yaml.Marshal(doc)
	if err != nil {
		return core.WrapErrf(err, "marshalling resources for stack %s", s.Name)
	}
	outputsContent, err := yaml.Marshal(outputs)
	if err != nil {
		return core.WrapErrf(err, "marshalling outputs for stack %s", s.Name)
	}

	stackDir := filepath.Join(e.OutDir, s.Name)
	if err := os.MkdirAll(stackDir, 0755); err != nil {
		return core.WrapErrf(err, "creating output directory %s", stackDir)
	}

	files := map[string][]byte{
		ResourcesFileName:     resourcesContent,
		stack.OutputsFileName: outputsContent,
	}

	var (
		mu   sync.Mutex
		errs multierr.Error
	)
	pool := pond.New(len(files), len(files))
	for name, content := range files {
		name, content := name, content
		pool.Submit(func() {
			if err := os.WriteFile(filepath.Join(stackDir, name), content, 0644); err != nil {
				mu.Lock()
				errs.Append(core.WrapErrf(err, "writing %s", name))
				mu.Unlock()
			}
		})
	}
	pool.StopAndWait()
	return errs.ErrOrNil()
}

func (e *Emitter) render(s stack.Stack, dag *core.ResourceGraph) (*document, error) {
	ids, err := dag.VertexIdsInTopologicalOrder()
	if err != nil {
		return nil, core.WrapErrf(err, "ordering resources for stack %s", s.Name)
	}
	// Topological order lists dependents first; the engine wants creation
	// order, so reverse it.
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}

	resourcesNode := &yaml.Node{Kind: yaml.MappingNode}
	for _, id := range ids {
		res := dag.GetResource(id)
		if res == nil {
			return nil, fmt.Errorf("no resource found for id %s", id)
		}
		props, err := propertiesNode(res)
		if err != nil {
			return nil, core.WrapErrf(err, "rendering %s", id)
		}
		resourcesNode.Content = append(resourcesNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: id.String()},
			props,
		)
	}

	deps := dag.ListDependencies()
	edges := make([]string, len(deps))
	for i, dep := range deps {
		edges[i] = fmt.Sprintf("%s -> %s", dep.Source.Id(), dep.Destination.Id())
	}

	return &document{
		App:         e.AppName,
		Stack:       s.Name,
		SynthesisId: uuid.NewString(),
		Format:      FormatVersion,
		Resources:   *resourcesNode,
		Edges:       edges,
	}, nil
}

// propertiesNode flattens a resource's exported fields into a mapping.
// References to other resources render as their ids and deferred values as
// their tokens; the artifact never inlines a referenced resource.
func propertiesNode(res core.Resource) (*yaml.Node, error) {
	value := reflect.ValueOf(res)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	return structNode(value)
}

func structNode(value reflect.Value) (*yaml.Node, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	structType := value.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		fieldValue := value.Field(i)
		if fieldValue.IsZero() {
			continue
		}
		node, err := valueNode(fieldValue)
		if err != nil {
			return nil, err
		}
		if node == nil {
			continue
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: strcase.ToSnake(field.Name)},
			node,
		)
	}
	return mapping, nil
}

func valueNode(value reflect.Value) (*yaml.Node, error) {
	if value.CanInterface() {
		switch v := value.Interface().(type) {
		case core.Resource:
			return scalarNode(v.Id().String())
		case core.IaCValue:
			return scalarNode(v.String())
		case *core.IaCValue:
			if v == nil {
				return nil, nil
			}
			return scalarNode(v.String())
		}
	}

	switch value.Kind() {
	case reflect.Pointer:
		if value.IsNil() {
			return nil, nil
		}
		return valueNode(value.Elem())

	case reflect.Struct:
		return structNode(value)

	case reflect.Slice, reflect.Array:
		sequence := &yaml.Node{Kind: yaml.SequenceNode}
		for i := 0; i < value.Len(); i++ {
			node, err := valueNode(value.Index(i))
			if err != nil {
				return nil, err
			}
			if node != nil {
				sequence.Content = append(sequence.Content, node)
			}
		}
		return sequence, nil

	case reflect.Map:
		keys := make([]string, 0, value.Len())
		byKey := make(map[string]reflect.Value, value.Len())
		for iter := value.MapRange(); iter.Next(); {
			key := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, key)
			byKey[key] = iter.Value()
		}
		sort.Strings(keys)
		mapping := &yaml.Node{Kind: yaml.MappingNode}
		for _, key := range keys {
			node, err := valueNode(byKey[key])
			if err != nil {
				return nil, err
			}
			if node == nil {
				continue
			}
			keyNode, err := scalarNode(key)
			if err != nil {
				return nil, err
			}
			mapping.Content = append(mapping.Content, keyNode, node)
		}
		return mapping, nil

	default:
		return scalarNode(value.Interface())
	}
}

func scalarNode(v any) (*yaml.Node, error) {
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return node, nil
}
