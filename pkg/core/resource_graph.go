package core

import (
	"reflect"

	"github.com/orgforge/orgforge/pkg/graph"
	"go.uber.org/zap"
)

type (
	// ResourceGraph is the dependency graph a stack declares for the
	// provisioning engine. An edge source -> dest means source depends on
	// dest (dest must be created first).
	ResourceGraph struct {
		underlying *graph.Directed[node]
	}

	Dependency struct {
		Source      Resource
		Destination Resource
	}

	// node adapts a Resource to the string-keyed graph wrapper.
	node struct {
		Resource
	}
)

func (n node) Id() string {
	return n.Resource.Id().String()
}

func NewResourceGraph() *ResourceGraph {
	return &ResourceGraph{
		underlying: graph.NewDirected[node](),
	}
}

// AddResource is a no-op when a resource with the same id is already
// declared, which keeps re-declaration idempotent.
func (rg *ResourceGraph) AddResource(resource Resource) {
	if rg.GetResource(resource.Id()) == nil {
		rg.underlying.AddVertex(node{resource})
		zap.S().Debugf("adding resource: %s", resource.Id())
	}
}

func (rg *ResourceGraph) AddDependency(source Resource, dest Resource) {
	for _, res := range []Resource{source, dest} {
		rg.AddResource(res)
	}
	rg.underlying.AddEdge(source.Id().String(), dest.Id().String())
	zap.S().Debugf("adding %s -> %s", source.Id(), dest.Id())
}

func (rg *ResourceGraph) GetResource(id ResourceId) Resource {
	return rg.underlying.GetVertex(id.String()).Resource
}

// GetResource returns the resource with the given id as its concrete type.
func GetResource[T Resource](rg *ResourceGraph, id ResourceId) (resource T, found bool) {
	res := rg.GetResource(id)
	if res == nil {
		return
	}
	resource, found = res.(T)
	return
}

func (rg *ResourceGraph) ListResources() []Resource {
	nodes := rg.underlying.GetAllVertices()
	resources := make([]Resource, len(nodes))
	for i, n := range nodes {
		resources[i] = n.Resource
	}
	return resources
}

// ListResourcesOfType collects every resource of concrete type T, in
// deterministic id order.
func ListResourcesOfType[T Resource](rg *ResourceGraph) []T {
	var result []T
	for _, res := range rg.ListResources() {
		if typed, ok := res.(T); ok {
			result = append(result, typed)
		}
	}
	return result
}

func (rg *ResourceGraph) ListDependencies() []Dependency {
	edges := rg.underlying.GetAllEdges()
	deps := make([]Dependency, len(edges))
	for i, e := range edges {
		deps[i] = Dependency{Source: e.Source.Resource, Destination: e.Destination.Resource}
	}
	return deps
}

func (rg *ResourceGraph) GetDependency(source ResourceId, dest ResourceId) *Dependency {
	e := rg.underlying.GetEdge(source.String(), dest.String())
	if e == nil {
		return nil
	}
	return &Dependency{Source: e.Source.Resource, Destination: e.Destination.Resource}
}

func (rg *ResourceGraph) GetDownstreamResources(source Resource) []Resource {
	return stripNodes(rg.underlying.OutgoingVertices(node{source}))
}

func (rg *ResourceGraph) GetUpstreamResources(dest Resource) []Resource {
	return stripNodes(rg.underlying.IncomingVertices(node{dest}))
}

func stripNodes(nodes []node) []Resource {
	resources := make([]Resource, len(nodes))
	for i, n := range nodes {
		resources[i] = n.Resource
	}
	return resources
}

// VertexIdsInTopologicalOrder lists ids so that every resource appears
// before anything it depends on. Reverse it for creation order.
func (rg *ResourceGraph) VertexIdsInTopologicalOrder() ([]ResourceId, error) {
	raw, err := rg.underlying.VertexIdsInTopologicalOrder()
	if err != nil {
		return nil, err
	}
	ids := make([]ResourceId, len(raw))
	for i, s := range raw {
		id, err := ParseResourceId(s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// AddDependenciesReflect inspects the fields of the resource and adds a
// dependency for each direct reference to another resource, including
// references held through [IaCValue], slices and maps. Unexported fields
// and fields tagged `dependency:"ignore"` are skipped.
func (rg *ResourceGraph) AddDependenciesReflect(source Resource) {
	rg.AddResource(source)

	sourceValue := reflect.ValueOf(source)
	sourceType := sourceValue.Type()
	if sourceType.Kind() == reflect.Pointer {
		sourceValue = sourceValue.Elem()
		sourceType = sourceType.Elem()
	}
	for i := 0; i < sourceType.NumField(); i++ {
		if sourceType.Field(i).Tag.Get("dependency") == "ignore" {
			continue
		}
		fieldValue := sourceValue.Field(i)
		switch fieldValue.Kind() {
		case reflect.Slice, reflect.Array:
			for elemIdx := 0; elemIdx < fieldValue.Len(); elemIdx++ {
				rg.addDependencyReflect(source, fieldValue.Index(elemIdx))
			}

		case reflect.Map:
			for iter := fieldValue.MapRange(); iter.Next(); {
				rg.addDependencyReflect(source, iter.Value())
			}

		default:
			rg.addDependencyReflect(source, fieldValue)
		}
	}
}

func (rg *ResourceGraph) addDependencyReflect(source Resource, targetValue reflect.Value) {
	if targetValue.Kind() == reflect.Pointer && targetValue.IsNil() {
		return
	}
	if !targetValue.CanInterface() {
		return
	}
	switch target := targetValue.Interface().(type) {
	case Resource:
		rg.AddDependency(source, target)
	case IaCValue:
		if target.Resource != nil {
			rg.AddDependency(source, target.Resource)
		}
	case *IaCValue:
		if target != nil && target.Resource != nil {
			rg.AddDependency(source, target.Resource)
		}
	}
}
