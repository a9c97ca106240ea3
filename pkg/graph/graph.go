package graph

import (
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	ourFault = "This is an orgforge bug."
)

type (
	// Directed wraps the underlying graph library with an API scoped to what
	// resource graph construction needs. Duplicate vertices and edges are
	// tolerated so that re-declaring the same resource is idempotent.
	Directed[V Identifiable] struct {
		underlying graph.Graph[string, V]
	}

	Edge[V Identifiable] struct {
		Source      V
		Destination V
	}

	Identifiable interface {
		Id() string
	}
)

func NewDirected[V Identifiable]() *Directed[V] {
	return &Directed[V]{
		underlying: graph.New(V.Id, graph.Directed(), graph.Rooted()),
	}
}

func (d *Directed[V]) AddVertex(v V) {
	err := d.underlying.AddVertex(v) // duplicates are fine
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		zap.S().With(zap.Error(err)).Errorf(`Unexpected error while adding %s. %s`, v, ourFault)
	}
}

func (d *Directed[V]) AddEdge(source string, dest string) {
	err := d.underlying.AddEdge(source, dest)
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		zap.S().With(zap.Error(err)).Errorf(
			`Unexpected error while adding edge between "%v" and "%v". %s`, source, dest, ourFault)
	}
}

func (d *Directed[V]) AddVerticesAndEdge(source V, dest V) {
	d.AddVertex(source)
	d.AddVertex(dest)
	d.AddEdge(source.Id(), dest.Id())
}

func (d *Directed[V]) GetVertex(id string) V {
	v, err := d.underlying.Vertex(id)
	if err != nil && !errors.Is(err, graph.ErrVertexNotFound) {
		zap.S().With(zap.Error(err)).Errorf(`Unexpected error while getting vertex "%v". %s`, id, ourFault)
	}
	return v
}

func (d *Directed[V]) GetEdge(source string, dest string) *Edge[V] {
	e, err := d.underlying.Edge(source, dest)
	if err != nil {
		if !errors.Is(err, graph.ErrEdgeNotFound) && !errors.Is(err, graph.ErrVertexNotFound) {
			zap.S().With(zap.Error(err)).Errorf(`Unexpected error while getting edge "%v" -> "%v". %s`, source, dest, ourFault)
		}
		return nil
	}
	return &Edge[V]{
		Source:      e.Source,
		Destination: e.Target,
	}
}

func (d *Directed[V]) GetAllVertices() []V {
	predecessors, err := d.underlying.PredecessorMap()
	if err != nil {
		// The in-memory store never errors; the signature only allows for it
		// because stores are pluggable.
		panic(err)
	}
	ids := make([]string, 0, len(predecessors))
	for id := range predecessors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	vertices := make([]V, 0, len(ids))
	for _, id := range ids {
		if v, err := d.underlying.Vertex(id); err == nil {
			vertices = append(vertices, v)
		}
	}
	return vertices
}

func (d *Directed[V]) GetAllEdges() []Edge[V] {
	adjacency, err := d.underlying.AdjacencyMap()
	if err != nil {
		panic(err)
	}
	sources := make([]string, 0, len(adjacency))
	for id := range adjacency {
		sources = append(sources, id)
	}
	sort.Strings(sources)

	var edges []Edge[V]
	for _, source := range sources {
		targets := make([]string, 0, len(adjacency[source]))
		for t := range adjacency[source] {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		for _, target := range targets {
			edges = append(edges, Edge[V]{
				Source:      d.GetVertex(source),
				Destination: d.GetVertex(target),
			})
		}
	}
	return edges
}

func (d *Directed[V]) OutgoingVertices(from V) []V {
	return d.neighbors(from.Id(), false)
}

func (d *Directed[V]) IncomingVertices(to V) []V {
	return d.neighbors(to.Id(), true)
}

func (d *Directed[V]) neighbors(id string, incoming bool) []V {
	var m map[string]map[string]graph.Edge[string]
	var err error
	if incoming {
		m, err = d.underlying.PredecessorMap()
	} else {
		m, err = d.underlying.AdjacencyMap()
	}
	if err != nil {
		panic(err)
	}
	ids := make([]string, 0, len(m[id]))
	for neighbor := range m[id] {
		ids = append(ids, neighbor)
	}
	sort.Strings(ids)
	vertices := make([]V, 0, len(ids))
	for _, neighbor := range ids {
		if v, err := d.underlying.Vertex(neighbor); err == nil {
			vertices = append(vertices, v)
		}
	}
	return vertices
}

// VertexIdsInTopologicalOrder sorts so that a vertex always precedes the
// vertices that depend on it, stable across runs.
func (d *Directed[V]) VertexIdsInTopologicalOrder() ([]string, error) {
	return StableTopologicalSort(d.underlying, stringIterator)
}
