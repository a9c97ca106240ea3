package graph

import (
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

type (
	KvIterator[K comparable] interface {
		forEach(map[K]map[K]graph.Edge[K], func(K, map[K]graph.Edge[K]))
	}

	kvIteratorStable[K comparable] struct {
		// isLess is a function suitable for use in [sort.Slice].
		isLess func(K, K) bool
	}

	vertexAndNeighbors[K comparable] struct {
		key       K
		neighbors map[K]graph.Edge[K]
	}
)

var (
	stringIterator = kvIteratorStable[string]{
		isLess: func(k1 string, k2 string) bool {
			return k1 < k2
		},
	}
)

// StableTopologicalSort mirrors [graph.TopologicalSort], but iterates the
// predecessor map in a deterministic order so repeated runs over the same
// graph produce the same sequence.
func StableTopologicalSort[K comparable, T any](g graph.Graph[K, T], iterator KvIterator[K]) ([]K, error) {
	if !g.Traits().IsDirected {
		return nil, fmt.Errorf("topological sort cannot be computed on undirected graph")
	}

	predecessorMap, err := g.PredecessorMap()
	if err != nil {
		return nil, fmt.Errorf("failed to get predecessor map: %w", err)
	}

	queue := make([]K, 0)

	iterator.forEach(predecessorMap, func(vertex K, predecessors map[K]graph.Edge[K]) {
		if len(predecessors) == 0 {
			queue = append(queue, vertex)
		}
	})

	order := make([]K, 0, len(predecessorMap))
	visited := make(map[K]struct{})

	for len(queue) > 0 {
		currentVertex := queue[0]
		queue = queue[1:]

		if _, ok := visited[currentVertex]; ok {
			continue
		}

		order = append(order, currentVertex)
		visited[currentVertex] = struct{}{}

		frontier := make([]K, 0)
		iterator.forEach(predecessorMap, func(vertex K, predecessors map[K]graph.Edge[K]) {
			if _, ok := predecessors[currentVertex]; !ok {
				return
			}
			delete(predecessors, currentVertex)
			if len(predecessors) == 0 {
				frontier = append(frontier, vertex)
			}
		})
		queue = append(queue, frontier...)
	}

	if len(order) != len(predecessorMap) {
		return nil, errors.New("topological sort cannot be computed on graph with cycles")
	}

	return order, nil
}

func (it kvIteratorStable[K]) forEach(m map[K]map[K]graph.Edge[K], f func(K, map[K]graph.Edge[K])) {
	sorted := make([]vertexAndNeighbors[K], 0, len(m))
	for key, neighbors := range m {
		sorted = append(sorted, vertexAndNeighbors[K]{key: key, neighbors: neighbors})
	}
	sort.Slice(sorted, func(i, j int) bool { return it.isLess(sorted[i].key, sorted[j].key) })
	for _, entry := range sorted {
		f(entry.key, entry.neighbors)
	}
}
