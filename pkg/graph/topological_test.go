package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type vertex string

func (v vertex) Id() string { return string(v) }

func Test_VertexIdsInTopologicalOrder(t *testing.T) {
	assert := assert.New(t)
	d := NewDirected[vertex]()
	// diamond: a depends on b and c, which both depend on d
	d.AddVerticesAndEdge("a", "b")
	d.AddVerticesAndEdge("a", "c")
	d.AddVerticesAndEdge("b", "d")
	d.AddVerticesAndEdge("c", "d")

	order, err := d.VertexIdsInTopologicalOrder()
	if !assert.NoError(err) {
		return
	}
	assert.Len(order, 4)

	index := make(map[string]int)
	for i, id := range order {
		index[id] = i
	}
	assert.Less(index["a"], index["b"])
	assert.Less(index["a"], index["c"])
	assert.Less(index["b"], index["d"])
	assert.Less(index["c"], index["d"])
}

func Test_TopologicalOrderIsStable(t *testing.T) {
	assert := assert.New(t)

	build := func() *Directed[vertex] {
		d := NewDirected[vertex]()
		for _, v := range []vertex{"e", "c", "a", "d", "b"} {
			d.AddVertex(v)
		}
		d.AddEdge("a", "b")
		d.AddEdge("c", "d")
		return d
	}

	first, err := build().VertexIdsInTopologicalOrder()
	if !assert.NoError(err) {
		return
	}
	for i := 0; i < 10; i++ {
		next, err := build().VertexIdsInTopologicalOrder()
		if !assert.NoError(err) {
			return
		}
		assert.Equal(first, next)
	}
}

func Test_TopologicalOrderRejectsCycles(t *testing.T) {
	assert := assert.New(t)
	d := NewDirected[vertex]()
	d.AddVerticesAndEdge("a", "b")
	d.AddVerticesAndEdge("b", "a")

	_, err := d.VertexIdsInTopologicalOrder()
	assert.Error(err)
}

func Test_DuplicateVerticesAndEdgesAreIdempotent(t *testing.T) {
	assert := assert.New(t)
	d := NewDirected[vertex]()
	d.AddVertex("a")
	d.AddVertex("a")
	d.AddVerticesAndEdge("a", "b")
	d.AddVerticesAndEdge("a", "b")

	assert.Len(d.GetAllVertices(), 2)
	assert.Len(d.GetAllEdges(), 1)
}

func Test_GetEdge(t *testing.T) {
	assert := assert.New(t)
	d := NewDirected[vertex]()
	d.AddVerticesAndEdge("a", "b")

	edge := d.GetEdge("a", "b")
	if assert.NotNil(edge) {
		assert.Equal(vertex("a"), edge.Source)
		assert.Equal(vertex("b"), edge.Destination)
	}
	assert.Nil(d.GetEdge("b", "a"))
	assert.Nil(d.GetEdge("a", "ghost"))
}

func Test_IncomingOutgoingVertices(t *testing.T) {
	assert := assert.New(t)
	d := NewDirected[vertex]()
	d.AddVerticesAndEdge("a", "b")
	d.AddVerticesAndEdge("a", "c")
	d.AddVerticesAndEdge("c", "b")

	assert.Equal([]vertex{"b", "c"}, d.OutgoingVertices("a"))
	assert.Equal([]vertex{"a", "c"}, d.IncomingVertices("b"))
}
