package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testResource struct {
	Name     string
	Upstream Resource
	Ref      IaCValue
	List     []Resource
	Map      map[string]IaCValue
	Ignored  Resource `dependency:"ignore"`
}

func (tr *testResource) Id() ResourceId {
	return ResourceId{Provider: "test", Type: "resource", Name: tr.Name}
}

func Test_AddResourceIsIdempotent(t *testing.T) {
	assert := assert.New(t)
	dag := NewResourceGraph()
	res := &testResource{Name: "a"}

	dag.AddResource(res)
	dag.AddResource(res)

	assert.Len(dag.ListResources(), 1)
	assert.Same(res, dag.GetResource(res.Id()))
}

func Test_AddDependenciesReflect(t *testing.T) {
	assert := assert.New(t)
	dag := NewResourceGraph()

	direct := &testResource{Name: "direct"}
	viaValue := &testResource{Name: "via-value"}
	inList := &testResource{Name: "in-list"}
	inMap := &testResource{Name: "in-map"}
	ignored := &testResource{Name: "ignored"}

	source := &testResource{
		Name:     "source",
		Upstream: direct,
		Ref:      PropertyOf(viaValue, ID_PROPERTY),
		List:     []Resource{inList},
		Map:      map[string]IaCValue{"key": PropertyOf(inMap, ARN_PROPERTY)},
		Ignored:  ignored,
	}
	dag.AddDependenciesReflect(source)

	for _, dest := range []Resource{direct, viaValue, inList, inMap} {
		assert.NotNilf(dag.GetDependency(source.Id(), dest.Id()), "expected %s -> %s", source.Id(), dest.Id())
	}
	assert.Nil(dag.GetDependency(source.Id(), ignored.Id()))
	assert.Nil(dag.GetResource(ignored.Id()))
}

func Test_LiteralValuesAddNoDependencies(t *testing.T) {
	assert := assert.New(t)
	dag := NewResourceGraph()
	source := &testResource{
		Name: "source",
		Ref:  LiteralValue("arn:aws:iam::aws:policy/ReadOnlyAccess"),
	}
	dag.AddDependenciesReflect(source)

	assert.Len(dag.ListResources(), 1)
	assert.Empty(dag.ListDependencies())
}

func Test_VertexIdsInTopologicalOrder(t *testing.T) {
	assert := assert.New(t)
	dag := NewResourceGraph()
	base := &testResource{Name: "base"}
	mid := &testResource{Name: "mid", Upstream: base}
	top := &testResource{Name: "top", Upstream: mid}
	dag.AddDependenciesReflect(mid)
	dag.AddDependenciesReflect(top)

	ids, err := dag.VertexIdsInTopologicalOrder()
	if !assert.NoError(err) {
		return
	}
	// dependents first; creation order is the reverse
	assert.Equal([]ResourceId{top.Id(), mid.Id(), base.Id()}, ids)
}

func Test_GetDownstreamAndUpstreamResources(t *testing.T) {
	assert := assert.New(t)
	dag := NewResourceGraph()
	base := &testResource{Name: "base"}
	mid := &testResource{Name: "mid", Upstream: base}
	dag.AddDependenciesReflect(mid)

	downstream := dag.GetDownstreamResources(mid)
	if assert.Len(downstream, 1) {
		assert.Same(base, downstream[0])
	}
	upstream := dag.GetUpstreamResources(base)
	if assert.Len(upstream, 1) {
		assert.Same(mid, upstream[0])
	}
}

func Test_ParseResourceId(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    ResourceId
		wantErr bool
	}{
		{name: "valid", input: "aws:iam_role:dev-limited-role", want: ResourceId{Provider: "aws", Type: "iam_role", Name: "dev-limited-role"}},
		{name: "name with colons", input: "aws:iam_policy:arn:like:name", want: ResourceId{Provider: "aws", Type: "iam_policy", Name: "arn:like:name"}},
		{name: "missing segment", input: "aws:iam_role", wantErr: true},
		{name: "empty segment", input: "aws::name", wantErr: true},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			id, err := ParseResourceId(tt.input)
			if tt.wantErr {
				assert.Error(err)
				return
			}
			if assert.NoError(err) {
				assert.Equal(tt.want, id)
				assert.Equal(tt.input, id.String())
			}
		})
	}
}

func Test_IaCValueString(t *testing.T) {
	assert := assert.New(t)

	literal := LiteralValue("arn:aws:iam::aws:policy/ReadOnlyAccess")
	assert.Equal("arn:aws:iam::aws:policy/ReadOnlyAccess", literal.String())
	assert.False(literal.IsZero())

	ref := PropertyOf(&testResource{Name: "a"}, ARN_PROPERTY)
	assert.Equal("${test:resource:a#arn}", ref.String())

	assert.True(IaCValue{}.IsZero())
}
