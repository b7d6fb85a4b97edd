package compose

import (
	"testing"

	"github.com/jaid-monwar/tree-sitter-codeviews/identity"
	"github.com/jaid-monwar/tree-sitter-codeviews/schema"
	"github.com/stretchr/testify/assert"
)

func TestCompose_NodeUnionAndLabelPrecedence(t *testing.T) {
	id := identity.NodeId(7)
	ast := &schema.Graph{Nodes: []schema.Node{
		{ID: id, ViewTags: map[schema.View]bool{schema.AST: true}, Kind: "identifier", Label: "x"},
	}}
	cfg := &schema.Graph{Nodes: []schema.Node{
		{ID: id, ViewTags: map[schema.View]bool{schema.CFG: true}, Kind: "stmt", Label: "x = 1"},
	}}

	out := Compose(ast, cfg)

	assert.Len(t, out.Nodes, 1)
	n := out.Nodes[0]
	assert.True(t, n.ViewTags[schema.AST])
	assert.True(t, n.ViewTags[schema.CFG])
	assert.Equal(t, "x = 1", n.Label, "CFG label wins over AST per precedence")
	assert.Equal(t, "stmt", n.Kind)
}

// TestCompose_EdgeUnionPreservesCount exercises P7: composing two views that
// each contribute edges never drops or invents an edge.
func TestCompose_EdgeUnionPreservesCount(t *testing.T) {
	n1, n2, n3 := identity.NodeId(1), identity.NodeId(2), identity.NodeId(3)
	ast := &schema.Graph{
		Nodes: []schema.Node{{ID: n1}, {ID: n2}},
		Edges: []schema.Edge{{Source: n1, Target: n2, ViewTag: schema.AST, Kind: "child"}},
	}
	cfg := &schema.Graph{
		Nodes: []schema.Node{{ID: n1}, {ID: n2}, {ID: n3}},
		Edges: []schema.Edge{
			{Source: n1, Target: n2, ViewTag: schema.CFG, Kind: "seq"},
			{Source: n2, Target: n3, ViewTag: schema.CFG, Kind: "seq"},
		},
	}

	out := Compose(ast, cfg)

	assert.Len(t, out.Edges, 3)
	assert.Len(t, out.Nodes, 3)
}

// TestCompose_DuplicateEdgeCollapses: composing the same view twice (e.g. a
// caller re-running Compose with overlapping inputs) must not double-count
// an identical (source, target, view, kind) edge.
func TestCompose_DuplicateEdgeCollapses(t *testing.T) {
	n1, n2 := identity.NodeId(1), identity.NodeId(2)
	g := &schema.Graph{
		Nodes: []schema.Node{{ID: n1}, {ID: n2}},
		Edges: []schema.Edge{{Source: n1, Target: n2, ViewTag: schema.CFG, Kind: "seq"}},
	}

	out := Compose(g, g)

	assert.Len(t, out.Edges, 1)
}

func TestCompose_ExtraNamespacedByView(t *testing.T) {
	id := identity.NodeId(1)
	cfg := &schema.Graph{Nodes: []schema.Node{
		{ID: id, ViewTags: map[schema.View]bool{schema.CFG: true}, Extra: map[string]string{"diagnostic.0": "bad goto"}},
	}}

	out := Compose(cfg)

	assert.Equal(t, "bad goto", out.Nodes[0].Extra["cfg:diagnostic.0"])
}

func TestCompose_Empty(t *testing.T) {
	out := Compose()
	assert.Empty(t, out.Nodes)
	assert.Empty(t, out.Edges)
}
