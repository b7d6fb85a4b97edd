package astview

import (
	"testing"

	"github.com/jaid-monwar/tree-sitter-codeviews/catalog"
	"github.com/jaid-monwar/tree-sitter-codeviews/identity"
	"github.com/jaid-monwar/tree-sitter-codeviews/parsetree"
	"github.com/jaid-monwar/tree-sitter-codeviews/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAST(t *testing.T, src string) (*schema.Graph, *identity.Table) {
	t.Helper()
	parser := parsetree.NewSitterParser(catalog.Go.GetLanguage())
	tree, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	root := tree.Root()

	table := identity.New(1)
	table.Build(root)
	g := NewBuilder(table).Build(root, []byte(src))
	return g, table
}

// TestBuild_OneNodePerNamedNode covers P9-adjacent coverage: the AST graph
// has exactly as many nodes as the identity table assigned ids for.
func TestBuild_OneNodePerNamedNode(t *testing.T) {
	src := "package p\n\nfunc f() {\n\tx := 1\n\t_ = x\n}\n"
	g, table := buildAST(t, src)
	assert.Equal(t, table.Len(), len(g.Nodes))
}

// TestBuild_EveryEdgeIsChildKind covers the AST view's single edge kind.
func TestBuild_EveryEdgeIsChildKind(t *testing.T) {
	src := "package p\n\nfunc f() {}\n"
	g, _ := buildAST(t, src)
	require.NotEmpty(t, g.Edges)
	for _, e := range g.Edges {
		assert.Equal(t, schema.AST, e.ViewTag)
		assert.Equal(t, ChildEdgeKind, e.Kind)
	}
}

// TestBlacklist_RemovesKindAndReconnects checks that blacklisting a kind
// drops every node of that kind and every edge touching one. Identifiers are
// leaves, so no edge needs reconnecting here; P9 reachability is not checked.
func TestBlacklist_RemovesKindAndReconnects(t *testing.T) {
	src := "package p\n\nfunc f() {\n\tx := 1\n\t_ = x\n}\n"
	g, _ := buildAST(t, src)

	var identifierId identity.NodeId
	for _, n := range g.Nodes {
		if n.Kind == "identifier" && n.Label == "x" {
			identifierId = n.ID
			break
		}
	}
	require.NotZero(t, identifierId)

	out := Blacklist(g, catalog.KindSet{"identifier": true})
	for _, n := range out.Nodes {
		assert.NotEqual(t, "identifier", n.Kind)
	}
	for _, e := range out.Edges {
		assert.NotEqual(t, identifierId, e.Source)
		assert.NotEqual(t, identifierId, e.Target)
	}
}

// TestBlacklist_EmptySetIsNoop covers the trivial case.
func TestBlacklist_EmptySetIsNoop(t *testing.T) {
	src := "package p\n\nfunc f() {}\n"
	g, _ := buildAST(t, src)
	out := Blacklist(g, nil)
	assert.Same(t, g, out)
}

// TestCollapse_MergesSameLabelLeaves covers P8: repeated identifier leaves
// with the same label collapse to the node with the minimum NodeId, and
// collapsing twice (idempotence) finds nothing further to merge.
func TestCollapse_MergesSameLabelLeaves(t *testing.T) {
	src := "package p\n\nfunc f() {\n\tx := 1\n\t_ = x\n\t_ = x\n}\n"
	g, _ := buildAST(t, src)

	collapsed := Collapse(g)
	count := 0
	for _, n := range collapsed.Nodes {
		if n.Kind == "identifier" && n.Label == "x" {
			count++
		}
	}
	assert.Equal(t, 1, count, "all 'x' leaves should collapse to one representative")

	again := Collapse(collapsed)
	assert.Equal(t, len(collapsed.Nodes), len(again.Nodes), "collapse is idempotent")
}
