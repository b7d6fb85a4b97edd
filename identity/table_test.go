package identity

import (
	"testing"

	"github.com/jaid-monwar/tree-sitter-codeviews/parsetree"
	"github.com/stretchr/testify/assert"
)

// fakeNode is a minimal parsetree.Node for exercising the identity table
// without a real tree-sitter grammar.
type fakeNode struct {
	kind     string
	start    parsetree.Point
	end      parsetree.Point
	named    bool
	children []*fakeNode
}

func (f *fakeNode) Kind() string               { return f.kind }
func (f *fakeNode) Start() parsetree.Point      { return f.start }
func (f *fakeNode) End() parsetree.Point        { return f.end }
func (f *fakeNode) StartByte() uint32           { return 0 }
func (f *fakeNode) EndByte() uint32             { return 0 }
func (f *fakeNode) Text(src []byte) []byte      { return nil }
func (f *fakeNode) Named() bool                 { return f.named }
func (f *fakeNode) ChildCount() int             { return len(f.children) }
func (f *fakeNode) Child(i int) parsetree.Node  { return f.children[i] }
func (f *fakeNode) NamedChildCount() int {
	n := 0
	for _, c := range f.children {
		if c.named {
			n++
		}
	}
	return n
}
func (f *fakeNode) NamedChild(i int) parsetree.Node {
	idx := 0
	for _, c := range f.children {
		if !c.named {
			continue
		}
		if idx == i {
			return c
		}
		idx++
	}
	return nil
}
func (f *fakeNode) FieldChild(name string) parsetree.Node { return nil }
func (f *fakeNode) Parent() parsetree.Node                { return nil }

func pt(row, col uint32) parsetree.Point { return parsetree.Point{Row: row, Column: col} }

func sampleTree() *fakeNode {
	child1 := &fakeNode{kind: "identifier", start: pt(0, 0), end: pt(0, 1), named: true}
	child2 := &fakeNode{kind: "literal", start: pt(0, 2), end: pt(0, 3), named: true}
	unnamed := &fakeNode{kind: "=", start: pt(0, 1), end: pt(0, 2), named: false}
	root := &fakeNode{kind: "assignment", start: pt(0, 0), end: pt(0, 3), named: true, children: []*fakeNode{child1, unnamed, child2}}
	return root
}

func TestBuild_AssignsStableIdsToNamedNodesOnly(t *testing.T) {
	root := sampleTree()
	table := New(1)
	table.Build(root)

	assert.Equal(t, 3, table.Len(), "root + 2 named children, the '=' token is unnamed")

	rootId := table.IdFor(root)
	child1Id := table.IdFor(root.children[0])
	assert.NotEqual(t, rootId, child1Id)
}

func TestIdFor_SameSpanAndKindYieldsSameId(t *testing.T) {
	root := sampleTree()
	table := New(1)
	table.Build(root)

	id1 := table.IdFor(root.children[0])
	id2 := table.IdFor(root.children[0])
	assert.Equal(t, id1, id2)

	equivalent := &fakeNode{kind: "identifier", start: pt(0, 0), end: pt(0, 1), named: true}
	assert.Equal(t, id1, table.IdFor(equivalent), "identical (start,end,kind) must map to the same NodeId (I1)")
}

func TestIdFor_MintsOnTheFlyForUnseenNode(t *testing.T) {
	table := New(1)
	n := &fakeNode{kind: "identifier", start: pt(5, 0), end: pt(5, 1), named: true}

	id := table.IdFor(n)
	assert.Equal(t, 1, table.Len())
	node, ok := table.Node(id)
	assert.True(t, ok)
	assert.Equal(t, n, node)
}

func TestNewSynthetic_DrawsFromSharedCounter(t *testing.T) {
	root := sampleTree()
	table := New(1)
	table.Build(root)

	before := table.Len()
	synthId := table.NewSynthetic("loop_header")

	_, ok := table.Node(synthId)
	assert.False(t, ok, "a synthetic id has no backing parse node")
	assert.Equal(t, before+1, table.Len())

	another := table.NewSynthetic("loop_header")
	assert.NotEqual(t, synthId, another, "each NewSynthetic call mints a fresh id, even for the same purpose string")
}

func TestString_FormatsWithNPrefix(t *testing.T) {
	assert.Equal(t, "n1", NodeId(1).String())
}
