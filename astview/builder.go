// Package astview implements the AST View Builder (C5): a projection of the
// named parse tree into the graph schema, plus the two optional transforms
// of spec.md §4.5 (blacklist minimize, name collapse).
package astview

import (
	"github.com/jaid-monwar/tree-sitter-codeviews/identity"
	"github.com/jaid-monwar/tree-sitter-codeviews/parsetree"
	"github.com/jaid-monwar/tree-sitter-codeviews/schema"
)

// ChildEdgeKind is the single edge kind the AST view emits: parent-to-child.
const ChildEdgeKind = "child"

// Builder projects a parse tree into an AST schema.Graph.
type Builder struct {
	table *identity.Table
}

// NewBuilder creates a Builder that mints ids through table (shared with the
// other view builders so node identity stays stable across views, I1).
func NewBuilder(table *identity.Table) *Builder {
	return &Builder{table: table}
}

// Build produces one node per named ParseNode and one ChildEdgeKind edge from
// every named node to each of its named children (spec.md §4.5).
func (b *Builder) Build(root parsetree.Node, src []byte) *schema.Graph {
	g := &schema.Graph{}
	if root == nil {
		return g
	}
	seen := map[identity.NodeId]bool{}
	var walk func(n parsetree.Node)
	walk = func(n parsetree.Node) {
		if n == nil || !n.Named() {
			return
		}
		id := b.table.IdFor(n)
		if !seen[id] {
			seen[id] = true
			g.Nodes = append(g.Nodes, schema.Node{
				ID:       id,
				ViewTags: map[schema.View]bool{schema.AST: true},
				Kind:     n.Kind(),
				Label:    string(n.Text(src)),
				Line:     int(n.Start().Row) + 1,
			})
		}
		for i := 0; i < n.ChildCount(); i++ {
			c := n.Child(i)
			if c == nil || !c.Named() {
				continue
			}
			cid := b.table.IdFor(c)
			g.Edges = append(g.Edges, schema.Edge{Source: id, Target: cid, ViewTag: schema.AST, Kind: ChildEdgeKind})
			walk(c)
		}
	}
	walk(root)
	return g
}
