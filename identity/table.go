// Package identity implements the Node Identity Table (C2): it assigns a
// stable integer NodeId to every named parse-tree node so that AST, CFG and
// DFG views can share one node namespace (spec.md I1).
package identity

import (
	"fmt"

	"github.com/jaid-monwar/tree-sitter-codeviews/parsetree"
)

// NodeId is a stable integer identity for a named ParseNode.
type NodeId int

// key identifies a named node by its syntactic span and kind, per spec.md §3.
type key struct {
	start parsetree.Point
	end   parsetree.Point
	kind  string
}

// Table assigns ids in pre-order over named nodes. The starting counter value
// is arbitrary but consistent within one run (spec.md §4.2).
type Table struct {
	next  int
	index map[key]NodeId
	nodes map[NodeId]parsetree.Node
	order []NodeId
}

// New creates an empty table. start is the first id handed out.
func New(start int) *Table {
	return &Table{
		next:  start,
		index: make(map[key]NodeId),
		nodes: make(map[NodeId]parsetree.Node),
	}
}

// Build walks root in pre-order and assigns an id to every named node. It is
// idempotent: calling Build twice on the same tree (or re-running over an
// equivalent tree) yields the same (start,end,kind) -> id mapping because
// id_for is consulted before minting a fresh id.
func (t *Table) Build(root parsetree.Node) {
	if root == nil {
		return
	}
	var walk func(n parsetree.Node)
	walk = func(n parsetree.Node) {
		if n == nil {
			return
		}
		if n.Named() {
			t.assign(n)
		}
		for i := 0; i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
}

func (t *Table) assign(n parsetree.Node) NodeId {
	k := key{start: n.Start(), end: n.End(), kind: n.Kind()}
	if id, ok := t.index[k]; ok {
		return id
	}
	id := NodeId(t.next)
	t.next++
	t.index[k] = id
	t.nodes[id] = n
	t.order = append(t.order, id)
	return id
}

// IdFor returns the NodeId for a node previously seen by Build, minting one
// on the fly if the exact (span, kind) key was never observed (this keeps
// IdFor total over named nodes per the C2 contract).
func (t *Table) IdFor(n parsetree.Node) NodeId {
	k := key{start: n.Start(), end: n.End(), kind: n.Kind()}
	if id, ok := t.index[k]; ok {
		return id
	}
	return t.assign(n)
}

// NewSynthetic mints a fresh NodeId not tied to any parse-tree span, for the
// synthetic entry/exit/merge nodes the CFG builder introduces (spec.md
// §4.6). It still draws from this table's counter, so I1 ("every NodeId...
// derives from the Node Identity Table") holds even for synthetic nodes.
func (t *Table) NewSynthetic(kind string) NodeId {
	id := NodeId(t.next)
	t.next++
	t.order = append(t.order, id)
	return id
}

// Node returns the ParseNode registered under id, if any.
func (t *Table) Node(id NodeId) (parsetree.Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Ids returns all assigned ids in the order they were minted: Build's
// pre-order over named nodes, then any ids minted later by IdFor or
// NewSynthetic.
func (t *Table) Ids() []NodeId {
	out := make([]NodeId, len(t.order))
	copy(out, t.order)
	return out
}

// Len reports how many ids have been minted, for named nodes and synthetic
// nodes alike.
func (t *Table) Len() int { return len(t.order) }

func (id NodeId) String() string { return fmt.Sprintf("n%d", int(id)) }
