// Package compose implements the View Composer (C8): it merges any subset of
// the AST/CFG/DFG view graphs into a single labeled multigraph, relying on
// node identity being stable across views (spec.md §3.3's invariant I1) to
// know which nodes from different views are "the same" node.
package compose

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jaid-monwar/tree-sitter-codeviews/identity"
	"github.com/jaid-monwar/tree-sitter-codeviews/schema"
)

// labelPrecedence ranks views for label/kind resolution: the most
// informative label wins (spec.md §4.8, "CFG > DFG > AST").
var labelPrecedence = map[schema.View]int{
	schema.CFG: 3,
	schema.DFG: 2,
	schema.AST: 1,
}

// Compose merges zero or more view graphs into one multigraph (spec.md
// §4.8). Node union: nodes sharing a NodeId merge their ViewTags and their
// attribute bags, with each view's Extra keys namespaced by its tag to avoid
// collision; label (and kind) resolution follows labelPrecedence. Edge
// union: every edge from every input graph is carried through unchanged —
// composition never invents an edge — with exact duplicates (same source,
// target, view and kind) collapsed.
func Compose(graphs ...*schema.Graph) *schema.Graph {
	out := &schema.Graph{}

	merged := map[identity.NodeId]*schema.Node{}
	var order []identity.NodeId
	bestLabelRank := map[identity.NodeId]int{}

	for _, g := range graphs {
		if g == nil {
			continue
		}
		if out.RunID == "" {
			out.RunID = g.RunID
		}
		for _, n := range g.Nodes {
			cur, ok := merged[n.ID]
			if !ok {
				copyNode := n
				copyNode.ViewTags = cloneViewTags(n.ViewTags)
				copyNode.Extra = namespacedExtra(n, n.Extra)
				merged[n.ID] = &copyNode
				order = append(order, n.ID)
				bestLabelRank[n.ID] = rankOf(n.ViewTags)
				continue
			}
			mergeViewTags(cur.ViewTags, n.ViewTags)
			for k, v := range namespacedExtra(n, n.Extra) {
				if cur.Extra == nil {
					cur.Extra = map[string]string{}
				}
				cur.Extra[k] = v
			}
			if cur.Line == 0 && n.Line != 0 {
				cur.Line = n.Line
			}
			if rank := rankOf(n.ViewTags); rank > bestLabelRank[n.ID] {
				bestLabelRank[n.ID] = rank
				cur.Label = n.Label
				cur.Kind = n.Kind
			}
		}
		out.Diagnostics = append(out.Diagnostics, g.Diagnostics...)
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	for _, id := range order {
		out.Nodes = append(out.Nodes, *merged[id])
	}

	seen := map[edgeKey]bool{}
	for _, g := range graphs {
		if g == nil {
			continue
		}
		for _, e := range g.Edges {
			k := edgeKey{e.Source, e.Target, e.ViewTag, e.Kind}
			if seen[k] {
				continue
			}
			seen[k] = true
			out.Edges = append(out.Edges, e)
		}
	}
	sort.SliceStable(out.Edges, func(i, j int) bool {
		if out.Edges[i].Source != out.Edges[j].Source {
			return out.Edges[i].Source < out.Edges[j].Source
		}
		return out.Edges[i].Target < out.Edges[j].Target
	})

	return out
}

type edgeKey struct {
	src, dst identity.NodeId
	view     schema.View
	kind     string
}

func rankOf(tags map[schema.View]bool) int {
	best := 0
	for v, ok := range tags {
		if !ok {
			continue
		}
		if r := labelPrecedence[v]; r > best {
			best = r
		}
	}
	return best
}

func cloneViewTags(tags map[schema.View]bool) map[schema.View]bool {
	out := make(map[schema.View]bool, len(tags))
	for k, v := range tags {
		out[k] = v
	}
	return out
}

func mergeViewTags(dst, src map[schema.View]bool) {
	for k, v := range src {
		if v {
			dst[k] = true
		}
	}
}

// namespacedExtra prefixes a node's Extra keys with its originating view
// (e.g. "cfg:diagnostic.0") so two views' attribute bags never collide when
// merged onto the same NodeId (spec.md §4.8).
func namespacedExtra(n schema.Node, extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return nil
	}
	prefix := "view"
	for v, ok := range n.ViewTags {
		if ok {
			prefix = strings.ToLower(string(v))
			break
		}
	}
	out := make(map[string]string, len(extra))
	for k, v := range extra {
		out[fmt.Sprintf("%s:%s", prefix, k)] = v
	}
	return out
}
