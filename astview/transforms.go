package astview

import (
	"sort"

	"github.com/jaid-monwar/tree-sitter-codeviews/catalog"
	"github.com/jaid-monwar/tree-sitter-codeviews/identity"
	"github.com/jaid-monwar/tree-sitter-codeviews/schema"
)

// Blacklist removes every node whose kind is in kinds and reconnects the
// graph so every surviving node keeps a path to the root (spec.md §4.5 P9):
// each removed node r's incoming edges p→r and outgoing edges r→c are
// replaced by edges p→c carrying the same view tag.
func Blacklist(g *schema.Graph, kinds catalog.KindSet) *schema.Graph {
	if len(kinds) == 0 {
		return g
	}
	nodeKind := make(map[identity.NodeId]string, len(g.Nodes))
	for _, n := range g.Nodes {
		nodeKind[n.ID] = n.Kind
	}

	edges := append([]schema.Edge(nil), g.Edges...)
	removed := map[identity.NodeId]bool{}

	var toRemove []identity.NodeId
	for id, kind := range nodeKind {
		if kinds.Has(kind) {
			toRemove = append(toRemove, id)
		}
	}
	sort.Slice(toRemove, func(i, j int) bool { return toRemove[i] < toRemove[j] })

	for _, r := range toRemove {
		var incoming, outgoing []schema.Edge
		var kept []schema.Edge
		for _, e := range edges {
			switch {
			case e.Target == r:
				incoming = append(incoming, e)
			case e.Source == r:
				outgoing = append(outgoing, e)
			default:
				kept = append(kept, e)
			}
		}
		for _, in := range incoming {
			for _, out := range outgoing {
				kept = append(kept, schema.Edge{Source: in.Source, Target: out.Target, ViewTag: in.ViewTag, Kind: in.Kind})
			}
		}
		edges = kept
		removed[r] = true
	}

	out := &schema.Graph{RunID: g.RunID, Diagnostics: g.Diagnostics}
	for _, n := range g.Nodes {
		if !removed[n.ID] {
			out.Nodes = append(out.Nodes, n)
		}
	}
	out.Edges = dedupeEdges(edges)
	return out
}

// Collapse merges, for each distinct identifier label, all leaf nodes
// sharing that label into the one with the minimum NodeId, rerouting every
// incident edge to the representative and dropping duplicates. Edge
// multiplicity is preserved by kind: collapsing never merges distinct edge
// kinds together (spec.md §4.5). Collapse is idempotent (P8): running it
// again on its own output finds no further merge opportunities because only
// one leaf per label remains.
func Collapse(g *schema.Graph) *schema.Graph {
	hasOutgoing := map[identity.NodeId]bool{}
	for _, e := range g.Edges {
		hasOutgoing[e.Source] = true
	}

	byLabel := map[string][]identity.NodeId{}
	for _, n := range g.Nodes {
		if hasOutgoing[n.ID] {
			continue
		}
		byLabel[n.Label] = append(byLabel[n.Label], n.ID)
	}

	representative := map[identity.NodeId]identity.NodeId{}
	dropped := map[identity.NodeId]bool{}
	for _, ids := range byLabel {
		if len(ids) < 2 {
			continue
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		rep := ids[0]
		for _, id := range ids {
			representative[id] = rep
			if id != rep {
				dropped[id] = true
			}
		}
	}

	reroute := func(id identity.NodeId) identity.NodeId {
		if rep, ok := representative[id]; ok {
			return rep
		}
		return id
	}

	out := &schema.Graph{RunID: g.RunID, Diagnostics: g.Diagnostics}
	for _, n := range g.Nodes {
		if !dropped[n.ID] {
			out.Nodes = append(out.Nodes, n)
		}
	}
	var edges []schema.Edge
	for _, e := range g.Edges {
		edges = append(edges, schema.Edge{
			Source:  reroute(e.Source),
			Target:  reroute(e.Target),
			ViewTag: e.ViewTag,
			Kind:    e.Kind,
			Extra:   e.Extra,
		})
	}
	out.Edges = dedupeEdges(edges)
	return out
}

func dedupeEdges(edges []schema.Edge) []schema.Edge {
	type key struct {
		s, t    identity.NodeId
		view    schema.View
		kind    string
	}
	seen := map[key]bool{}
	var out []schema.Edge
	for _, e := range edges {
		k := key{e.Source, e.Target, e.ViewTag, e.Kind}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}
