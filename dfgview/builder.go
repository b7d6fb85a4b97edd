package dfgview

import (
	"fmt"
	"sort"

	"github.com/jaid-monwar/tree-sitter-codeviews/cfgview"
	"github.com/jaid-monwar/tree-sitter-codeviews/identity"
	"github.com/jaid-monwar/tree-sitter-codeviews/schema"
)

// Options controls the optional DFG edge annotations (spec.md §4.7 /
// configuration surface §6).
type Options struct {
	LastDef bool
	LastUse bool
}

// Build runs the reaching-definitions engine over one CFG graph, per
// function so definitions never leak across a call edge, and materializes
// the DFG view (C7). table is the shared identity table so synthetic CFG
// nodes (loop headers, entry/exit) resolve back to their backing parse node
// where one exists.
func Build(table *identity.Table, cfgGraph *schema.Graph, fns []cfgview.FunctionInfo, src []byte, opts Options) (*schema.Graph, error) {
	out := &schema.Graph{}
	seenNode := map[identity.NodeId]bool{}

	for _, fn := range fns {
		g := buildFuncCFG(cfgGraph, fn)

		gen, killVars, uses := extract(table, fn.NodeIDs, fn.Params, fn.EntryID, src)
		in, _, err := run(g, gen, killVars)
		if err != nil {
			return nil, fmt.Errorf("dfgview: function %q: %w", fn.Name, err)
		}

		var useIn map[identity.NodeId]DefSet
		if opts.LastUse {
			useGen := map[identity.NodeId]DefSet{}
			for id, names := range uses {
				ds := DefSet{}
				for _, name := range names {
					ds[Definition{Var: name, Node: id, Value: "<use>"}] = true
				}
				useGen[id] = ds
			}
			useIn, _, err = run(g, useGen, killVars)
			if err != nil {
				return nil, fmt.Errorf("dfgview: function %q last_use pass: %w", fn.Name, err)
			}
		}

		type key struct {
			src, dst identity.NodeId
			v        string
		}
		edgeOf := map[key]*schema.Edge{}
		var order []key

		for _, useId := range fn.NodeIDs {
			names := uses[useId]
			if len(names) == 0 {
				continue
			}
			reaching := in[useId]
			for _, name := range names {
				for d := range reaching {
					if d.Var != name {
						continue
					}
					k := key{src: d.Node, dst: useId, v: name}
					if _, ok := edgeOf[k]; ok {
						continue
					}
					extra := map[string]string{"var": name, "value": d.Value}
					if opts.LastDef {
						if n, ok := table.Node(d.Node); ok {
							extra["last_def"] = fmt.Sprintf("%d", int(n.Start().Row)+1)
						}
					}
					if opts.LastUse {
						if lu, ok := lastUse(table, useIn[useId], name); ok {
							extra["last_use"] = fmt.Sprintf("%d", lu)
						}
					}
					e := &schema.Edge{Source: d.Node, Target: useId, ViewTag: schema.DFG, Kind: "reaches", Extra: extra}
					edgeOf[k] = e
					order = append(order, k)

					if !seenNode[d.Node] {
						seenNode[d.Node] = true
						out.Nodes = append(out.Nodes, dfgNode(cfgGraph, d.Node))
					}
					if !seenNode[useId] {
						seenNode[useId] = true
						out.Nodes = append(out.Nodes, dfgNode(cfgGraph, useId))
					}
				}
			}
		}

		sort.Slice(order, func(i, j int) bool {
			if order[i].src != order[j].src {
				return order[i].src < order[j].src
			}
			return order[i].dst < order[j].dst
		})
		for _, k := range order {
			out.Edges = append(out.Edges, *edgeOf[k])
		}
	}

	sort.Slice(out.Nodes, func(i, j int) bool { return out.Nodes[i].ID < out.Nodes[j].ID })
	return out, nil
}

// lastUse picks the most recently reaching prior use of v (by source line,
// spec.md §4.7's "most recent prior use ... reachable along the path").
func lastUse(table *identity.Table, reaching DefSet, v string) (int, bool) {
	best := -1
	found := false
	for d := range reaching {
		if d.Var != v {
			continue
		}
		n, ok := table.Node(d.Node)
		if !ok {
			continue
		}
		line := int(n.Start().Row) + 1
		if !found || line > best {
			best = line
			found = true
		}
	}
	return best, found
}

func dfgNode(cfgGraph *schema.Graph, id identity.NodeId) schema.Node {
	for _, n := range cfgGraph.Nodes {
		if n.ID == id {
			return schema.Node{ID: id, ViewTags: map[schema.View]bool{schema.DFG: true}, Kind: n.Kind, Label: n.Label, Line: n.Line}
		}
	}
	return schema.Node{ID: id, ViewTags: map[schema.View]bool{schema.DFG: true}}
}

// buildFuncCFG restricts cfgGraph to fn's own nodes and control-flow edges,
// excluding cfgview.KindCall edges so reaching definitions never cross into
// a callee's body (spec.md §4.7 is a per-function analysis).
func buildFuncCFG(cfgGraph *schema.Graph, fn cfgview.FunctionInfo) *cfg {
	in := map[identity.NodeId]bool{}
	for _, id := range fn.NodeIDs {
		in[id] = true
	}
	g := &cfg{nodes: fn.NodeIDs, succ: map[identity.NodeId][]identity.NodeId{}, pred: map[identity.NodeId][]identity.NodeId{}}
	for _, e := range cfgGraph.Edges {
		if e.Kind == cfgview.KindCall {
			continue
		}
		if !in[e.Source] || !in[e.Target] {
			continue
		}
		g.succ[e.Source] = append(g.succ[e.Source], e.Target)
		g.pred[e.Target] = append(g.pred[e.Target], e.Source)
	}
	return g
}
