// Package dfgview implements the Reaching-Definitions Engine and DFG View
// Builder (C7): a worklist fixed-point over a CFG that computes per-statement
// IN/OUT sets of variable definitions and materializes a statement-level DFG
// (spec.md §4.7).
package dfgview

import (
	"github.com/jaid-monwar/tree-sitter-codeviews/identity"
)

// Undef is the Value recorded for an uninitialized declarator — it still
// participates in KILL (spec.md Open Question Q1).
const Undef = "<undef>"

// Definition is a (variable-name, defining-CFG-node) pair (spec.md §4.7).
type Definition struct {
	Var   string
	Node  identity.NodeId
	Value string
}

// DefSet is a set of Definitions.
type DefSet map[Definition]bool

func (s DefSet) clone() DefSet {
	out := make(DefSet, len(s))
	for d := range s {
		out[d] = true
	}
	return out
}

func (s DefSet) equal(o DefSet) bool {
	if len(s) != len(o) {
		return false
	}
	for d := range s {
		if !o[d] {
			return false
		}
	}
	return true
}

func unionInto(dst DefSet, src DefSet) {
	for d := range src {
		dst[d] = true
	}
}

// cfg is the minimal successor/predecessor view the engine needs over a CFG.
type cfg struct {
	nodes []identity.NodeId
	succ  map[identity.NodeId][]identity.NodeId
	pred  map[identity.NodeId][]identity.NodeId
}

// RDAError indicates the fixed point failed to converge, which cannot happen
// if the transfer function is monotone over a finite lattice (spec.md §7);
// its presence here would indicate a bug in gen/kill construction, not in
// input source.
type RDAError struct{ Msg string }

func (e *RDAError) Error() string { return "rda error: " + e.Msg }

// maxIterationsPerNode bounds the worklist loop so a non-monotone gen/kill
// bug surfaces as an RDAError instead of hanging.
const maxIterationsPerNode = 10000

// run performs the generic worklist fixed-point: IN[n] = ⋃ OUT[pred],
// OUT[n] = GEN[n] ∪ (IN[n] \ KILL[n]), where KILL[n] removes from IN[n] any
// definition whose variable name is in killVars[n] (spec.md §4.7).
func run(g *cfg, gen map[identity.NodeId]DefSet, killVars map[identity.NodeId]map[string]bool) (in, out map[identity.NodeId]DefSet, err error) {
	in = map[identity.NodeId]DefSet{}
	out = map[identity.NodeId]DefSet{}
	for _, n := range g.nodes {
		in[n] = DefSet{}
		out[n] = DefSet{}
	}

	queue := append([]identity.NodeId(nil), g.nodes...)
	queued := map[identity.NodeId]bool{}
	for _, n := range g.nodes {
		queued[n] = true
	}
	iterations := map[identity.NodeId]int{}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		queued[n] = false

		iterations[n]++
		if iterations[n] > maxIterationsPerNode {
			return nil, nil, &RDAError{Msg: "fixed point did not converge"}
		}

		newIn := DefSet{}
		for _, p := range g.pred[n] {
			unionInto(newIn, out[p])
		}
		in[n] = newIn

		newOut := gen[n].clone()
		kv := killVars[n]
		for d := range newIn {
			if kv == nil || !kv[d.Var] {
				newOut[d] = true
			}
		}

		if !newOut.equal(out[n]) {
			out[n] = newOut
			for _, s := range g.succ[n] {
				if !queued[s] {
					queued[s] = true
					queue = append(queue, s)
				}
			}
		}
	}
	return in, out, nil
}
