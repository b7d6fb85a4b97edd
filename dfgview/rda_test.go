package dfgview

import (
	"testing"

	"github.com/jaid-monwar/tree-sitter-codeviews/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// straightLine builds n1 -> n2 -> n3 -> n4, exercising the S1 shape from
// the seed scenarios: a definition reaching two later uses in sequence.
func straightLine() *cfg {
	n1, n2, n3, n4 := identity.NodeId(1), identity.NodeId(2), identity.NodeId(3), identity.NodeId(4)
	return &cfg{
		nodes: []identity.NodeId{n1, n2, n3, n4},
		succ: map[identity.NodeId][]identity.NodeId{
			n1: {n2}, n2: {n3}, n3: {n4},
		},
		pred: map[identity.NodeId][]identity.NodeId{
			n2: {n1}, n3: {n2}, n4: {n3},
		},
	}
}

func TestRun_LinearReachesForward(t *testing.T) {
	g := straightLine()
	n1 := identity.NodeId(1)
	defA := Definition{Var: "a", Node: n1, Value: "1"}
	gen := map[identity.NodeId]DefSet{n1: {defA: true}}
	kill := map[identity.NodeId]map[string]bool{n1: {"a": true}}

	in, out, err := run(g, gen, kill)
	require.NoError(t, err)

	assert.Empty(t, in[n1])
	assert.True(t, out[n1][defA])
	assert.True(t, in[identity.NodeId(4)][defA], "definition at n1 should reach n4 along the only path")
	assert.True(t, out[identity.NodeId(4)][defA])
}

// TestRun_RedefinitionKills exercises the standard kill semantics: a second
// definition of the same variable stops the first from reaching later nodes.
func TestRun_RedefinitionKills(t *testing.T) {
	g := straightLine()
	n1, n2 := identity.NodeId(1), identity.NodeId(2)
	def1 := Definition{Var: "a", Node: n1, Value: "1"}
	def2 := Definition{Var: "a", Node: n2, Value: "2"}
	gen := map[identity.NodeId]DefSet{
		n1: {def1: true},
		n2: {def2: true},
	}
	kill := map[identity.NodeId]map[string]bool{
		n1: {"a": true},
		n2: {"a": true},
	}

	in, out, err := run(g, gen, kill)
	require.NoError(t, err)

	assert.True(t, in[n2][def1])
	assert.False(t, out[n2][def1], "n2's own definition must kill the one flowing in")
	assert.True(t, out[n2][def2])
	assert.True(t, out[identity.NodeId(4)][def2])
	assert.False(t, out[identity.NodeId(4)][def1])
}

// TestRun_UninitializedDeclaratorStillKills covers Open Question Q1: an
// uninitialized declarator (`var x int`) is recorded as a definition with
// the Undef sentinel value, and it still participates in KILL the same as
// any other definition of that name.
func TestRun_UninitializedDeclaratorStillKills(t *testing.T) {
	g := straightLine()
	n1, n2 := identity.NodeId(1), identity.NodeId(2)
	priorDef := Definition{Var: "x", Node: n1, Value: "1"}
	undefDef := Definition{Var: "x", Node: n2, Value: Undef}
	gen := map[identity.NodeId]DefSet{
		n1: {priorDef: true},
		n2: {undefDef: true},
	}
	kill := map[identity.NodeId]map[string]bool{
		n1: {"x": true},
		n2: {"x": true},
	}

	in, out, err := run(g, gen, kill)
	require.NoError(t, err)

	assert.True(t, in[n2][priorDef])
	assert.False(t, out[n2][priorDef])
	assert.True(t, out[n2][undefDef])
	assert.True(t, out[identity.NodeId(4)][undefDef])
}

// TestRun_Diamond exercises a branch-then-merge CFG shape (S2's "if/else
// reassignment, both reach the join"): a variable defined differently on
// each arm of a diamond must have both definitions reach the merge node.
func TestRun_Diamond(t *testing.T) {
	n1, n2, n3, n4 := identity.NodeId(1), identity.NodeId(2), identity.NodeId(3), identity.NodeId(4)
	g := &cfg{
		nodes: []identity.NodeId{n1, n2, n3, n4},
		succ: map[identity.NodeId][]identity.NodeId{
			n1: {n2, n3}, n2: {n4}, n3: {n4},
		},
		pred: map[identity.NodeId][]identity.NodeId{
			n2: {n1}, n3: {n1}, n4: {n2, n3},
		},
	}
	defThen := Definition{Var: "a", Node: n2, Value: "2"}
	defElse := Definition{Var: "a", Node: n3, Value: "3"}
	gen := map[identity.NodeId]DefSet{
		n2: {defThen: true},
		n3: {defElse: true},
	}
	kill := map[identity.NodeId]map[string]bool{
		n2: {"a": true},
		n3: {"a": true},
	}

	in, _, err := run(g, gen, kill)
	require.NoError(t, err)

	assert.True(t, in[n4][defThen])
	assert.True(t, in[n4][defElse])
	assert.Len(t, in[n4], 2)
}

// TestRun_Loop exercises a back edge: a definition inside a loop body must
// reach the loop header on the next iteration (S4's loop-carried shape).
func TestRun_Loop(t *testing.T) {
	header, body := identity.NodeId(1), identity.NodeId(2)
	g := &cfg{
		nodes: []identity.NodeId{header, body},
		succ:  map[identity.NodeId][]identity.NodeId{header: {body}, body: {header}},
		pred:  map[identity.NodeId][]identity.NodeId{body: {header}, header: {body}},
	}
	defBody := Definition{Var: "i", Node: body, Value: "i+1"}
	gen := map[identity.NodeId]DefSet{body: {defBody: true}}
	kill := map[identity.NodeId]map[string]bool{body: {"i": true}}

	in, _, err := run(g, gen, kill)
	require.NoError(t, err)

	assert.True(t, in[header][defBody], "loop body's definition reaches the header on the back edge")
}

func TestDefSet_EqualAndClone(t *testing.T) {
	d1 := Definition{Var: "a", Node: identity.NodeId(1), Value: "1"}
	d2 := Definition{Var: "b", Node: identity.NodeId(2), Value: "2"}
	s := DefSet{d1: true, d2: true}
	c := s.clone()
	assert.True(t, s.equal(c))

	delete(c, d2)
	assert.False(t, s.equal(c))
}
