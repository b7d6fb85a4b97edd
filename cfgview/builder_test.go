package cfgview

import (
	"testing"

	"github.com/jaid-monwar/tree-sitter-codeviews/catalog"
	"github.com/jaid-monwar/tree-sitter-codeviews/identity"
	"github.com/jaid-monwar/tree-sitter-codeviews/parsetree"
	"github.com/jaid-monwar/tree-sitter-codeviews/schema"
	"github.com/jaid-monwar/tree-sitter-codeviews/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCFG(t *testing.T, src string) (*schema.Graph, *Builder) {
	t.Helper()
	parser := parsetree.NewSitterParser(catalog.Go.GetLanguage())
	tree, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	root := tree.Root()

	table := identity.New(1)
	table.Build(root)

	ex := symbols.NewExtractor(catalog.Go, table)
	require.NoError(t, ex.Walk(root, []byte(src)))

	b := NewBuilder(catalog.Go, table, ex.Tables())
	g := b.Build(root, []byte(src))
	return g, b
}

func edgesOfKind(g *schema.Graph, kind string) []schema.Edge {
	var out []schema.Edge
	for _, e := range g.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// TestBuild_EntryAndExitPresent covers the basic per-function shape of
// spec.md §4.6: every function gets a synthetic entry and exit node.
func TestBuild_EntryAndExitPresent(t *testing.T) {
	g, _ := buildCFG(t, "package p\n\nfunc f() {\n\treturn\n}\n")

	var sawEntry, sawExit bool
	for _, n := range g.Nodes {
		if n.Kind == NodeEntry {
			sawEntry = true
		}
		if n.Kind == NodeExit {
			sawExit = true
		}
	}
	assert.True(t, sawEntry)
	assert.True(t, sawExit)
}

// TestBuild_IfWithoutElseGetsImplicitFalseEdge covers the no-else branch
// handling: the condition's false edge targets whatever follows the if,
// without a placeholder merge node.
func TestBuild_IfWithoutElseGetsImplicitFalseEdge(t *testing.T) {
	src := `package p

func f(cond bool) {
	if cond {
		println("yes")
	}
	println("after")
}
`
	g, _ := buildCFG(t, src)
	falseEdges := edgesOfKind(g, KindFalse)
	require.NotEmpty(t, falseEdges)

	var condId identity.NodeId
	for _, n := range g.Nodes {
		if n.Kind == NodeIf {
			condId = n.ID
		}
	}
	require.NotZero(t, condId)

	found := false
	for _, e := range falseEdges {
		if e.Source == condId {
			found = true
		}
	}
	assert.True(t, found)
}

// TestBuild_LoopBackEdge covers the for-loop handling: the body's dangling
// predecessor (or the update clause's) glues back to the loop header.
func TestBuild_LoopBackEdge(t *testing.T) {
	src := `package p

func f() {
	for i := 0; i < 10; i++ {
		println(i)
	}
}
`
	g, _ := buildCFG(t, src)
	backEdges := edgesOfKind(g, KindLoopBack)
	assert.NotEmpty(t, backEdges)

	exitEdges := edgesOfKind(g, KindLoopExit)
	assert.NotEmpty(t, exitEdges)
}

// TestBuild_BreakInsideLoopTargetsLoopExit covers break resolution: a break
// inside a for loop adds its own seq stub to the loop's dangling set, beside
// the header's loop_exit stub, so it glues to whatever follows the loop (here
// the function exit).
func TestBuild_BreakInsideLoopTargetsLoopExit(t *testing.T) {
	src := `package p

func f() {
	for {
		break
	}
}
`
	g, _ := buildCFG(t, src)
	var breakId identity.NodeId
	for _, n := range g.Nodes {
		if n.Kind == "break" {
			breakId = n.ID
		}
	}
	require.NotZero(t, breakId)

	found := false
	for _, e := range g.Edges {
		if e.Source == breakId {
			found = true
		}
	}
	assert.True(t, found, "break must glue to whatever follows the loop")
}

// TestBuild_ContinueOutsideLoopRecordsDiagnostic covers §7's soft-error
// handling: continue with no enclosing loop becomes a CFGError diagnostic,
// not a panic or silently dropped edge.
func TestBuild_ContinueOutsideLoopRecordsDiagnostic(t *testing.T) {
	src := `package p

func f() {
	continue
}
`
	g, _ := buildCFG(t, src)
	assert.NotEmpty(t, g.Diagnostics)
}

// TestBuild_GotoResolvesForwardLabel covers the two-phase label pre-pass:
// a goto referencing a label declared later in the same function still
// resolves to a goto edge, not a diagnostic.
func TestBuild_GotoResolvesForwardLabel(t *testing.T) {
	src := `package p

func f() {
	goto done
	println("skipped")
done:
	println("done")
}
`
	g, _ := buildCFG(t, src)
	gotoEdges := edgesOfKind(g, KindGoto)
	assert.NotEmpty(t, gotoEdges)
	assert.Empty(t, g.Diagnostics, "a resolvable forward goto should not produce a diagnostic")
}

// TestBuild_SwitchCaseAndDefaultEdges covers S3's shape: case and default
// edges both originate from the switch head.
func TestBuild_SwitchCaseAndDefaultEdges(t *testing.T) {
	src := `package p

func f(x int) {
	switch x {
	case 1:
		println("one")
	default:
		println("other")
	}
}
`
	g, _ := buildCFG(t, src)
	var headId identity.NodeId
	for _, n := range g.Nodes {
		if n.Kind == NodeSwitch {
			headId = n.ID
		}
	}
	require.NotZero(t, headId)

	caseEdges := edgesOfKind(g, KindCase)
	defaultEdges := edgesOfKind(g, KindDefault)
	require.NotEmpty(t, caseEdges)
	require.NotEmpty(t, defaultEdges)
	for _, e := range append(caseEdges, defaultEdges...) {
		assert.Equal(t, headId, e.Source)
	}
}

// TestBuild_CallEdgeToInFileFunction covers wireCalls: a call to a
// same-file function records a call edge to that function's entry.
func TestBuild_CallEdgeToInFileFunction(t *testing.T) {
	src := `package p

func helper() {
}

func f() {
	helper()
}
`
	g, b := buildCFG(t, src)
	callEdges := edgesOfKind(g, KindCall)
	require.NotEmpty(t, callEdges)

	var helperEntry identity.NodeId
	for _, fn := range b.Functions() {
		if fn.Name == "helper" {
			helperEntry = fn.EntryID
		}
	}
	require.NotZero(t, helperEntry)

	found := false
	for _, e := range callEdges {
		if e.Target == helperEntry {
			found = true
		}
	}
	assert.True(t, found)
}

// TestFunctions_RecordsParams covers the FunctionInfo.Params collection
// dfgview relies on to seed parameter definitions at function entry.
func TestFunctions_RecordsParams(t *testing.T) {
	src := `package p

func f(a int, b string) {
	_ = a
	_ = b
}
`
	_, b := buildCFG(t, src)
	var fn FunctionInfo
	for _, f := range b.Functions() {
		if f.Name == "f" {
			fn = f
		}
	}
	assert.ElementsMatch(t, []string{"a", "b"}, fn.Params)
}
