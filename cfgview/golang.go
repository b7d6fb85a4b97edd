package cfgview

import (
	"fmt"
	"strings"

	"github.com/jaid-monwar/tree-sitter-codeviews/catalog"
	"github.com/jaid-monwar/tree-sitter-codeviews/identity"
	"github.com/jaid-monwar/tree-sitter-codeviews/parsetree"
	"github.com/jaid-monwar/tree-sitter-codeviews/schema"
	"github.com/jaid-monwar/tree-sitter-codeviews/symbols"
)

// edgeStub is one entry of a flow's dangling set: a predecessor node plus the
// edge kind that should connect it to whatever comes next (spec.md §4.6's
// "gluing" is usually a seq edge, but a dangling predecessor coming out of an
// unmatched if or a loop header carries its own kind — false / loop_exit —
// so the glued edge keeps that kind instead of being generic seq).
type edgeStub struct {
	id   identity.NodeId
	kind string
}

// flow is what the recursive statement builder returns for any processed
// statement or block: the set of entry NodeIds (where incoming edges attach)
// and the set of dangling predecessors for whatever follows.
type flow struct {
	entry    []identity.NodeId
	dangling []edgeStub
}

func seqFlow(id identity.NodeId) flow {
	return flow{entry: []identity.NodeId{id}, dangling: []edgeStub{{id: id, kind: KindSeq}}}
}

// frame is a loop or switch context on the builder's enclosing-construct
// stack, used to resolve break/continue (spec.md §4.6).
type frame struct {
	isLoop         bool
	continueTarget identity.NodeId
	breaks         []edgeStub
}

// funcCtx holds per-function builder state: the synthetic exit node, the
// enclosing-construct stack, and the label table resolved in a pre-pass
// (spec.md's "goto statements add goto edges once the label's node is
// known").
type funcCtx struct {
	name     string
	exitID   identity.NodeId
	frames   []*frame
	labelIDs map[string]identity.NodeId
	diags    []schema.Diagnostic
}

// FunctionInfo is per-function metadata handed to dfgview so it can run a
// separate reaching-definitions fixed point per function body (spec.md §4.7
// operates within one function; call edges must not leak definitions across
// function boundaries).
type FunctionInfo struct {
	Name    string
	EntryID identity.NodeId
	ExitID  identity.NodeId
	NodeIDs []identity.NodeId
	Params  []string
}

// Builder is the Go-language CFG front-end.
type Builder struct {
	table   *identity.Table
	cat     catalog.Catalog
	tables  *symbols.Tables // optional; enables call-site -> callee entry edges
	src     []byte
	synth   map[identity.NodeId]map[string]identity.NodeId
	nodes   map[identity.NodeId]schema.Node
	nodeOrd []identity.NodeId
	edges   []schema.Edge
	fnIndex map[string]identity.NodeId
	fns     []FunctionInfo

	cur *funcCtx
}

// Functions returns the per-function metadata collected by the most recent
// Build call.
func (b *Builder) Functions() []FunctionInfo { return b.fns }

// NewBuilder creates a CFG builder sharing table with the other view
// builders so node identity is stable across views (I1). tables may be nil;
// when provided, call-site statements gain call edges to in-file callees.
func NewBuilder(cat catalog.Catalog, table *identity.Table, tables *symbols.Tables) *Builder {
	return &Builder{
		table:   table,
		cat:     cat,
		tables:  tables,
		synth:   map[identity.NodeId]map[string]identity.NodeId{},
		nodes:   map[identity.NodeId]schema.Node{},
		fnIndex: map[string]identity.NodeId{},
	}
}

// Build emits a CFG for every function/method declaration under root.
func (b *Builder) Build(root parsetree.Node, src []byte) *schema.Graph {
	b.src = src
	var fns []parsetree.Node
	var collect func(n parsetree.Node)
	collect = func(n parsetree.Node) {
		if n == nil {
			return
		}
		if n.Named() && (n.Kind() == "function_declaration" || n.Kind() == "method_declaration") {
			fns = append(fns, n)
		}
		for i := 0; i < n.ChildCount(); i++ {
			collect(n.Child(i))
		}
	}
	collect(root)

	var diags []schema.Diagnostic
	for _, fn := range fns {
		diags = append(diags, b.buildFunction(fn)...)
	}
	if b.tables != nil {
		b.wireCalls()
	}

	g := &schema.Graph{Diagnostics: diags}
	for _, id := range b.nodeOrd {
		g.Nodes = append(g.Nodes, b.nodes[id])
	}
	g.Edges = b.edges
	return g
}

func (b *Builder) synthFor(owner identity.NodeId, purpose string) identity.NodeId {
	if b.synth[owner] == nil {
		b.synth[owner] = map[string]identity.NodeId{}
	}
	if id, ok := b.synth[owner][purpose]; ok {
		return id
	}
	id := b.table.NewSynthetic(purpose)
	b.synth[owner][purpose] = id
	return id
}

func (b *Builder) emit(id identity.NodeId, kind, label string, line int) {
	if _, ok := b.nodes[id]; ok {
		return
	}
	b.nodes[id] = schema.Node{ID: id, ViewTags: map[schema.View]bool{schema.CFG: true}, Kind: kind, Label: label, Line: line}
	b.nodeOrd = append(b.nodeOrd, id)
}

func (b *Builder) edge(src, dst identity.NodeId, kind string, extra map[string]string) {
	b.edges = append(b.edges, schema.Edge{Source: src, Target: dst, ViewTag: schema.CFG, Kind: kind, Extra: extra})
}

// glue wires every dangling predecessor of prev to every entry of next,
// using each predecessor's own edge kind.
func (b *Builder) glue(prev flow, next flow) {
	for _, d := range prev.dangling {
		for _, e := range next.entry {
			b.edge(d.id, e, d.kind, nil)
		}
	}
}

func text(n parsetree.Node, src []byte) string { return string(n.Text(src)) }

func line(n parsetree.Node) int { return int(n.Start().Row) + 1 }

// buildFunction builds one function's CFG (entry/exit plus the recursively
// built body), per spec.md §4.6's per-function algorithm.
func (b *Builder) buildFunction(fn parsetree.Node) []schema.Diagnostic {
	nameNode := fn.FieldChild("name")
	name := "func"
	if nameNode != nil {
		name = text(nameNode, b.src)
	}
	fnId := b.table.IdFor(fn)
	entryId := b.synthFor(fnId, "entry")
	exitId := b.synthFor(fnId, "exit")
	start := len(b.nodeOrd)
	b.emit(entryId, NodeEntry, "entry "+name, line(fn))
	b.emit(exitId, NodeExit, "exit "+name, line(fn))
	b.fnIndex[name] = entryId

	ctx := &funcCtx{name: name, exitID: exitId, labelIDs: map[string]identity.NodeId{}}
	body := fn.FieldChild("body")
	b.collectLabels(body, ctx)

	prevCtx := b.cur
	b.cur = ctx
	bodyFlow := b.buildBlock(body)
	b.cur = prevCtx

	b.glue(seqFlow(entryId), bodyFlow)
	b.glue(bodyFlow, flow{entry: []identity.NodeId{exitId}})

	if len(ctx.diags) > 0 {
		extra := map[string]string{}
		for i, d := range ctx.diags {
			extra[fmt.Sprintf("diagnostic.%d", i)] = d.Message
		}
		n := b.nodes[entryId]
		n.Extra = extra
		b.nodes[entryId] = n
	}

	nodeIds := append([]identity.NodeId(nil), b.nodeOrd[start:]...)
	b.fns = append(b.fns, FunctionInfo{
		Name:    name,
		EntryID: entryId,
		ExitID:  exitId,
		NodeIDs: nodeIds,
		Params:  paramNames(fn, b.src),
	})
	return ctx.diags
}

// paramNames reads the declared parameter names out of a
// function_declaration/method_declaration's parameter_list, seeding the
// reaching-definitions engine's entry-node GEN set (spec.md §4.7).
func paramNames(fn parsetree.Node, src []byte) []string {
	params := fn.FieldChild("parameters")
	if params == nil {
		return nil
	}
	var names []string
	for i := 0; i < params.NamedChildCount(); i++ {
		decl := params.NamedChild(i)
		if decl == nil || decl.Kind() != "parameter_declaration" {
			continue
		}
		for j := 0; j < decl.NamedChildCount(); j++ {
			c := decl.NamedChild(j)
			if c != nil && c.Kind() == "identifier" {
				names = append(names, text(c, src))
			}
		}
	}
	return names
}

// collectLabels pre-scans fn's body for labeled_statement nodes so goto
// statements can resolve forward references (spec.md §4.6).
func (b *Builder) collectLabels(n parsetree.Node, ctx *funcCtx) {
	if n == nil {
		return
	}
	if n.Named() && n.Kind() == "labeled_statement" {
		labelNode := n.FieldChild("label")
		inner := lastNamedChild(n)
		if labelNode != nil && inner != nil {
			ctx.labelIDs[text(labelNode, b.src)] = b.entryIdOf(inner)
		}
	}
	if n.Kind() == "func_literal" {
		return
	}
	for i := 0; i < n.ChildCount(); i++ {
		b.collectLabels(n.Child(i), ctx)
	}
}

func lastNamedChild(n parsetree.Node) parsetree.Node {
	var last parsetree.Node
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c != nil && c.Named() && c.Kind() != "identifier" {
			last = c
		}
	}
	return last
}

// entryIdOf computes the entry NodeId a statement would build without
// actually building it — used by the label pre-pass. It mirrors buildStmt's
// own entry selection and is memoized through synthFor, so pre-pass and the
// real build always agree on synthetic header ids.
func (b *Builder) entryIdOf(n parsetree.Node) identity.NodeId {
	switch n.Kind() {
	case "if_statement":
		return b.table.IdFor(n.FieldChild("condition"))
	case "for_statement":
		if init := forField(n, "initializer"); init != nil {
			return b.entryIdOf(init)
		}
		return b.headerID(n)
	case "labeled_statement":
		return b.entryIdOf(lastNamedChild(n))
	case "block":
		for i := 0; i < n.ChildCount(); i++ {
			c := n.Child(i)
			if c != nil && c.Named() {
				return b.entryIdOf(c)
			}
		}
		return b.synthFor(b.table.IdFor(n), "empty")
	default:
		return b.table.IdFor(n)
	}
}

// headerID returns the loop-header NodeId for a for_statement: the explicit
// condition's own id when present, else a synthetic header (range-for,
// infinite for).
func (b *Builder) headerID(n parsetree.Node) identity.NodeId {
	if cond := forField(n, "condition"); cond != nil {
		return b.table.IdFor(cond)
	}
	return b.synthFor(b.table.IdFor(n), "loop_header")
}

// forField returns a for_statement's initializer/condition/update field. The
// Go grammar nests these inside a for_clause child.
func forField(n parsetree.Node, name string) parsetree.Node {
	if clause := findNamedChildKind(n, "for_clause"); clause != nil {
		return clause.FieldChild(name)
	}
	return n.FieldChild(name)
}

// buildBlock builds a "block" node's statement sequence by gluing each
// statement's flow to the next (spec.md §4.6 "Concatenation is gluing").
func (b *Builder) buildBlock(n parsetree.Node) flow {
	if n == nil {
		id := b.table.NewSynthetic("empty_block")
		b.emit(id, "empty", "", 0)
		return seqFlow(id)
	}
	var stmts []parsetree.Node
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c != nil && c.Named() {
			stmts = append(stmts, c)
		}
	}
	if len(stmts) == 0 {
		id := b.synthFor(b.table.IdFor(n), "empty")
		b.emit(id, "empty", "", line(n))
		return seqFlow(id)
	}
	var result flow
	var prev flow
	for i, s := range stmts {
		f := b.buildStmt(s)
		if i == 0 {
			result.entry = f.entry
		} else {
			b.glue(prev, f)
		}
		prev = f
	}
	result.dangling = prev.dangling
	return result
}

// buildStmt dispatches on statement kind, implementing each handler of
// spec.md §4.6.
func (b *Builder) buildStmt(n parsetree.Node) flow {
	switch n.Kind() {
	case "block":
		return b.buildBlock(n)
	case "if_statement":
		return b.buildIf(n)
	case "for_statement":
		return b.buildFor(n)
	case "expression_switch_statement", "type_switch_statement":
		return b.buildSwitch(n)
	case "break_statement":
		return b.buildBreak(n)
	case "continue_statement":
		return b.buildContinue(n)
	case "return_statement":
		return b.buildReturn(n)
	case "goto_statement":
		return b.buildGoto(n)
	case "labeled_statement":
		inner := lastNamedChild(n)
		return b.buildStmt(inner)
	case "go_statement":
		return b.buildPlain(n, "go "+callText(n, b.src))
	case "defer_statement":
		return b.buildPlain(n, "defer "+callText(n, b.src))
	default:
		return b.buildPlain(n, text(n, b.src))
	}
}

func callText(n parsetree.Node, src []byte) string {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c != nil && c.Kind() == "call_expression" {
			return text(c, src)
		}
	}
	return text(n, src)
}

// buildPlain handles "one CFG node equal to the statement NodeId" for any
// non_control_stmt kind (spec.md §4.6).
func (b *Builder) buildPlain(n parsetree.Node, label string) flow {
	id := b.table.IdFor(n)
	b.emit(id, "stmt", label, line(n))
	return seqFlow(id)
}

func (b *Builder) buildIf(n parsetree.Node) flow {
	cond := n.FieldChild("condition")
	condId := b.table.IdFor(cond)
	b.emit(condId, NodeIf, "if("+text(cond, b.src)+")", line(n))

	thenFlow := b.buildStmt(n.FieldChild("consequence"))
	for _, e := range thenFlow.entry {
		b.edge(condId, e, KindTrue, nil)
	}

	alt := n.FieldChild("alternative")
	var dangling []edgeStub
	dangling = append(dangling, thenFlow.dangling...)
	if alt != nil {
		elseFlow := b.buildStmt(alt)
		for _, e := range elseFlow.entry {
			b.edge(condId, e, KindFalse, nil)
		}
		dangling = append(dangling, elseFlow.dangling...)
	} else {
		dangling = append(dangling, edgeStub{id: condId, kind: KindFalse})
	}
	return flow{entry: []identity.NodeId{condId}, dangling: dangling}
}

func (b *Builder) buildFor(n parsetree.Node) flow {
	headerId := b.headerID(n)
	condText := "for"
	if cond := forField(n, "condition"); cond != nil {
		condText = "for(" + text(cond, b.src) + ")"
	} else if rc := findNamedChildKind(n, "range_clause"); rc != nil {
		condText = "for " + text(rc, b.src)
	}
	b.emit(headerId, NodeLoop, condText, line(n))

	entry := []identity.NodeId{headerId}
	var initFlow *flow
	if init := forField(n, "initializer"); init != nil {
		f := b.buildStmt(init)
		initFlow = &f
		entry = f.entry
	}

	var updateEntry []identity.NodeId
	var updateFlow *flow
	if upd := forField(n, "update"); upd != nil {
		f := b.buildStmt(upd)
		updateFlow = &f
		updateEntry = f.entry
	}
	continueTarget := headerId
	if updateFlow != nil {
		continueTarget = updateEntry[0]
	}

	fr := &frame{isLoop: true, continueTarget: continueTarget}
	b.cur.frames = append(b.cur.frames, fr)
	bodyFlow := b.buildStmt(n.FieldChild("body"))
	b.cur.frames = b.cur.frames[:len(b.cur.frames)-1]

	for _, e := range bodyFlow.entry {
		b.edge(headerId, e, KindTrue, nil)
	}
	if updateFlow != nil {
		b.glue(bodyFlow, *updateFlow)
		for _, d := range updateFlow.dangling {
			b.edge(d.id, headerId, KindLoopBack, nil)
		}
	} else {
		for _, d := range bodyFlow.dangling {
			b.edge(d.id, headerId, KindLoopBack, nil)
		}
	}

	dangling := []edgeStub{{id: headerId, kind: KindLoopExit}}
	dangling = append(dangling, fr.breaks...)

	if initFlow != nil {
		b.glue(*initFlow, flow{entry: []identity.NodeId{headerId}})
	}
	return flow{entry: entry, dangling: dangling}
}

func findNamedChildKind(n parsetree.Node, kind string) parsetree.Node {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c != nil && c.Named() && c.Kind() == kind {
			return c
		}
	}
	return nil
}

func (b *Builder) buildBreak(n parsetree.Node) flow {
	id := b.table.IdFor(n)
	b.emit(id, "break", "break", line(n))
	if len(b.cur.frames) == 0 {
		err := &CFGError{Msg: "break outside any enclosing loop or switch", FuncName: b.cur.name, NodeID: id}
		b.cur.diags = append(b.cur.diags, schema.Diagnostic{Kind: "CFGError", Message: err.Error(), Line: line(n)})
		return flow{entry: []identity.NodeId{id}}
	}
	top := b.cur.frames[len(b.cur.frames)-1]
	top.breaks = append(top.breaks, edgeStub{id: id, kind: KindSeq})
	return flow{entry: []identity.NodeId{id}}
}

func (b *Builder) buildContinue(n parsetree.Node) flow {
	id := b.table.IdFor(n)
	b.emit(id, "continue", "continue", line(n))
	for i := len(b.cur.frames) - 1; i >= 0; i-- {
		if b.cur.frames[i].isLoop {
			b.edge(id, b.cur.frames[i].continueTarget, KindSeq, nil)
			return flow{entry: []identity.NodeId{id}}
		}
	}
	err := &CFGError{Msg: "continue outside any enclosing loop", FuncName: b.cur.name, NodeID: id}
	b.cur.diags = append(b.cur.diags, schema.Diagnostic{Kind: "CFGError", Message: err.Error(), Line: line(n)})
	return flow{entry: []identity.NodeId{id}}
}

func (b *Builder) buildReturn(n parsetree.Node) flow {
	id := b.table.IdFor(n)
	b.emit(id, "return", text(n, b.src), line(n))
	b.edge(id, b.cur.exitID, KindReturn, nil)
	return flow{entry: []identity.NodeId{id}}
}

func (b *Builder) buildGoto(n parsetree.Node) flow {
	id := b.table.IdFor(n)
	b.emit(id, "goto", text(n, b.src), line(n))
	label := ""
	if l := n.FieldChild("label"); l != nil {
		label = text(l, b.src)
	} else if n.NamedChildCount() > 0 {
		label = text(n.NamedChild(n.NamedChildCount()-1), b.src)
	}
	if target, ok := b.cur.labelIDs[label]; ok {
		b.edge(id, target, KindGoto, nil)
	} else {
		err := &CFGError{Msg: "goto to undeclared label " + label, FuncName: b.cur.name, NodeID: id}
		b.cur.diags = append(b.cur.diags, schema.Diagnostic{Kind: "CFGError", Message: err.Error(), Line: line(n)})
	}
	return flow{entry: []identity.NodeId{id}}
}

func (b *Builder) buildSwitch(n parsetree.Node) flow {
	headId := b.table.IdFor(n)
	label := "switch"
	if v := n.FieldChild("value"); v != nil {
		label = "switch(" + text(v, b.src) + ")"
	}
	b.emit(headId, NodeSwitch, label, line(n))

	// The Go grammar puts the case clauses directly under the switch node.
	body := n.FieldChild("body")
	if body == nil {
		body = n
	}
	fr := &frame{isLoop: false}
	b.cur.frames = append(b.cur.frames, fr)

	var prev *flow
	if body != nil {
		for i := 0; i < body.ChildCount(); i++ {
			clause := body.Child(i)
			if clause == nil || !clause.Named() || !strings.HasSuffix(clause.Kind(), "case") {
				continue
			}
			isDefault := clause.Kind() == "default_case"
			caseFlow := b.buildCaseBody(clause)
			if prev != nil {
				b.glue(*prev, caseFlow)
			}
			if isDefault {
				for _, e := range caseFlow.entry {
					b.edge(headId, e, KindDefault, nil)
				}
			} else {
				for _, v := range caseValues(clause, b.src) {
					for _, e := range caseFlow.entry {
						b.edge(headId, e, KindCase, map[string]string{"case": v})
					}
				}
			}
			cf := caseFlow
			prev = &cf
		}
	}
	b.cur.frames = b.cur.frames[:len(b.cur.frames)-1]

	var dangling []edgeStub
	if prev != nil {
		dangling = append(dangling, prev.dangling...)
	}
	dangling = append(dangling, fr.breaks...)
	return flow{entry: []identity.NodeId{headId}, dangling: dangling}
}

// caseValues extracts the comma-separated case expression texts of an
// expression_case/type_switch_case clause.
func caseValues(clause parsetree.Node, src []byte) []string {
	var vals []string
	for i := 0; i < clause.NamedChildCount(); i++ {
		c := clause.NamedChild(i)
		if c == nil {
			continue
		}
		k := c.Kind()
		if strings.HasSuffix(k, "_statement") || strings.HasSuffix(k, "_declaration") {
			break
		}
		if strings.HasSuffix(k, "case") || k == "block" {
			continue
		}
		if k == "expression_list" {
			for j := 0; j < c.NamedChildCount(); j++ {
				vals = append(vals, text(c.NamedChild(j), src))
			}
			continue
		}
		vals = append(vals, text(c, src))
	}
	if len(vals) == 0 {
		vals = []string{"?"}
	}
	return vals
}

// buildCaseBody builds the statement sequence following a case/default
// clause's value expressions (everything but the leading expression list).
func (b *Builder) buildCaseBody(clause parsetree.Node) flow {
	var stmts []parsetree.Node
	seenStmt := false
	for i := 0; i < clause.NamedChildCount(); i++ {
		c := clause.NamedChild(i)
		if c == nil {
			continue
		}
		if !seenStmt && !isCaseStatementKind(c.Kind()) {
			continue
		}
		seenStmt = true
		stmts = append(stmts, c)
	}
	if len(stmts) == 0 {
		id := b.synthFor(b.table.IdFor(clause), "empty_case")
		b.emit(id, "empty", "", line(clause))
		return seqFlow(id)
	}
	var result flow
	var prev flow
	for i, s := range stmts {
		f := b.buildStmt(s)
		if i == 0 {
			result.entry = f.entry
		} else {
			b.glue(prev, f)
		}
		prev = f
	}
	result.dangling = prev.dangling
	return result
}

func isCaseStatementKind(kind string) bool {
	switch kind {
	case "identifier", "expression_list", "type_case":
		return false
	default:
		return true
	}
}

// wireCalls adds spec.md §4.6's call edges: from a call-site statement to
// the callee's synthetic entry node, for calls the symbol extractor
// resolved to an in-file function/method name.
func (b *Builder) wireCalls() {
	for callId := range b.tables.Calls {
		name := b.tables.Label[callId]
		entryId, ok := b.fnIndex[name]
		if !ok {
			continue
		}
		stmtId, ok := b.enclosingStatementID(callId)
		if !ok {
			continue
		}
		b.edge(stmtId, entryId, KindCall, nil)
	}
}

// enclosingStatementID maps a callee identifier's NodeId to the CFG node of
// the statement that is exactly that call (`f()`, `go f()`, `defer f()`): it
// climbs from the identifier to its call_expression and returns the parent's
// id when that parent was emitted as a CFG node. Calls nested inside larger
// expressions (`x := f() + 1`) find no such parent and get no call edge
// (see DESIGN.md).
func (b *Builder) enclosingStatementID(callId identity.NodeId) (identity.NodeId, bool) {
	n, _ := b.table.Node(callId)
	for n != nil && n.Kind() != "call_expression" {
		n = n.Parent()
	}
	if n == nil || n.Parent() == nil {
		return 0, false
	}
	stmtId := b.table.IdFor(n.Parent())
	if _, ok := b.nodes[stmtId]; ok {
		return stmtId, true
	}
	return 0, false
}
