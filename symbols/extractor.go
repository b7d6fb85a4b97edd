package symbols

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/jaid-monwar/tree-sitter-codeviews/catalog"
	"github.com/jaid-monwar/tree-sitter-codeviews/identity"
	"github.com/jaid-monwar/tree-sitter-codeviews/parsetree"
)

// ScopeError is a fatal internal-invariant violation (spec.md §7), e.g. a pop
// on an empty scope stack. It indicates a bug in the catalog or extractor,
// never a defect in the input source.
type ScopeError struct {
	Msg string
}

func (e *ScopeError) Error() string { return "scope error: " + e.Msg }

// declEntry records one candidate declaration for use-resolution (spec.md
// I2/I3/§4.4).
type declEntry struct {
	id    identity.NodeId
	scope []ScopeId
}

// Extractor performs the single pre-order walk of C4.
type Extractor struct {
	table   *identity.Table
	catalog catalog.Catalog
	tables  *Tables

	scopeStack  []ScopeId
	nextScope   ScopeId
	declsByName map[string][]declEntry
}

// NewExtractor builds an Extractor that resolves ids through the caller's
// identity.Table and writes into a fresh Tables bundle for cat's language.
func NewExtractor(cat catalog.Catalog, table *identity.Table) *Extractor {
	return &Extractor{
		table:       table,
		catalog:     cat,
		tables:      NewTables(),
		declsByName: map[string][]declEntry{},
	}
}

// Tables returns the symbol tables populated by Walk.
func (e *Extractor) Tables() *Tables { return e.tables }

// Walk performs the C4 pre-order traversal over root, populating Tables.
func (e *Extractor) Walk(root parsetree.Node, src []byte) error {
	return e.visit(root, src)
}

func (e *Extractor) currentScope() []ScopeId {
	out := make([]ScopeId, len(e.scopeStack))
	copy(out, e.scopeStack)
	return out
}

func (e *Extractor) pushScope() ScopeId {
	id := e.nextScope + 1
	e.nextScope = id
	var parent ScopeId
	if len(e.scopeStack) > 0 {
		parent = e.scopeStack[len(e.scopeStack)-1]
	}
	e.tables.scopeParent[id] = parent
	e.scopeStack = append(e.scopeStack, id)
	return id
}

func (e *Extractor) popScope() error {
	if len(e.scopeStack) == 0 {
		return &ScopeError{Msg: "pop on empty scope stack"}
	}
	e.scopeStack = e.scopeStack[:len(e.scopeStack)-1]
	return nil
}

func (e *Extractor) visit(n parsetree.Node, src []byte) error {
	if n == nil {
		return nil
	}
	named := n.Named()
	var id identity.NodeId
	if named {
		id = e.table.IdFor(n)
		e.tables.ScopeMap[id] = e.currentScope()
		if line := int(n.Start().Row) + 1; e.tables.StartLine[id] == 0 {
			e.tables.StartLine[id] = line
		}
		if anns := e.extractAnnotations(n, src); len(anns) > 0 {
			e.tables.Annotation[id] = anns
		}
	}

	introducesScope := named && e.catalog.ScopeIntroducingKinds().Has(n.Kind())
	if introducesScope {
		e.pushScope()
	}

	if named {
		e.processLeafOrDecl(n, id, src)
	}

	for i := 0; i < n.ChildCount(); i++ {
		if err := e.visit(n.Child(i), src); err != nil {
			return err
		}
	}

	if introducesScope {
		if err := e.popScope(); err != nil {
			return err
		}
	}
	return nil
}

// processLeafOrDecl implements spec.md §4.4's leaf processing, method
// identification, declaration detection and use-to-decl resolution.
func (e *Extractor) processLeafOrDecl(n parsetree.Node, id identity.NodeId, src []byte) {
	isLeaf := n.NamedChildCount() == 0
	if !isLeaf || n.Kind() == "comment" {
		e.methodAndCallCheck(n, id, src)
		return
	}

	text := string(n.Text(src))
	e.tables.Tokens = append(e.tables.Tokens, id)
	e.tables.Label[id] = text

	e.methodAndCallCheck(n, id, src)

	if decl := e.declaratorOf(n); decl != nil && looksLikeIdentifier(n.Kind()) {
		e.tables.Declaration[id] = text
		if typ := decl.FieldChild("type"); typ != nil && e.catalog.TypeChildKinds().Has(typ.Kind()) {
			e.tables.DataType[id] = string(typ.Text(src))
		}
		e.declsByName[text] = append(e.declsByName[text], declEntry{id: id, scope: e.tables.ScopeMap[id]})
		return
	}

	if looksLikeIdentifier(n.Kind()) {
		e.resolveUse(text, id)
	}
}

// resolveUse implements I2/I3: among in-scope candidates with a matching
// name, pick the one with the longest matching scope prefix, breaking ties
// by the greatest NodeId (most recently introduced).
func (e *Extractor) resolveUse(name string, useId identity.NodeId) {
	candidates := e.declsByName[name]
	if len(candidates) == 0 {
		return
	}
	useScope := e.tables.ScopeMap[useId]
	var best *declEntry
	for i := range candidates {
		c := &candidates[i]
		if !IsPrefix(c.scope, useScope) {
			continue
		}
		if best == nil ||
			len(c.scope) > len(best.scope) ||
			(len(c.scope) == len(best.scope) && c.id > best.id) {
			best = c
		}
	}
	if best != nil {
		e.tables.DeclarationMap[useId] = best.id
	}
}

// methodAndCallCheck implements spec.md §4.4's "Method identification":
// records an identifier in Methods when its parent marks it as a
// function/method declaration or invocation target, and additionally in
// Calls (I4: Calls ⊆ Methods) when it appears at a call site.
func (e *Extractor) methodAndCallCheck(n parsetree.Node, id identity.NodeId, src []byte) {
	parent := n.Parent()
	if parent == nil || !e.catalog.MethodParentKinds().Has(parent.Kind()) {
		return
	}
	switch parent.Kind() {
	case "function_declaration", "method_declaration", "constructor_declaration", "method_invocation":
		if name := parent.FieldChild("name"); name != nil && sameSpan(name, n) {
			e.tables.Methods[id] = true
		}
	}
	if parent.Kind() == "call_expression" || parent.Kind() == "method_invocation" {
		fn := parent.FieldChild("function")
		if fn == nil {
			fn = parent.FieldChild("name")
		}
		target := fn
		if target != nil && target.Kind() == "selector_expression" {
			target = target.FieldChild("field")
		}
		if target != nil && sameSpan(target, n) {
			e.tables.Methods[id] = true
			e.tables.Calls[id] = true
		}
	}
}

// declaratorOf returns the node that classifies identifier n as a
// declaration, or nil if n is not one. Most declarator kinds (var_spec,
// const_spec, parameter_declaration, ...) hold their name identifier
// directly, so n.Parent() itself is checked against DeclaratorKinds. The Go
// grammar's short_var_declaration is the one exception: its "left" field is
// an expression_list even for a single name (`x := 1` still wraps x), so
// that one level of wrapping is unwrapped before the DeclaratorKinds check.
func (e *Extractor) declaratorOf(n parsetree.Node) parsetree.Node {
	parent := n.Parent()
	if parent == nil {
		return nil
	}
	if e.catalog.DeclaratorKinds().Has(parent.Kind()) {
		return parent
	}
	if parent.Kind() == "expression_list" {
		grandparent := parent.Parent()
		if grandparent != nil && e.catalog.DeclaratorKinds().Has(grandparent.Kind()) {
			if left := grandparent.FieldChild("left"); left != nil && sameSpan(left, parent) {
				return grandparent
			}
		}
	}
	return nil
}

func sameSpan(a, b parsetree.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

func looksLikeIdentifier(kind string) bool {
	return strings.Contains(kind, "identifier")
}

// annotationRe matches "@key=value" or "@key:value" tokens inside a leading
// line comment (adapted from analyzer/meta.go's extractAnnotations).
var annotationRe = regexp.MustCompile(`@([\w.-]+)(?:[=:]([^\s]+))?`)

// extractAnnotations recovers "// @key=value" metadata from the run of line
// comments immediately preceding n's line. It is a deliberately smaller
// adaptation of the teacher's extractAnnotations: comment scanning only; Go
// struct tags and Java annotation nodes are not read.
func (e *Extractor) extractAnnotations(n parsetree.Node, src []byte) map[string]string {
	anns := map[string]string{}
	start := int(n.StartByte())
	if start > 0 {
		i := start - 1
		for i >= 0 && src[i] != '\n' {
			i--
		}
		// Step past n's own line so the first candidate is the line above it.
		i--
		for i >= 0 && src[i] != '\n' {
			i--
		}
		for i >= -1 {
			lineEnd := bytes.IndexByte(src[i+1:], '\n')
			if lineEnd == -1 {
				lineEnd = len(src) - (i + 1)
			}
			line := bytes.TrimSpace(src[i+1 : i+1+lineEnd])
			if !bytes.HasPrefix(line, []byte("//")) {
				break
			}
			for _, m := range annotationRe.FindAllSubmatch(line, -1) {
				key := string(m[1])
				val := ""
				if len(m) > 2 {
					val = string(m[2])
				}
				anns[key] = val
			}
			i--
			for i >= 0 && src[i] != '\n' {
				i--
			}
		}
	}
	if len(anns) == 0 {
		return nil
	}
	return anns
}
