// Package symbols implements the Symbol Extractor (C4): a single pre-order
// walk of a parse tree that populates the symbol tables of spec.md §3 from
// which the AST, CFG and DFG views are all derived.
package symbols

import (
	"github.com/jaid-monwar/tree-sitter-codeviews/identity"
)

// ScopeId is a monotonic identifier for a lexical scope, minted in entry
// order (spec.md §4.4 "scope-ids are a monotonic counter").
type ScopeId int

// Tables is the spec.md §3 symbol-table bundle, keyed by identity.NodeId
// unless noted.
type Tables struct {
	// Tokens is the ordered sequence of leaf NodeIds in source order.
	Tokens []identity.NodeId
	// Label maps a leaf NodeId to its text (identifier/literal text). CFG
	// statement labels are synthesized by cfgview onto its own graph nodes
	// and are not stored here.
	Label map[identity.NodeId]string
	// StartLine maps a NodeId to its source line (1-based).
	StartLine map[identity.NodeId]int
	// Methods is the set of NodeIds that are method/function identifiers.
	Methods map[identity.NodeId]bool
	// Calls is the subset of Methods appearing at a call site. Calls ⊆ Methods (I4).
	Calls map[identity.NodeId]bool
	// Declaration maps a declaration NodeId to its declared name.
	Declaration map[identity.NodeId]string
	// DeclarationMap maps a use-NodeId to the decl-NodeId that binds it.
	DeclarationMap map[identity.NodeId]identity.NodeId
	// ScopeMap maps a NodeId to the scope stack (outermost first) active when
	// the node was visited.
	ScopeMap map[identity.NodeId][]ScopeId
	// DataType maps a declaration NodeId to its declared type text, when
	// syntactically available.
	DataType map[identity.NodeId]string
	// Annotation maps any NodeId to key/value metadata recovered from
	// preceding "// @key=value" comments (adapted from analyzer/meta.go's
	// extractAnnotations); struct tags are not read.
	Annotation map[identity.NodeId]map[string]string

	// scopeParent records, for every minted ScopeId, its parent (0 for the
	// root scope) so callers can reconstruct the scope tree if needed.
	scopeParent map[ScopeId]ScopeId
}

// NewTables allocates an empty, ready-to-populate Tables.
func NewTables() *Tables {
	return &Tables{
		Label:          map[identity.NodeId]string{},
		StartLine:      map[identity.NodeId]int{},
		Methods:        map[identity.NodeId]bool{},
		Calls:          map[identity.NodeId]bool{},
		Declaration:    map[identity.NodeId]string{},
		DeclarationMap: map[identity.NodeId]identity.NodeId{},
		ScopeMap:       map[identity.NodeId][]ScopeId{},
		DataType:       map[identity.NodeId]string{},
		Annotation:     map[identity.NodeId]map[string]string{},
		scopeParent:    map[ScopeId]ScopeId{},
	}
}

// ScopeParent returns the parent of a scope, and ok=false for the root scope
// (whose id is always 0, conventionally meaning "no scope").
func (t *Tables) ScopeParent(s ScopeId) (ScopeId, bool) {
	p, ok := t.scopeParent[s]
	return p, ok
}

// IsPrefix reports whether scope chain a is a prefix of scope chain b
// (spec.md I2 — "decl visible at use").
func IsPrefix(a, b []ScopeId) bool {
	if len(a) > len(b) {
		return false
	}
	for i, s := range a {
		if b[i] != s {
			return false
		}
	}
	return true
}
