// Package catalog implements the Language Node Catalog (C3): a pure,
// per-language classification of parse-tree kind strings into the families
// the rest of the core dispatches on. Adding a language is "a matter of
// supplying this table and a CFG front-end" (spec.md §4.3) — see
// cfgview.Builder for the front-end half.
package catalog

import sitter "github.com/smacker/go-tree-sitter"

// KindSet is a lookup table over parse-tree kind strings.
type KindSet map[string]bool

// Has reports whether kind belongs to the set.
func (s KindSet) Has(kind string) bool { return s[kind] }

func newKindSet(kinds ...string) KindSet {
	s := make(KindSet, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}

// Catalog is the per-language classification contract of spec.md §4.3.
type Catalog interface {
	// Language is the catalog's short tag ("go", "java", ...).
	Language() string
	// GetLanguage returns the tree-sitter grammar this catalog classifies,
	// grounded in the base.LanguageConfig shape from the reference pack.
	GetLanguage() *sitter.Language

	StatementKinds() KindSet
	NonControlStmt() KindSet
	ControlStmt() KindSet
	LoopStmt() KindSet
	JumpStmt() KindSet
	BlockHolders() KindSet
	DefinitionKinds() KindSet
	ScopeIntroducingKinds() KindSet

	// DeclaratorKinds are parent kinds that mark a leaf identifier as
	// introducing a binding (spec.md §4.4 "Declaration detection").
	DeclaratorKinds() KindSet
	// TypeChildKinds are kinds a declarator's type child may have, used to
	// populate symbols.Tables.DataType.
	TypeChildKinds() KindSet
	// MethodParentKinds are parent kinds identifying a node as a method or
	// function identifier (declaration or call).
	MethodParentKinds() KindSet
}

// Registry maps language tags to their Catalog, mirroring the teacher's
// Option-based plugin registration (analyzer/option.go's AnalyzerPlugin).
type Registry struct {
	catalogs map[string]Catalog
}

// NewRegistry builds a registry pre-populated with the built-in catalogs.
func NewRegistry() *Registry {
	r := &Registry{catalogs: map[string]Catalog{}}
	r.Register(Go)
	r.Register(Java)
	return r
}

// Register adds or replaces a catalog under its own Language() tag.
func (r *Registry) Register(c Catalog) { r.catalogs[c.Language()] = c }

// Get looks up a catalog by language tag.
func (r *Registry) Get(language string) (Catalog, bool) {
	c, ok := r.catalogs[language]
	return c, ok
}
