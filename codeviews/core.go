// Package codeviews is the public entry point of the core: it wires the
// Node Identity Table (C2), Symbol Extractor (C4) and the view builders
// (C5–C7) behind Generate, and composes whichever views the caller asked
// for (C8), mirroring how analyzer.Analyzer.Analyze sequences its own
// pipeline in the reference pack.
package codeviews

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jaid-monwar/tree-sitter-codeviews/astview"
	"github.com/jaid-monwar/tree-sitter-codeviews/catalog"
	"github.com/jaid-monwar/tree-sitter-codeviews/cfgview"
	"github.com/jaid-monwar/tree-sitter-codeviews/compose"
	"github.com/jaid-monwar/tree-sitter-codeviews/dfgview"
	"github.com/jaid-monwar/tree-sitter-codeviews/identity"
	"github.com/jaid-monwar/tree-sitter-codeviews/parsetree"
	"github.com/jaid-monwar/tree-sitter-codeviews/schema"
	"github.com/jaid-monwar/tree-sitter-codeviews/symbols"
)

// View names one of the three view families a Config can request.
type View string

const (
	AST View = "AST"
	CFG View = "CFG"
	DFG View = "DFG"
)

// Config is the core's configuration surface (spec.md §6), a plain struct in
// the style of the teacher's own request/options structs rather than a
// functional-options API — Generate is called once per source file with a
// fully-formed Config, there is no builder state to thread through.
type Config struct {
	// Views selects which view builders run. An empty set defaults to all
	// three.
	Views []View
	// ASTBlacklist names parse-tree kinds to remove from the AST view
	// (spec.md §4.5).
	ASTBlacklist []string
	// ASTCollapse enables same-label leaf collapsing on the AST view
	// (spec.md §4.5).
	ASTCollapse bool
	// DFGLastDef annotates DFG edges with the source line of the definition.
	DFGLastDef bool
	// DFGLastUse annotates DFG edges with the most recent prior use's line.
	DFGLastUse bool
	// StrictParse aborts Generate on any parser error instead of emitting a
	// best-effort partial graph with a captured diagnostic (spec.md §7).
	StrictParse bool
}

func (c Config) wantsView(v View) bool {
	if len(c.Views) == 0 {
		return true
	}
	for _, want := range c.Views {
		if want == v {
			return true
		}
	}
	return false
}

// Generate runs the full pipeline over src: parse → identity → symbols →
// {AST, CFG, DFG} view builders → compose (spec.md §4's data-flow summary).
// ScopeError and RDAError are fatal invariant violations and are returned
// directly (callers may errors.As them per §7). ParseError is soft and
// collected into the returned graph's Diagnostics trailer unless
// cfg.StrictParse is set, in which case it is returned; CFGError is always
// soft and collected into the trailer.
func Generate(src []byte, cat catalog.Catalog, parser parsetree.Parser, cfg Config) (*schema.Graph, error) {
	runID := uuid.NewString()

	tree, err := parser.Parse(src)
	var perr *parsetree.ParseError
	if err != nil {
		if !errors.As(err, &perr) {
			return nil, fmt.Errorf("codeviews: generate: %w", err)
		}
		if cfg.StrictParse {
			return nil, fmt.Errorf("codeviews: generate: %w", err)
		}
	}

	var root parsetree.Node
	if tree != nil {
		root = tree.Root()
	}

	table := identity.New(1)
	if root != nil {
		table.Build(root)
	}

	extractor := symbols.NewExtractor(cat, table)
	var tables *symbols.Tables
	if root != nil {
		// ScopeError is fatal (spec.md §7): propagate directly so callers
		// can errors.As it, rather than folding it into the diagnostics
		// trailer with the soft errors.
		if werr := extractor.Walk(root, src); werr != nil {
			return nil, fmt.Errorf("codeviews: generate: %w", werr)
		}
		tables = extractor.Tables()
	}

	var diags []schema.Diagnostic
	if perr != nil {
		diags = append(diags, schema.Diagnostic{Kind: "ParseError", Message: perr.Error()})
	}

	var graphs []*schema.Graph

	var astGraph *schema.Graph
	if cfg.wantsView(AST) && root != nil {
		astGraph = astview.NewBuilder(table).Build(root, src)
		if len(cfg.ASTBlacklist) > 0 {
			astGraph = astview.Blacklist(astGraph, kindSet(cfg.ASTBlacklist))
		}
		if cfg.ASTCollapse {
			astGraph = astview.Collapse(astGraph)
		}
		graphs = append(graphs, astGraph)
	}

	var cfgGraph *schema.Graph
	var fns []cfgview.FunctionInfo
	needCFG := cfg.wantsView(CFG) || cfg.wantsView(DFG)
	if needCFG && root != nil {
		// cfgview.Builder is a Go-only front-end (cfgview/golang.go); running
		// it against any other catalog's parse tree falls through buildStmt's
		// default case into buildPlain for nearly every statement kind,
		// producing a structurally-wrong CFG/DFG with no diagnostic. Skip CFG
		// and DFG for any language that has no real front-end instead of
		// silently emitting one.
		if cat.Language() != "go" {
			diags = append(diags, schema.Diagnostic{
				Kind:    "UnsupportedCFGLanguage",
				Message: fmt.Sprintf("codeviews: no CFG front-end for language %q; skipping CFG/DFG", cat.Language()),
			})
		} else {
			cfgBuilder := cfgview.NewBuilder(cat, table, tables)
			cfgGraph = cfgBuilder.Build(root, src)
			fns = cfgBuilder.Functions()
			for _, d := range cfgGraph.Diagnostics {
				diags = append(diags, d)
			}
			if cfg.wantsView(CFG) {
				graphs = append(graphs, cfgGraph)
			}
		}
	}

	if cfg.wantsView(DFG) && cfgGraph != nil {
		dfgGraph, derr := dfgview.Build(table, cfgGraph, fns, src, dfgview.Options{LastDef: cfg.DFGLastDef, LastUse: cfg.DFGLastUse})
		if derr != nil {
			return nil, fmt.Errorf("codeviews: generate: %w", derr)
		}
		graphs = append(graphs, dfgGraph)
	}

	out := compose.Compose(graphs...)
	out.RunID = runID
	out.Diagnostics = append(out.Diagnostics, diags...)
	return out, nil
}

func kindSet(kinds []string) catalog.KindSet {
	s := make(catalog.KindSet, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}
