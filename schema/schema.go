// Package schema defines the Output Schema (C9): the language-agnostic
// Node/Edge record stream consumed by downstream serializers. The core's
// external contract ends here — concrete file formats (DOT, PNG,
// JSON-node-link) are a collaborator's concern (spec.md §6).
package schema

import (
	"fmt"

	"github.com/jaid-monwar/tree-sitter-codeviews/identity"
	"gopkg.in/yaml.v3"
)

// View names the three view families a node/edge can belong to.
type View string

const (
	AST View = "AST"
	CFG View = "CFG"
	DFG View = "DFG"
)

// Node is the abstract node record of spec.md §4.9.
type Node struct {
	ID       identity.NodeId   `yaml:"id"`
	ViewTags map[View]bool     `yaml:"viewTags"`
	Kind     string            `yaml:"kind"`
	Label    string            `yaml:"label"`
	Line     int               `yaml:"line,omitempty"`
	Extra    map[string]string `yaml:"extra,omitempty"`
}

// Edge is the abstract edge record of spec.md §4.9. Multiple edges between
// the same (Source, Target) pair are legal and distinguished by
// (ViewTag, Kind) (spec.md's multigraph semantics).
type Edge struct {
	Source  identity.NodeId   `yaml:"source"`
	Target  identity.NodeId   `yaml:"target"`
	ViewTag View              `yaml:"view"`
	Kind    string            `yaml:"kind"`
	Extra   map[string]string `yaml:"extra,omitempty"`
}

// Diagnostic is one entry of the §7 soft-error trailer: a CFGError, a
// captured ParseError that did not abort processing, or an
// UnsupportedCFGLanguage notice.
type Diagnostic struct {
	Kind    string `yaml:"kind"`
	Message string `yaml:"message"`
	NodeID  *identity.NodeId `yaml:"nodeId,omitempty"`
	Line    int    `yaml:"line,omitempty"`
}

// Graph is a composed, or single-view, multigraph plus its diagnostics
// trailer. RunID correlates a single codeviews.Generate invocation across
// logs (see SPEC_FULL.md §2's ambient-stack note).
type Graph struct {
	RunID       string       `yaml:"runId,omitempty"`
	Nodes       []Node       `yaml:"nodes"`
	Edges       []Edge       `yaml:"edges"`
	Diagnostics []Diagnostic `yaml:"diagnostics,omitempty"`
}

// MarshalDebugYAML renders the graph as YAML for debugging/tests. It is not
// a serializer in the §1 "out of scope" sense: no file is written and no
// concrete downstream format (DOT/JSON-node-link) is implemented, only a
// human-readable dump of the abstract schema itself.
func (g *Graph) MarshalDebugYAML() ([]byte, error) {
	b, err := yaml.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("marshal debug yaml: %w", err)
	}
	return b, nil
}

// NodeByID finds a node by id, if present.
func (g *Graph) NodeByID(id identity.NodeId) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}
