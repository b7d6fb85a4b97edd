// Package parsetree is the narrow adapter (C1) over the external
// incremental parser. The core never imports a concrete grammar; it only
// consumes trees through the interfaces in this package.
package parsetree

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Point is a (line, column) source position, zero-based like tree-sitter's.
type Point struct {
	Row    uint32
	Column uint32
}

// Node is the opaque ParseNode contract of spec.md §4.1: a typed, positioned
// tree node with ordered children and a field-name navigator.
type Node interface {
	Kind() string
	Start() Point
	End() Point
	StartByte() uint32
	EndByte() uint32
	Text(src []byte) []byte
	Named() bool
	ChildCount() int
	Child(i int) Node
	NamedChildCount() int
	NamedChild(i int) Node
	FieldChild(name string) Node
	Parent() Node
}

// Tree is a parsed source file.
type Tree interface {
	Root() Node
}

// Parser produces a Tree from source bytes. ParseError is returned when the
// source is not syntactically acceptable for the configured language.
type Parser interface {
	Parse(src []byte) (Tree, error)
}

// ParseError wraps a parser failure; see spec.md §7.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string { return "parse error: " + e.Cause.Error() }
func (e *ParseError) Unwrap() error { return e.Cause }

// sitterNode adapts *sitter.Node to the Node interface.
type sitterNode struct {
	n *sitter.Node
}

// Wrap exposes a raw *sitter.Node through the Node interface. Kept exported
// so language-specific CFG front-ends (cfgview) can recover the concrete
// node when they need tree-sitter-only features (e.g. field iteration order)
// not modeled by the narrow interface.
func Wrap(n *sitter.Node) Node {
	if n == nil {
		return nil
	}
	return sitterNode{n: n}
}

// Unwrap returns the underlying *sitter.Node, or nil if node did not
// originate from this package's tree-sitter adapter.
func Unwrap(node Node) *sitter.Node {
	sn, ok := node.(sitterNode)
	if !ok {
		return nil
	}
	return sn.n
}

func (s sitterNode) Kind() string { return s.n.Type() }

func (s sitterNode) Start() Point {
	p := s.n.StartPoint()
	return Point{Row: p.Row, Column: p.Column}
}

func (s sitterNode) End() Point {
	p := s.n.EndPoint()
	return Point{Row: p.Row, Column: p.Column}
}

func (s sitterNode) StartByte() uint32 { return s.n.StartByte() }
func (s sitterNode) EndByte() uint32   { return s.n.EndByte() }

func (s sitterNode) Text(src []byte) []byte {
	return src[s.n.StartByte():s.n.EndByte()]
}

func (s sitterNode) Named() bool { return s.n.IsNamed() }

func (s sitterNode) ChildCount() int { return int(s.n.ChildCount()) }

func (s sitterNode) Child(i int) Node { return Wrap(s.n.Child(i)) }

func (s sitterNode) NamedChildCount() int { return int(s.n.NamedChildCount()) }

func (s sitterNode) NamedChild(i int) Node { return Wrap(s.n.NamedChild(i)) }

func (s sitterNode) FieldChild(name string) Node { return Wrap(s.n.ChildByFieldName(name)) }

func (s sitterNode) Parent() Node { return Wrap(s.n.Parent()) }

type sitterTree struct {
	t *sitter.Tree
}

func (s sitterTree) Root() Node { return Wrap(s.t.RootNode()) }

// SitterParser adapts a *sitter.Parser (configured with a language via
// SetLanguage) to the Parser interface.
type SitterParser struct {
	parser *sitter.Parser
}

// NewSitterParser builds a Parser bound to the given tree-sitter grammar.
func NewSitterParser(lang *sitter.Language) *SitterParser {
	p := sitter.NewParser()
	p.SetLanguage(lang)
	return &SitterParser{parser: p}
}

func (p *SitterParser) Parse(src []byte) (Tree, error) {
	tree := p.parser.Parse(nil, src)
	if tree == nil || tree.RootNode() == nil {
		return nil, &ParseError{Cause: errParseFailed}
	}
	if tree.RootNode().HasError() {
		return sitterTree{t: tree}, &ParseError{Cause: errSyntaxError}
	}
	return sitterTree{t: tree}, nil
}

var (
	errParseFailed = simpleErr("parser returned no tree")
	errSyntaxError = simpleErr("source contains a syntax error")
)

type simpleErr string

func (e simpleErr) Error() string { return string(e) }
