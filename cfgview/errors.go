package cfgview

import "github.com/jaid-monwar/tree-sitter-codeviews/identity"

// CFGError is an unresolvable jump (spec.md §7): a goto to an undeclared
// label, or break/continue outside any enclosing construct. It is reported
// per-function — the affected function yields a partial CFG with the
// offending edge omitted and a diagnostic attached to the function entry
// node's Extra map, not a fatal error.
type CFGError struct {
	Msg      string
	FuncName string
	NodeID   identity.NodeId
}

func (e *CFGError) Error() string { return "cfg error in " + e.FuncName + ": " + e.Msg }
