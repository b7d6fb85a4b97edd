package dfgview

import (
	"strings"

	"github.com/jaid-monwar/tree-sitter-codeviews/identity"
	"github.com/jaid-monwar/tree-sitter-codeviews/parsetree"
)

// extract computes, for every named CFG node backed by a real parse node,
// the definitions it generates, the variable names it kills (same name as a
// generated definition — spec.md's KILL), and the variable names it uses.
// Synthetic nodes (entry/exit/loop headers with no explicit condition,
// empty blocks) contribute no use, and no gen except that the entry node
// generates one definition per parameter.
func extract(table *identity.Table, nodeIds []identity.NodeId, params []string, entryId identity.NodeId, src []byte) (
	gen map[identity.NodeId]DefSet, killVars map[identity.NodeId]map[string]bool, uses map[identity.NodeId][]string,
) {
	gen = map[identity.NodeId]DefSet{}
	killVars = map[identity.NodeId]map[string]bool{}
	uses = map[identity.NodeId][]string{}

	if len(params) > 0 {
		ds := DefSet{}
		for _, p := range params {
			ds[Definition{Var: p, Node: entryId, Value: "<param>"}] = true
		}
		gen[entryId] = ds
		killVars[entryId] = varSet(params)
	}

	for _, id := range nodeIds {
		n, ok := table.Node(id)
		if !ok {
			continue
		}
		defs, definedNames, used := genKillUses(n, src)
		if len(defs) > 0 {
			ds := gen[id]
			if ds == nil {
				ds = DefSet{}
			}
			for _, d := range defs {
				d.Node = id
				ds[d] = true
			}
			gen[id] = ds
			kv := killVars[id]
			if kv == nil {
				kv = map[string]bool{}
			}
			for _, name := range definedNames {
				kv[name] = true
			}
			killVars[id] = kv
		}
		if len(used) > 0 {
			uses[id] = used
		}
	}
	return gen, killVars, uses
}

func varSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// genKillUses inspects a single statement's parse node and splits its
// identifiers into definitions and uses. It is a Go-specific adaptation of
// the teacher's extractIdentifiers (analyzer/identifier.go) restricted to
// the shapes that introduce or kill a reaching definition.
func genKillUses(n parsetree.Node, src []byte) (defs []Definition, definedNames []string, uses []string) {
	switch n.Kind() {
	case "short_var_declaration":
		left := n.FieldChild("left")
		right := n.FieldChild("right")
		names := identifierTexts(left, src)
		vals := splitTopLevelValues(right, src)
		for i, name := range names {
			val := Undef
			if i < len(vals) {
				val = vals[i]
			}
			defs = append(defs, Definition{Var: name, Node: identity.NodeId(0), Value: val})
			definedNames = append(definedNames, name)
		}
		uses = append(uses, collectUses(right, src)...)
		return defs, definedNames, uses

	case "assignment_statement":
		left := n.FieldChild("left")
		right := n.FieldChild("right")
		names := identifierTexts(left, src)
		vals := splitTopLevelValues(right, src)
		for i, name := range names {
			val := Undef
			if i < len(vals) {
				val = vals[i]
			}
			defs = append(defs, Definition{Var: name, Value: val})
			definedNames = append(definedNames, name)
		}
		uses = append(uses, collectUses(right, src)...)
		return defs, definedNames, uses

	case "var_declaration":
		for i := 0; i < n.NamedChildCount(); i++ {
			spec := n.NamedChild(i)
			if spec == nil || spec.Kind() != "var_spec" {
				continue
			}
			nameField := spec.FieldChild("name")
			names := identifierTexts(nameField, src)
			value := spec.FieldChild("value")
			vals := splitTopLevelValues(value, src)
			for i, name := range names {
				val := Undef
				if i < len(vals) {
					val = vals[i]
				}
				defs = append(defs, Definition{Var: name, Value: val})
				definedNames = append(definedNames, name)
			}
			uses = append(uses, collectUses(value, src)...)
		}
		return defs, definedNames, uses

	case "inc_statement", "dec_statement":
		operand := n.NamedChild(0)
		uses = collectUses(n, src)
		if operand != nil && operand.Kind() == "identifier" {
			name := string(operand.Text(src))
			defs = append(defs, Definition{Var: name, Value: strings.TrimSpace(string(n.Text(src)))})
			definedNames = append(definedNames, name)
		}
		return defs, definedNames, uses

	default:
		uses = collectUses(n, src)
		return nil, nil, uses
	}
}

// identifierTexts reads the (possibly comma-joined) identifier names out of
// an expression_list / single identifier / var_spec "name" field.
func identifierTexts(n parsetree.Node, src []byte) []string {
	if n == nil {
		return nil
	}
	if n.Kind() == "identifier" {
		return []string{string(n.Text(src))}
	}
	var out []string
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c != nil && c.Kind() == "identifier" {
			out = append(out, string(c.Text(src)))
		}
	}
	return out
}

// splitTopLevelValues returns the textual form of each top-level value in an
// expression_list (or the single expression itself), used as a definition's
// recorded Value.
func splitTopLevelValues(n parsetree.Node, src []byte) []string {
	if n == nil {
		return nil
	}
	if n.Kind() != "expression_list" {
		return []string{strings.TrimSpace(string(n.Text(src)))}
	}
	var out []string
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c != nil {
			out = append(out, strings.TrimSpace(string(c.Text(src))))
		}
	}
	return out
}

// collectUses walks n (without descending into nested func_literal bodies)
// collecting leaf identifier texts, the use-side half of
// analyzer/identifier.go's extractIdentifiers.
func collectUses(n parsetree.Node, src []byte) []string {
	if n == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	var walk func(parsetree.Node)
	walk = func(cur parsetree.Node) {
		if cur == nil {
			return
		}
		if cur.Kind() == "identifier" && cur.NamedChildCount() == 0 {
			name := string(cur.Text(src))
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
			return
		}
		if cur.Kind() == "func_literal" {
			return
		}
		for i := 0; i < cur.ChildCount(); i++ {
			walk(cur.Child(i))
		}
	}
	walk(n)
	return out
}
