package catalog

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// goCatalog classifies github.com/smacker/go-tree-sitter/golang node kinds.
// Kind names are grounded in the grammar's actual node types as exercised by
// the reference pack's inspector/golang/inspector_tree_sitter.go queries
// (package_clause, import_declaration, type_declaration,
// function_declaration, method_declaration, const_declaration,
// var_declaration) and analyzer/node.go's walk switch
// (short_var_declaration, assignment_statement, call_expression,
// go_statement, send_statement, select_statement, return_statement).
type goCatalog struct{}

// Go is the built-in Go-language catalog; it also drives the only
// fully-implemented CFG front-end (cfgview).
var Go Catalog = goCatalog{}

func (goCatalog) Language() string              { return "go" }
func (goCatalog) GetLanguage() *sitter.Language  { return golang.GetLanguage() }

func (goCatalog) StatementKinds() KindSet {
	return newKindSet(
		"short_var_declaration", "assignment_statement", "var_declaration",
		"const_declaration", "expression_statement", "inc_statement", "dec_statement",
		"if_statement", "for_statement", "expression_switch_statement",
		"type_switch_statement", "select_statement", "break_statement",
		"continue_statement", "return_statement", "goto_statement",
		"labeled_statement", "go_statement", "defer_statement", "send_statement",
		"block",
	)
}

func (goCatalog) NonControlStmt() KindSet {
	return newKindSet(
		"short_var_declaration", "assignment_statement", "var_declaration",
		"const_declaration", "expression_statement", "inc_statement", "dec_statement",
		"send_statement",
	)
}

func (goCatalog) ControlStmt() KindSet {
	return newKindSet(
		"if_statement", "for_statement", "expression_switch_statement",
		"type_switch_statement", "select_statement", "break_statement",
		"continue_statement", "return_statement", "goto_statement",
		"go_statement", "defer_statement",
	)
}

func (goCatalog) LoopStmt() KindSet {
	return newKindSet("for_statement")
}

func (goCatalog) JumpStmt() KindSet {
	return newKindSet("break_statement", "continue_statement", "return_statement", "goto_statement")
}

func (goCatalog) BlockHolders() KindSet {
	return newKindSet("function_declaration", "method_declaration", "func_literal", "source_file", "block")
}

func (goCatalog) DefinitionKinds() KindSet {
	return newKindSet("function_declaration", "method_declaration", "type_declaration", "const_spec", "var_spec")
}

func (goCatalog) ScopeIntroducingKinds() KindSet {
	return newKindSet(
		"function_declaration", "method_declaration", "func_literal", "source_file",
		"block", "if_statement", "for_statement", "expression_switch_statement",
		"type_switch_statement", "select_statement", "type_switch_case", "communication_case",
		"expression_case", "default_case",
	)
}

func (goCatalog) DeclaratorKinds() KindSet {
	return newKindSet(
		"parameter_declaration", "variadic_parameter_declaration",
		"var_spec", "const_spec", "range_clause", "type_switch_guard", "receiver",
		"short_var_declaration",
	)
}

func (goCatalog) TypeChildKinds() KindSet {
	return newKindSet(
		"type_identifier", "pointer_type", "generic_type", "qualified_type",
		"slice_type", "array_type", "map_type", "channel_type", "struct_type",
		"interface_type", "function_type",
	)
}

func (goCatalog) MethodParentKinds() KindSet {
	return newKindSet("call_expression", "function_declaration", "method_declaration")
}
