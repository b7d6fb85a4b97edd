package catalog

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// javaCatalog classifies github.com/smacker/go-tree-sitter/java node kinds,
// grounded in analyzer/java_analyzer.go's kind-string usage (class_declaration,
// method_declaration, field_declaration, variable_declarator, marker_annotation,
// normal_annotation). It is exercised today by symbols and astview only; no
// cfgview front-end is registered for "java" (see DESIGN.md).
type javaCatalog struct{}

// Java is the built-in Java-language catalog.
var Java Catalog = javaCatalog{}

func (javaCatalog) Language() string             { return "java" }
func (javaCatalog) GetLanguage() *sitter.Language { return java.GetLanguage() }

func (javaCatalog) StatementKinds() KindSet {
	return newKindSet(
		"local_variable_declaration", "expression_statement", "if_statement",
		"for_statement", "enhanced_for_statement", "while_statement",
		"do_statement", "switch_expression", "break_statement",
		"continue_statement", "return_statement", "throw_statement",
		"try_statement", "synchronized_statement", "block",
	)
}

func (javaCatalog) NonControlStmt() KindSet {
	return newKindSet("local_variable_declaration", "expression_statement")
}

func (javaCatalog) ControlStmt() KindSet {
	return newKindSet(
		"if_statement", "for_statement", "enhanced_for_statement",
		"while_statement", "do_statement", "switch_expression",
		"break_statement", "continue_statement", "return_statement",
		"throw_statement", "try_statement", "synchronized_statement",
	)
}

func (javaCatalog) LoopStmt() KindSet {
	return newKindSet("for_statement", "enhanced_for_statement", "while_statement", "do_statement")
}

func (javaCatalog) JumpStmt() KindSet {
	return newKindSet("break_statement", "continue_statement", "return_statement")
}

func (javaCatalog) BlockHolders() KindSet {
	return newKindSet("class_declaration", "method_declaration", "constructor_declaration", "program", "block")
}

func (javaCatalog) DefinitionKinds() KindSet {
	return newKindSet("class_declaration", "interface_declaration", "method_declaration", "constructor_declaration", "field_declaration")
}

func (javaCatalog) ScopeIntroducingKinds() KindSet {
	return newKindSet(
		"class_declaration", "interface_declaration", "method_declaration",
		"constructor_declaration", "program", "block", "if_statement",
		"for_statement", "enhanced_for_statement", "while_statement",
		"do_statement", "try_statement", "catch_clause",
	)
}

func (javaCatalog) DeclaratorKinds() KindSet {
	return newKindSet("variable_declarator", "formal_parameter", "catch_formal_parameter", "enhanced_for_statement")
}

func (javaCatalog) TypeChildKinds() KindSet {
	return newKindSet("type_identifier", "generic_type", "array_type", "integral_type", "floating_point_type", "boolean_type")
}

func (javaCatalog) MethodParentKinds() KindSet {
	return newKindSet("method_invocation", "method_declaration", "constructor_declaration")
}
