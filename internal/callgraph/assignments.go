package callgraph

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ManiMozaffar/richapi-go/internal/resolver"
)

// AssignmentMap is the per-function mapping from local identifier to the
// symbolic name most recently assigned to it. Scope is the whole function
// body; there is no flow-sensitivity, so a later assignment simply
// overwrites an earlier one regardless of control flow.
type AssignmentMap map[string]string

// compoundBodies are the statement kinds TrackAssignments recurses into
// without crossing into a new function/class scope.
var compoundBodies = []string{"if_statement", "for_statement", "while_statement", "try_statement", "with_statement", "elif_clause", "else_clause", "except_clause", "finally_clause"}

// TrackAssignments walks body (a function's block) and records every bare
// assignment target, skipping into nested blocks (if/for/while/try/with)
// but never into a nested function_definition or class_definition, which
// open their own scope.
func TrackAssignments(body *sitter.Node, src []byte) AssignmentMap {
	m := AssignmentMap{}
	if body == nil {
		return m
	}
	walkAssignmentScope(body, src, m)
	return m
}

func walkAssignmentScope(node *sitter.Node, src []byte, m AssignmentMap) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		stmt := node.NamedChild(i)
		switch stmt.Type() {
		case "function_definition", "class_definition", "decorated_definition":
			continue
		case "expression_statement":
			if stmt.NamedChildCount() == 0 {
				continue
			}
			if inner := stmt.NamedChild(0); inner.Type() == "assignment" {
				recordAssignment(inner, src, m)
			}
		default:
			if isCompoundBody(stmt.Type()) {
				descendCompound(stmt, src, m)
			}
		}
	}
}

func isCompoundBody(kind string) bool {
	for _, k := range compoundBodies {
		if k == kind {
			return true
		}
	}
	return false
}

// descendCompound recurses into every child "body"-ish block of a
// compound statement (if/elif/else bodies, for/while bodies, try/except/
// finally blocks) without re-checking the compound node itself again.
func descendCompound(node *sitter.Node, src []byte, m AssignmentMap) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "block":
			walkAssignmentScope(child, src, m)
		default:
			if isCompoundBody(child.Type()) {
				descendCompound(child, src, m)
			}
		}
	}
}

func recordAssignment(node *sitter.Node, src []byte, m AssignmentMap) {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	if left == nil || right == nil || left.Type() != "identifier" {
		return
	}
	symbolic, ok := symbolicNameOf(right, src)
	if !ok {
		// A binding whose RHS isn't expressible as a name/call/attribute
		// chain is dropped entirely, not recorded as unknown.
		return
	}
	m[left.Content(src)] = symbolic
}

// symbolicNameOf resolves the "symbolic name" of an expression: a name,
// call-of-name, attribute chain, or `await` of one of those. Anything
// else (lambdas, comprehensions, binary ops, literals) yields ok=false.
func symbolicNameOf(node *sitter.Node, src []byte) (string, bool) {
	if node.Type() == "await" {
		if node.NamedChildCount() == 0 {
			return "", false
		}
		node = node.NamedChild(0)
	}
	return resolver.ResolveAttributePath(node, src)
}
