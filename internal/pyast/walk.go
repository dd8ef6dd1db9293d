package pyast

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// definition unwraps a decorated_definition to the function_definition or
// class_definition it wraps. Decorator expressions themselves are never
// descended into as part of the wrapped function's own body: a decorator
// that itself raises isn't attributed to the function it wraps.
func definition(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() != "decorated_definition" {
		return node
	}
	if def := node.ChildByFieldName("definition"); def != nil {
		return def
	}
	for i := int(node.ChildCount()) - 1; i >= 0; i-- {
		child := node.Child(i)
		if child.Type() == "function_definition" || child.Type() == "class_definition" {
			return child
		}
	}
	return node
}

// decoratorNames returns the bare decorator names (without '@' or call args)
// attached to a possibly-decorated definition node.
func decoratorNames(node *sitter.Node, src []byte) []string {
	if node == nil || node.Parent() == nil || node.Parent().Type() != "decorated_definition" {
		return nil
	}
	wrapper := node.Parent()
	var names []string
	for i := 0; i < int(wrapper.ChildCount()); i++ {
		child := wrapper.Child(i)
		if child.Type() != "decorator" {
			continue
		}
		text := strings.TrimPrefix(child.Content(src), "@")
		if idx := strings.Index(text, "("); idx != -1 {
			text = text[:idx]
		}
		names = append(names, strings.TrimSpace(text))
	}
	return names
}

// directChildren returns every named child of node whose type is in kinds,
// unwrapping decorated_definition wrappers as it goes.
func directChildren(node *sitter.Node, kinds ...string) []*sitter.Node {
	if node == nil {
		return nil
	}
	want := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	var out []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		resolved := definition(child)
		if want[resolved.Type()] {
			out = append(out, resolved)
		}
	}
	return out
}

// findByName finds the first direct child of kind `kind` whose "name" field
// equals `name`, unwrapping decorated definitions.
func findByName(body *sitter.Node, kind, name string, src []byte) *sitter.Node {
	for _, node := range directChildren(body, kind) {
		nameNode := node.ChildByFieldName("name")
		if nameNode != nil && nameNode.Content(src) == name {
			return node
		}
	}
	return nil
}

// walk performs a depth-first traversal over node, calling visit on every
// descendant (node included) until visit returns false for a subtree.
func walk(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		walk(node.NamedChild(i), visit)
	}
}
