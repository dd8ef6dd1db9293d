package pyast

import sitter "github.com/smacker/go-tree-sitter"

// Class is the Go stand-in for a Python class object: its base-class
// names (used to check exception-root membership), its PEP 526 class-body
// annotations (the static substitute for cls.__annotations__, used to
// resolve self.<attr> and cls.<attr> types), and its methods, indexed
// when the class is built from its module's tree.
type Class struct {
	Name        string
	Module      *Module
	Node        *sitter.Node
	Bases       []string
	Annotations map[string]string // attr name -> annotation text, from class-body "x: T" statements
	ClassAttrs  map[string]string // attr name -> assigned-value text, from class-body "x = expr" statements

	methods map[string]*Function
}

func newClass(node *sitter.Node, mod *Module, src []byte) *Class {
	name := ""
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		name = nameNode.Content(src)
	}

	cls := &Class{
		Name:        name,
		Module:      mod,
		Node:        node,
		Annotations: map[string]string{},
		ClassAttrs:  map[string]string{},
		methods:     map[string]*Function{},
	}

	if super := node.ChildByFieldName("superclasses"); super != nil {
		for i := 0; i < int(super.NamedChildCount()); i++ {
			arg := super.NamedChild(i)
			if arg.Type() == "identifier" || arg.Type() == "attribute" {
				cls.Bases = append(cls.Bases, arg.Content(src))
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		switch stmt.Type() {
		case "expression_statement":
			if stmt.NamedChildCount() == 0 {
				continue
			}
			inner := stmt.NamedChild(0)
			switch inner.Type() {
			case "assignment":
				extractClassAssignment(inner, cls, src)
			}
		case "function_definition":
			fn := newFunction(stmt, mod, cls, src)
			cls.methods[fn.Name] = fn
		case "decorated_definition":
			def := definition(stmt)
			if def.Type() == "function_definition" {
				fn := newFunction(def, mod, cls, src)
				cls.methods[fn.Name] = fn
			}
		}
	}

	return cls
}

func extractClassAssignment(node *sitter.Node, cls *Class, src []byte) {
	left := node.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return
	}
	name := left.Content(src)
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		cls.Annotations[name] = typeNode.Content(src)
	}
	if right := node.ChildByFieldName("right"); right != nil {
		cls.ClassAttrs[name] = right.Content(src)
	}
}

// Method returns the method named name declared directly on this class,
// without walking Bases: a method inherited from a base class is not
// found.
func (c *Class) Method(name string) (*Function, bool) {
	fn, ok := c.methods[name]
	return fn, ok
}

// AttrType returns the static annotation for a self/cls attribute, used to
// resolve `self.attr.method()` chains without evaluating any code.
func (c *Class) AttrType(name string) (string, bool) {
	t, ok := c.Annotations[name]
	return t, ok
}
