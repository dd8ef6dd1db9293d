package pyast

import sitter "github.com/smacker/go-tree-sitter"

// Function is the Go stand-in for a Python Callable: a module-level
// function or a method, with its defining module (giving access to the
// globals a real Python function would carry in __globals__) and its
// parameter annotations (the static stand-in for __annotations__).
type Function struct {
	Name             string
	QualifiedName    string // "func" or "Class.method"
	Module           *Module
	Class            *Class // nil for module-level functions
	Node             *sitter.Node
	ParamAnnotations map[string]string
}

// IsAsync reports whether the function was declared with `async def`.
func (f *Function) IsAsync() bool {
	if f.Node == nil {
		return false
	}
	for i := 0; i < int(f.Node.ChildCount()); i++ {
		if f.Node.Child(i).Type() == "async" {
			return true
		}
	}
	return false
}

func newFunction(node *sitter.Node, mod *Module, owner *Class, src []byte) *Function {
	name := ""
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		name = nameNode.Content(src)
	}
	qualified := name
	if owner != nil {
		qualified = owner.Name + "." + name
	}

	fn := &Function{
		Name:             name,
		QualifiedName:    qualified,
		Module:           mod,
		Class:            owner,
		Node:             node,
		ParamAnnotations: map[string]string{},
	}

	params := node.ChildByFieldName("parameters")
	if params == nil {
		return fn
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(i)
		switch param.Type() {
		case "typed_parameter":
			pname, ptype := splitTypedParameter(param, src)
			if pname != "" {
				fn.ParamAnnotations[pname] = ptype
			}
		case "typed_default_parameter":
			nameNode := param.ChildByFieldName("name")
			typeNode := param.ChildByFieldName("type")
			if nameNode != nil && typeNode != nil {
				fn.ParamAnnotations[nameNode.Content(src)] = typeNode.Content(src)
			}
		}
	}
	return fn
}

// splitTypedParameter handles the untyped-default-free "name: Type" form,
// where the parameter's own first named child is the identifier and the
// remainder up to ':' is the type text.
func splitTypedParameter(param *sitter.Node, src []byte) (name, typ string) {
	if nameNode := param.ChildByFieldName("name"); nameNode != nil {
		name = nameNode.Content(src)
	} else if param.NamedChildCount() > 0 {
		name = param.NamedChild(0).Content(src)
	}
	if typeNode := param.ChildByFieldName("type"); typeNode != nil {
		typ = typeNode.Content(src)
	}
	return name, typ
}
