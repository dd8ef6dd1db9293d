package callgraph

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ManiMozaffar/richapi-go/internal/pyast"
	"github.com/ManiMozaffar/richapi-go/internal/resolver"
)

// finder is the per-function AST visitor that collects raise sites. It is
// ephemeral: constructed fresh for each function, discarded once its
// sites are merged into the VisitedTable by the owning Walker.
type finder struct {
	fn          *pyast.Function
	src         []byte
	assignments AssignmentMap
	walker      *Walker

	sites []RaiseSite

	// handledAttrs marks the start-byte offset of attribute nodes that
	// were already resolved as a call's function expression, so the
	// generic attribute-as-value handling doesn't also re-process them.
	handledAttrs map[uint32]bool
}

func newFinder(fn *pyast.Function, w *Walker) *finder {
	return &finder{
		fn:           fn,
		src:          fn.Module.Source,
		assignments:  TrackAssignments(functionBody(fn.Node), fn.Module.Source),
		walker:       w,
		handledAttrs: map[uint32]bool{},
	}
}

func functionBody(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	return node.ChildByFieldName("body")
}

// run walks fn's body in document order, collecting RaiseSites.
func (f *finder) run() []RaiseSite {
	body := functionBody(f.fn.Node)
	if body == nil {
		return nil
	}
	f.visit(body)
	return f.sites
}

func (f *finder) visit(node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "function_definition", "class_definition", "decorated_definition":
		// Nested scope: a nested def or decorator expression is never
		// attributed to the enclosing function's own body.
		return
	case "raise_statement":
		f.visitRaise(node)
	case "call":
		f.visitCall(node)
	case "attribute":
		if !f.handledAttrs[node.StartByte()] {
			f.visitAttributeValue(node)
		}
	}
	f.visitChildren(node)
}

func (f *finder) visitChildren(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		f.visit(node.NamedChild(i))
	}
}

func (f *finder) visitRaise(node *sitter.Node) {
	if node.NamedChildCount() == 0 {
		f.sites = append(f.sites, RaiseSite{Node: node, DefiningFunc: f.fn, IsBareReraise: true})
		if f.walker.Logger != nil {
			f.walker.Logger.Debug("bare 'raise' with no expression in %s", f.fn.QualifiedName)
		}
		return
	}

	expr := node.NamedChild(0)
	dotted, ok := resolver.ResolveAttributePath(unwrapAwait(expr), f.src)
	if !ok {
		f.sites = append(f.sites, RaiseSite{Node: node, DefiningFunc: f.fn})
		return
	}

	cls, ok := resolver.ResolveType(dotted, f.fn, f.walker.Index, f.walker.ExceptionRoots)
	if !ok {
		f.sites = append(f.sites, RaiseSite{Node: node, DefiningFunc: f.fn})
		return
	}
	f.sites = append(f.sites, RaiseSite{Class: cls, Node: node, DefiningFunc: f.fn})
}

func (f *finder) visitCall(node *sitter.Node) {
	fnExpr := node.ChildByFieldName("function")
	if fnExpr == nil {
		return
	}
	if fnExpr.Type() == "attribute" {
		f.handledAttrs[fnExpr.StartByte()] = true
	}

	dotted, ok := resolver.ResolveAttributePath(fnExpr, f.src)
	if !ok {
		return
	}
	for _, sym := range resolver.ResolveObject(dotted, f.fn, f.assignments, f.walker.Index) {
		f.sites = append(f.sites, f.walker.Dispatch(sym)...)
	}
}

func (f *finder) visitAttributeValue(node *sitter.Node) {
	object := node.ChildByFieldName("object")
	attrNode := node.ChildByFieldName("attribute")
	if object == nil || attrNode == nil || object.Type() != "identifier" {
		return
	}
	baseName := object.Content(f.src)
	symbolicBase, ok := f.assignments[baseName]
	if !ok {
		return
	}
	for _, baseSym := range resolver.ResolveObject(symbolicBase, f.fn, f.assignments, f.walker.Index) {
		if baseSym.Kind != pyast.SymbolClass {
			continue
		}
		method, ok := baseSym.Class.Method(attrNode.Content(f.src))
		if !ok {
			continue
		}
		f.sites = append(f.sites, f.walker.Dispatch(pyast.Symbol{Kind: pyast.SymbolFunction, Name: method.Name, Func: method})...)
	}
}

func unwrapAwait(node *sitter.Node) *sitter.Node {
	if node.Type() == "await" && node.NamedChildCount() > 0 {
		return node.NamedChild(0)
	}
	return node
}
