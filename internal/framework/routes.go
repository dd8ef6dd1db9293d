// Package framework statically discovers routes and their dependency
// trees: a real FastAPI app builds this from a live Dependant tree at
// import time, so here it is replicated by parsing
// @app.get/post/put/delete/patch decorators and Depends(...) call
// expressions rather than executing them.
package framework

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ManiMozaffar/richapi-go/internal/pyast"
	"github.com/ManiMozaffar/richapi-go/internal/resolver"
)

var decoratorMethods = map[string]string{
	"get": "get", "post": "post", "put": "put", "delete": "delete", "patch": "patch",
}

// Route is the static substitute for FastAPI's APIRoute plus its Dependant
// tree: a path, its HTTP methods, whether it is included in the generated
// schema, the handler, and the flat list of dependency callables reachable
// from its parameters' Depends(...) defaults.
type Route struct {
	Path            string
	Methods         []string
	IncludeInSchema bool
	Handler         *pyast.Function
	Dependencies    []*pyast.Function
}

// Callables returns the handler followed by every dependency, the flat list
// build_dependency_tree produces in openapi.py — what CallGraphWalker is
// run over for this route.
func (r Route) Callables() []*pyast.Function {
	out := make([]*pyast.Function, 0, len(r.Dependencies)+1)
	out = append(out, r.Handler)
	out = append(out, r.Dependencies...)
	return out
}

// DiscoverRoutes parses moduleName's top-level decorated functions for
// @appName.get/post/put/delete/patch(...) decorators.
func DiscoverRoutes(idx *pyast.ProjectIndex, moduleName, appName string) ([]Route, error) {
	mod, err := idx.Module(moduleName)
	if err != nil {
		return nil, err
	}
	if mod.Tree == nil {
		return nil, nil
	}

	root := mod.Tree.RootNode()
	var routes []Route
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "decorated_definition" {
			continue
		}
		if route, ok := routeFromDecorated(stmt, mod, appName, idx); ok {
			routes = append(routes, route)
		}
	}
	return routes, nil
}

func routeFromDecorated(node *sitter.Node, mod *pyast.Module, appName string, idx *pyast.ProjectIndex) (Route, bool) {
	src := mod.Source
	var path string
	var methods []string
	includeInSchema := true
	matched := false

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "decorator" || child.NamedChildCount() == 0 {
			continue
		}
		expr := child.NamedChild(0)
		if expr.Type() != "call" {
			continue
		}
		fnExpr := expr.ChildByFieldName("function")
		if fnExpr == nil || fnExpr.Type() != "attribute" {
			continue
		}
		obj := fnExpr.ChildByFieldName("object")
		attr := fnExpr.ChildByFieldName("attribute")
		if obj == nil || attr == nil || obj.Content(src) != appName {
			continue
		}
		httpMethod, ok := decoratorMethods[attr.Content(src)]
		if !ok {
			continue
		}

		args := expr.ChildByFieldName("arguments")
		if args == nil {
			continue
		}
		for a := 0; a < int(args.NamedChildCount()); a++ {
			argNode := args.NamedChild(a)
			switch argNode.Type() {
			case "string":
				if path == "" {
					if lit, ok := stringLiteral(argNode, src); ok {
						path = lit
					}
				}
			case "keyword_argument":
				nameNode := argNode.ChildByFieldName("name")
				valNode := argNode.ChildByFieldName("value")
				if nameNode != nil && valNode != nil && nameNode.Content(src) == "include_in_schema" {
					includeInSchema = valNode.Type() != "false"
				}
			}
		}
		methods = append(methods, httpMethod)
		matched = true
	}

	if !matched {
		return Route{}, false
	}

	def := definitionNode(node)
	if def == nil || def.Type() != "function_definition" {
		return Route{}, false
	}
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil {
		return Route{}, false
	}
	handler, ok := mod.Function(nameNode.Content(src))
	if !ok {
		return Route{}, false
	}

	deps := gatherDependencies(handler, idx, map[string]bool{})
	return Route{
		Path:            path,
		Methods:         methods,
		IncludeInSchema: includeInSchema,
		Handler:         handler,
		Dependencies:    deps,
	}, true
}

// definitionNode returns a decorated_definition's wrapped definition
// (function_definition or class_definition), its last named child.
func definitionNode(node *sitter.Node) *sitter.Node {
	count := int(node.NamedChildCount())
	if count == 0 {
		return nil
	}
	return node.NamedChild(count - 1)
}

func stringLiteral(node *sitter.Node, src []byte) (string, bool) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == "string_content" {
			return child.Content(src), true
		}
	}
	raw := strings.TrimSpace(node.Content(src))
	if len(raw) < 2 {
		return "", false
	}
	first := raw[0]
	if (first == '"' || first == '\'') && raw[len(raw)-1] == first {
		return raw[1 : len(raw)-1], true
	}
	return "", false
}

// gatherDependencies walks fn's parameters for Depends(...) default
// values, resolves each to a callable, and recurses into its own
// parameters — the static substitute for build_dependency_tree walking a
// live Dependant tree (openapi.py).
func gatherDependencies(fn *pyast.Function, idx *pyast.ProjectIndex, seen map[string]bool) []*pyast.Function {
	if fn == nil || fn.Node == nil || fn.Module == nil {
		return nil
	}
	params := fn.Node.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}

	var deps []*pyast.Function
	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(i)
		callNode := dependsCallNode(param)
		if callNode == nil {
			continue
		}
		dotted, ok := dependsArgument(param, callNode, fn.Module.Source)
		if !ok {
			continue
		}
		for _, sym := range resolver.ResolveObject(dotted, fn, nil, idx) {
			depFn, ok := callableFunction(sym)
			if !ok || depFn.Module == nil {
				continue
			}
			key := depFn.Module.Name + "#" + depFn.QualifiedName
			if seen[key] {
				continue
			}
			seen[key] = true
			deps = append(deps, depFn)
			deps = append(deps, gatherDependencies(depFn, idx, seen)...)
		}
	}
	return deps
}

func dependsCallNode(param *sitter.Node) *sitter.Node {
	switch param.Type() {
	case "typed_default_parameter", "default_parameter":
		if value := param.ChildByFieldName("value"); value != nil && value.Type() == "call" {
			return value
		}
	}
	return nil
}

// dependsArgument resolves Depends(...)'s dependency target: its sole
// positional argument if present, else (FastAPI's own fallback) the
// parameter's own type annotation — `x: Service = Depends()` resolves the
// same as `x: Service = Depends(Service)`.
func dependsArgument(param, callNode *sitter.Node, src []byte) (string, bool) {
	fnExpr := callNode.ChildByFieldName("function")
	if fnExpr == nil {
		return "", false
	}
	name := fnExpr.Content(src)
	if name != "Depends" && !strings.HasSuffix(name, ".Depends") {
		return "", false
	}

	args := callNode.ChildByFieldName("arguments")
	if args != nil && args.NamedChildCount() > 0 {
		if dotted, ok := resolver.ResolveAttributePath(args.NamedChild(0), src); ok {
			return dotted, true
		}
	}

	if typeNode := param.ChildByFieldName("type"); typeNode != nil {
		return resolver.StripGenericWrapping(typeNode.Content(src)), true
	}
	return "", false
}

// callableFunction collapses a dependency symbol down to "whatever is
// actually callable about it": a class dependency is analyzed via its
// __call__ (a callable-instance factory) or, failing that, its __init__,
// mirroring how FastAPI itself resolves a class passed to Depends(...).
func callableFunction(sym pyast.Symbol) (*pyast.Function, bool) {
	switch sym.Kind {
	case pyast.SymbolFunction:
		return sym.Func, true
	case pyast.SymbolClass:
		if m, ok := sym.Class.Method("__call__"); ok {
			return m, true
		}
		if m, ok := sym.Class.Method("__init__"); ok {
			return m, true
		}
	}
	return nil, false
}
