// Package callgraph recursively discovers every HTTP exception an
// endpoint handler can raise, across function calls, method dispatch, and
// class construction.
package callgraph

import (
	"github.com/ManiMozaffar/richapi-go/internal/output"
	"github.com/ManiMozaffar/richapi-go/internal/pyast"
	"github.com/ManiMozaffar/richapi-go/internal/registry"
)

// Walker owns the VisitedTable for one compilation pass and orchestrates
// recursion into calls, method dispatch, and class construction.
type Walker struct {
	Index          *pyast.ProjectIndex
	Filter         *registry.Filter
	ExceptionRoots []string
	Logger         *output.Logger

	visited *VisitedTable
}

// NewWalker builds a Walker scoped to a single compilation pass. Pass a
// nil Logger to suppress debug output.
func NewWalker(idx *pyast.ProjectIndex, filter *registry.Filter, exceptionRoots []string, logger *output.Logger) *Walker {
	return &Walker{
		Index:          idx,
		Filter:         filter,
		ExceptionRoots: exceptionRoots,
		Logger:         logger,
		visited:        NewVisitedTable(),
	}
}

// Walk finds every explicit raise site reachable from fn, including
// through calls, method dispatch, and construction. It is the entry
// point for both top-level route handlers and any callable reached by
// Dispatch.
func (w *Walker) Walk(fn *pyast.Function) []RaiseSite {
	if fn == nil || fn.Module == nil {
		return nil
	}
	if !w.Filter.InScope(fn.Module.Name) {
		return nil
	}
	if cached, ok := w.visited.Get(fn); ok {
		return cached
	}

	// Mark before visiting so mutually recursive calls terminate instead
	// of looping.
	w.visited.Mark(fn, nil)

	sites := newFinder(fn, w).run()
	w.visited.Mark(fn, sites)
	return sites
}

// WalkClass analyzes a class's construction path: its __init__ and, if
// present, __call__. Both plain construction (`Foo()`) and a
// Depends-style callable-instance factory resolve to a class here, since
// the resolver collapses both to a SymbolClass.
func (w *Walker) WalkClass(cls *pyast.Class) []RaiseSite {
	if cls == nil || cls.Module == nil {
		return nil
	}
	if !w.Filter.InScope(cls.Module.Name) {
		return nil
	}
	if cached, ok := w.visited.GetClass(cls); ok {
		return cached
	}
	w.visited.MarkClass(cls, nil)

	var sites []RaiseSite
	if init, ok := cls.Method("__init__"); ok {
		sites = append(sites, w.Walk(init)...)
	}
	if call, ok := cls.Method("__call__"); ok {
		sites = append(sites, w.Walk(call)...)
	}

	w.visited.MarkClass(cls, sites)
	return sites
}

// Dispatch resolves a pyast.Symbol to the right sub-tree: a class goes
// through WalkClass, a function/method through Walk. Anything else (an
// unresolved value, an import alias) contributes no raise sites.
func (w *Walker) Dispatch(sym pyast.Symbol) []RaiseSite {
	switch sym.Kind {
	case pyast.SymbolFunction:
		return w.Walk(sym.Func)
	case pyast.SymbolClass:
		return w.WalkClass(sym.Class)
	default:
		return nil
	}
}
