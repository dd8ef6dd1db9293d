package resolver

import (
	"strings"

	"github.com/ManiMozaffar/richapi-go/internal/pyast"
)

// builtinNames are the handful of Python built-ins this resolver knows
// about. Resolution against a real builtins namespace is out of scope;
// these only exist so `raise ValueError(...)` style sites resolve to "not
// an HTTP exception" rather than "unresolved", the same outcome a real
// `getattr(builtins, name, None)` lookup would give for the raise sites
// that matter here.
var builtinNames = map[string]bool{
	"Exception": true, "BaseException": true, "ValueError": true,
	"TypeError": true, "KeyError": true, "RuntimeError": true,
	"NotImplementedError": true, "StopIteration": true,
}

// ResolveObject splits dotted on '.' and resolves the head against the
// function's globals, its AssignmentTracker map, its parameter
// annotations, and Python built-ins. self/cls heads are resolved against
// the enclosing class's PEP 526 annotations.
//
// Once the head resolves to a class or module, every remaining dotted
// segment is looked up as a sibling attribute of that SAME head — not
// chained through each segment's own return type, since there is no
// runtime value to chain through statically. That is, a trailing segment
// is re-read off the one resolved parent object rather than off whatever
// the previous segment would have returned at runtime; it is what lets a
// builder-pattern chain like `Service().foo().bar().baz()` discover
// `foo`, `bar`, and `baz` as three candidate methods of `Service` even
// though only `Service` itself could be resolved with certainty.
// The result is therefore a list: callers (the call graph walker) analyze
// each entry independently.
func ResolveObject(dotted string, fn *pyast.Function, assignments map[string]string, idx *pyast.ProjectIndex) []pyast.Symbol {
	parts := strings.Split(dotted, ".")
	if len(parts) == 0 || parts[0] == "" {
		return nil
	}

	if parts[0] == "self" || parts[0] == "cls" {
		return resolveSelfOrCls(parts, fn, idx)
	}

	head, ok := resolveHead(parts[0], fn, assignments)
	if !ok {
		return nil
	}
	head, ok = resolveImportSymbol(head, idx)
	if !ok {
		return nil
	}

	if len(parts) == 1 {
		return []pyast.Symbol{head}
	}
	return siblingAttributes(head, parts[1:], idx)
}

// resolveHead resolves the first segment of a dotted path against the
// function's globals (1), the assignment map (2), parameter annotations
// (3), and built-ins (4), in that priority order.
func resolveHead(name string, fn *pyast.Function, assignments map[string]string) (pyast.Symbol, bool) {
	if fn == nil || fn.Module == nil {
		return pyast.Symbol{}, false
	}
	if sym, ok := fn.Module.Global(name); ok {
		return sym, true
	}
	if assigned, ok := assignments[name]; ok {
		if sym, ok := fn.Module.Global(firstSegment(assigned)); ok {
			return sym, true
		}
		return pyast.Symbol{Kind: pyast.SymbolValue, Name: assigned}, true
	}
	if annotation, ok := fn.ParamAnnotations[name]; ok {
		typeName := StripGenericWrapping(annotation)
		if sym, ok := fn.Module.Global(firstSegment(typeName)); ok {
			return sym, true
		}
	}
	if builtinNames[name] {
		return pyast.Symbol{Kind: pyast.SymbolValue, Name: name}, true
	}
	return pyast.Symbol{}, false
}

// resolveSelfOrCls handles the self/cls special case: the attribute name
// is looked up as a class-level annotation on the enclosing class
// (derived from the function's qualified name), stripping one layer of
// generic wrapping, then every further segment is looked up as a sibling
// method of that attribute's class (same rationale as siblingAttributes
// below).
func resolveSelfOrCls(parts []string, fn *pyast.Function, idx *pyast.ProjectIndex) []pyast.Symbol {
	if fn == nil || fn.Class == nil || len(parts) < 2 {
		return nil
	}
	attrName := parts[1]
	annotation, ok := fn.Class.AttrType(attrName)
	if !ok {
		return nil
	}
	typeName := StripGenericWrapping(annotation)

	sym, ok := fn.Module.Global(firstSegment(typeName))
	if !ok {
		return nil
	}
	sym, ok = resolveImportSymbol(sym, idx)
	if !ok {
		return nil
	}

	if len(parts) == 2 {
		return []pyast.Symbol{sym}
	}
	return siblingAttributes(sym, parts[2:], idx)
}

// siblingAttributes looks up every name in rest directly against head,
// collecting whichever resolve successfully. head is typically a class
// (rest are method names) or an import target resolving to a module
// (rest are its globals).
func siblingAttributes(head pyast.Symbol, rest []string, idx *pyast.ProjectIndex) []pyast.Symbol {
	var results []pyast.Symbol
	for _, part := range rest {
		sym, ok := descend(head, part, idx)
		if !ok {
			continue
		}
		sym, ok = resolveImportSymbol(sym, idx)
		if !ok {
			continue
		}
		results = append(results, sym)
	}
	return results
}

func descend(cur pyast.Symbol, part string, idx *pyast.ProjectIndex) (pyast.Symbol, bool) {
	switch cur.Kind {
	case pyast.SymbolClass:
		if method, ok := cur.Class.Method(part); ok {
			return pyast.Symbol{Kind: pyast.SymbolFunction, Name: method.Name, Func: method}, true
		}
		return pyast.Symbol{}, false
	case pyast.SymbolImport:
		mod, err := idx.Module(cur.Target)
		if err != nil {
			return pyast.Symbol{}, false
		}
		return mod.Global(part)
	default:
		return pyast.Symbol{}, false
	}
}

// resolveImportSymbol follows an import alias to the symbol it actually
// names, e.g. turning `Symbol{Kind: Import, Target: "app.other.helper"}`
// into the real `*pyast.Function` for `helper` defined in `app.other`.
// Only project-local targets (registered with the ProjectIndex) can be
// followed; third-party/stdlib import targets are left unresolved, which
// is harmless since StdlibFilter would exclude them from the walk anyway.
func resolveImportSymbol(sym pyast.Symbol, idx *pyast.ProjectIndex) (pyast.Symbol, bool) {
	seen := map[string]bool{}
	for sym.Kind == pyast.SymbolImport {
		if seen[sym.Target] {
			return pyast.Symbol{}, false
		}
		seen[sym.Target] = true

		modName, member, ok := splitLastSegment(sym.Target)
		if !ok {
			return sym, true // a bare module reference; leave as-is
		}
		mod, err := idx.Module(modName)
		if err != nil {
			return sym, true // not a project module; leave unresolved rather than fail the whole chain
		}
		next, ok := mod.Global(member)
		if !ok {
			return sym, true
		}
		sym = next
	}
	return sym, true
}

func splitLastSegment(dotted string) (head, tail string, ok bool) {
	idx := strings.LastIndexByte(dotted, '.')
	if idx == -1 {
		return "", "", false
	}
	return dotted[:idx], dotted[idx+1:], true
}

func firstSegment(dotted string) string {
	if idx := strings.IndexByte(dotted, '.'); idx != -1 {
		return dotted[:idx]
	}
	return dotted
}
