package resolver

import "github.com/ManiMozaffar/richapi-go/internal/pyast"

// ResolveType resolves name to a class and accepts it only if it
// (transitively, via its Bases) descends from one of the configured
// exception-root class names. Any failure along the way (unresolved
// name, non-class symbol, no matching ancestor) is swallowed and
// reported as ok=false rather than propagated — a raise site that can't
// be resolved just doesn't get recorded.
//
// A raise expression names exactly one exception, so only the first
// resolved candidate is considered even though ResolveObject can in
// general return several (the builder-pattern sibling case does not
// apply to raise targets, which construct a single exception instance).
func ResolveType(name string, fn *pyast.Function, idx *pyast.ProjectIndex, exceptionRoots []string) (*pyast.Class, bool) {
	candidates := ResolveObject(name, fn, nil, idx)
	if len(candidates) == 0 || candidates[0].Kind != pyast.SymbolClass {
		return nil, false
	}
	cls := candidates[0].Class
	if !IsExceptionSubclass(cls, idx, exceptionRoots, map[string]bool{}) {
		return nil, false
	}
	return cls, true
}

// IsExceptionSubclass walks a class's Bases, following each base name
// into its own defining module when possible, until it finds one of the
// root names or exhausts the chain. seen guards against base-class
// cycles (which should not occur in valid Python but would otherwise
// loop forever here).
func IsExceptionSubclass(cls *pyast.Class, idx *pyast.ProjectIndex, roots []string, seen map[string]bool) bool {
	if cls == nil || seen[cls.Name] {
		return false
	}
	seen[cls.Name] = true

	// A class is its own subclass (Python's issubclass(X, X) is true), so
	// the exception root itself resolves as an accepted raise target too.
	if containsName(roots, cls.Name) {
		return true
	}

	for _, base := range cls.Bases {
		if containsName(roots, base) {
			return true
		}
		baseCls, ok := lookupBase(base, cls, idx)
		if !ok {
			continue
		}
		if IsExceptionSubclass(baseCls, idx, roots, seen) {
			return true
		}
	}
	return false
}

func lookupBase(base string, cls *pyast.Class, idx *pyast.ProjectIndex) (*pyast.Class, bool) {
	if cls.Module == nil {
		return nil, false
	}
	sym, ok := cls.Module.Global(firstSegment(base))
	if !ok {
		return nil, false
	}
	if len(base) > len(firstSegment(base)) {
		rest := splitDotted(base[len(firstSegment(base))+1:])
		candidates := siblingAttributes(sym, rest, idx)
		if len(candidates) == 0 {
			return nil, false
		}
		sym = candidates[0]
	}
	if sym.Kind != pyast.SymbolClass {
		return nil, false
	}
	return sym.Class, true
}

func splitDotted(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func containsName(names []string, target string) bool {
	for _, n := range names {
		if n == target {
			return true
		}
	}
	return false
}
