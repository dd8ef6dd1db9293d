package registry

import "strings"

// ScanScope is an ordered set of module-name prefixes designating "user
// code" for a single compilation pass. Construct with NewScanScope and
// reuse across a pass.
type ScanScope struct {
	prefixes []string
}

// NewScanScope builds a ScanScope from the configured project package
// prefixes, e.g. []string{"app"} for a project rooted at an "app" package.
func NewScanScope(prefixes []string) *ScanScope {
	cp := make([]string, len(prefixes))
	copy(cp, prefixes)
	return &ScanScope{prefixes: cp}
}

// matchesPrefix reports whether module is prefix itself or nested under it
// (dotted-segment match, so "app" matches "app.routers" but not
// "application").
func (s *ScanScope) matchesPrefix(module string) bool {
	for _, p := range s.prefixes {
		if module == p || strings.HasPrefix(module+".", p+".") {
			return true
		}
	}
	return false
}

// Filter is the cached StdlibFilter: a module is in scope iff it is
// "__main__", or it matches a configured scan-scope prefix and is not
// located in the embedded stdlib manifest. Results are memoized per
// module name for the lifetime of the Filter.
type Filter struct {
	scope *ScanScope
	cache map[string]bool
}

// NewFilter wraps scope in a StdlibFilter with per-module-name memoization.
func NewFilter(scope *ScanScope) *Filter {
	return &Filter{scope: scope, cache: map[string]bool{}}
}

// InScope reports whether module counts as user code: it must match a
// configured scan-scope prefix (or be "__main__") and not be part of the
// standard library. The compiler pass that owns a Filter runs on a single
// goroutine, so the memoization cache needs no locking.
func (f *Filter) InScope(module string) bool {
	if cached, ok := f.cache[module]; ok {
		return cached
	}
	in := f.compute(module)
	f.cache[module] = in
	return in
}

func (f *Filter) compute(module string) bool {
	if module == "__main__" {
		return true
	}
	if !f.scope.matchesPrefix(module) {
		return false
	}
	return !IsStdlib(module)
}
