package callgraph

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ManiMozaffar/richapi-go/internal/pyast"
)

// RaiseSite is the resolved exception class (nil when the identifier
// could not be resolved to a concrete subclass of the exception root),
// the raise AST node itself, and the function that contains it.
type RaiseSite struct {
	Class         *pyast.Class
	Node          *sitter.Node
	DefiningFunc  *pyast.Function
	IsBareReraise bool
}

// CallableID identifies a function or class by (module, qualified name)
// for the VisitedTable. Two Functions parsed independently for the same
// pair are treated as the same callable, which is why pyast.ProjectIndex
// caches parsed modules: re-parsing the same module would otherwise mint
// a fresh *pyast.Function instance.
type CallableID struct {
	Module        string
	QualifiedName string
}

func idOf(fn *pyast.Function) CallableID {
	modName := ""
	if fn.Module != nil {
		modName = fn.Module.Name
	}
	return CallableID{Module: modName, QualifiedName: fn.QualifiedName}
}

// VisitedTable memoizes a callable's raise sites for the duration of a
// single compilation pass, preventing infinite recursion on mutually
// recursive calls.
type VisitedTable struct {
	entries map[CallableID][]RaiseSite
}

// NewVisitedTable builds an empty table, scoped to one compilation pass.
func NewVisitedTable() *VisitedTable {
	return &VisitedTable{entries: map[CallableID][]RaiseSite{}}
}

// Get returns the memoized raise sites for fn, if any.
func (v *VisitedTable) Get(fn *pyast.Function) ([]RaiseSite, bool) {
	sites, ok := v.entries[idOf(fn)]
	return sites, ok
}

// GetClass returns the memoized raise sites for a class's construction
// path (__init__/__call__), keyed separately from any function of the
// same name since classes and functions never collide in Python's own
// namespace either.
func (v *VisitedTable) GetClass(cls *pyast.Class) ([]RaiseSite, bool) {
	sites, ok := v.entries[classID(cls)]
	return sites, ok
}

// Mark records fn as visited (even if it contributes zero raise sites),
// which is what makes cyclic calls terminate: the second visit finds this
// entry before ever recursing again.
func (v *VisitedTable) Mark(fn *pyast.Function, sites []RaiseSite) {
	v.entries[idOf(fn)] = sites
}

// MarkClass is Mark's analogue for a class's construction path.
func (v *VisitedTable) MarkClass(cls *pyast.Class, sites []RaiseSite) {
	v.entries[classID(cls)] = sites
}

func classID(cls *pyast.Class) CallableID {
	modName := ""
	if cls.Module != nil {
		modName = cls.Module.Name
	}
	return CallableID{Module: modName, QualifiedName: "class:" + cls.Name}
}
