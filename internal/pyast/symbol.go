package pyast

// SymbolKind tags the variant a Symbol holds: a name in a Python module's
// globals can be a value, a function, a class, or an import alias, and
// resolution needs to branch on which one it got — an explicit tagged
// variant reads better here than ad-hoc type assertions on an `any`.
type SymbolKind int

const (
	SymbolValue SymbolKind = iota
	SymbolFunction
	SymbolClass
	SymbolImport
)

// Symbol is the Go stand-in for "whatever object a dotted name resolves to"
// in Python: a function, a class, an import alias pointing at another
// module, or an opaque value we only know by name.
type Symbol struct {
	Kind  SymbolKind
	Name  string
	Func  *Function // set when Kind == SymbolFunction
	Class *Class    // set when Kind == SymbolClass
	// Target is the dotted path an import alias refers to, e.g. "fastapi.status".
	Target string
}

func valueSymbol(name string) Symbol {
	return Symbol{Kind: SymbolValue, Name: name}
}

func functionSymbol(fn *Function) Symbol {
	return Symbol{Kind: SymbolFunction, Name: fn.Name, Func: fn}
}

func classSymbol(cls *Class) Symbol {
	return Symbol{Kind: SymbolClass, Name: cls.Name, Class: cls}
}

func importSymbol(name, target string) Symbol {
	return Symbol{Kind: SymbolImport, Name: name, Target: target}
}
