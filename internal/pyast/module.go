package pyast

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Module is the Go stand-in for a loaded Python module: its parsed tree
// plus a lazily-built symbol table standing in for func.__globals__. A
// Module is only ever constructed by a ProjectIndex, which owns parsing
// and caching; Module itself does no I/O.
type Module struct {
	Name   string // dotted module name, e.g. "app.routers.users"
	Path   string // filesystem path it was parsed from
	Source []byte
	Tree   *sitter.Tree

	indexed   bool
	globals   map[string]Symbol
	functions map[string]*Function
	classes   map[string]*Class
}

func newModule(name, path string, source []byte, tree *sitter.Tree) *Module {
	return &Module{Name: name, Path: path, Source: source, Tree: tree}
}

// ensureIndexed walks the module's top-level statements once, building the
// globals table (functions, classes, imports, and plain assignments) that
// Symbol lookups and CallGraphWalker rely on. Nested scopes are not
// indexed here — only module-level bindings count as globals.
func (m *Module) ensureIndexed() {
	if m.indexed {
		return
	}
	m.indexed = true
	m.globals = map[string]Symbol{}
	m.functions = map[string]*Function{}
	m.classes = map[string]*Class{}

	if m.Tree == nil {
		return
	}
	root := m.Tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		m.indexStatement(root.NamedChild(i))
	}
}

func (m *Module) indexStatement(stmt *sitter.Node) {
	switch stmt.Type() {
	case "function_definition":
		fn := newFunction(stmt, m, nil, m.Source)
		m.functions[fn.Name] = fn
		m.globals[fn.Name] = functionSymbol(fn)
	case "class_definition":
		cls := newClass(stmt, m, m.Source)
		m.classes[cls.Name] = cls
		m.globals[cls.Name] = classSymbol(cls)
	case "decorated_definition":
		m.indexStatement(definition(stmt))
	case "import_statement":
		m.indexImport(stmt)
	case "import_from_statement":
		m.indexImportFrom(stmt)
	case "expression_statement":
		if stmt.NamedChildCount() == 0 {
			return
		}
		if inner := stmt.NamedChild(0); inner.Type() == "assignment" {
			m.indexAssignment(inner)
		}
	}
}

func (m *Module) indexAssignment(node *sitter.Node) {
	left := node.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return
	}
	name := left.Content(m.Source)
	m.globals[name] = valueSymbol(name)
}

// indexImport handles `import a.b.c` and `import a.b.c as d`.
func (m *Module) indexImport(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			full := child.Content(m.Source)
			alias := firstSegment(full)
			m.globals[alias] = importSymbol(alias, full)
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil || aliasNode == nil {
				continue
			}
			full := nameNode.Content(m.Source)
			alias := aliasNode.Content(m.Source)
			m.globals[alias] = importSymbol(alias, full)
		}
	}
}

// indexImportFrom handles `from a.b import c` and `from a.b import c as d`.
func (m *Module) indexImportFrom(node *sitter.Node) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}
	base := moduleNode.Content(m.Source)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.StartByte() == moduleNode.StartByte() {
			// The module_name node itself ("a.b"), not an imported name.
			continue
		}
		switch child.Type() {
		case "dotted_name", "identifier":
			name := child.Content(m.Source)
			m.globals[name] = importSymbol(name, base+"."+name)
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil || aliasNode == nil {
				continue
			}
			name := nameNode.Content(m.Source)
			alias := aliasNode.Content(m.Source)
			m.globals[alias] = importSymbol(alias, base+"."+name)
		case "wildcard_import":
			// `from a.b import *` binds an unknown set of names at
			// runtime; there is nothing statically knowable to record.
		}
	}
}

func firstSegment(dotted string) string {
	if idx := strings.IndexByte(dotted, '.'); idx != -1 {
		return dotted[:idx]
	}
	return dotted
}

// Global looks up a module-level name, the static equivalent of
// func.__globals__[name].
func (m *Module) Global(name string) (Symbol, bool) {
	m.ensureIndexed()
	sym, ok := m.globals[name]
	return sym, ok
}

// Function returns a module-level function by name.
func (m *Module) Function(name string) (*Function, bool) {
	m.ensureIndexed()
	fn, ok := m.functions[name]
	return fn, ok
}

// Class returns a module-level class by name.
func (m *Module) Class(name string) (*Class, bool) {
	m.ensureIndexed()
	cls, ok := m.classes[name]
	return cls, ok
}
