package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/stretchr/testify/require"

	"github.com/ManiMozaffar/richapi-go/internal/pyast"
)

func parsePy(t *testing.T, source string) *sitter.Tree {
	t.Helper()
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(source))
	require.NoError(t, err)
	return tree
}

func findCallArgNode(t *testing.T, tree *sitter.Tree, src []byte) *sitter.Node {
	t.Helper()
	var found *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil || found != nil {
			return
		}
		if n.Type() == "call" {
			found = n
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	require.NotNil(t, found)
	return found
}

func TestResolveAttributePath(t *testing.T) {
	src := []byte("a.b().c\n")
	tree := parsePy(t, string(src))
	node := tree.RootNode().NamedChild(0).NamedChild(0)

	path, ok := ResolveAttributePath(node, src)
	require.True(t, ok)
	require.Equal(t, "a.b.c", path)
}

func TestResolveAttributePath_RejectsNonNameLeftmost(t *testing.T) {
	src := []byte("(1 + 2).bit_length()\n")
	tree := parsePy(t, string(src))
	call := findCallArgNode(t, tree, src)

	_, ok := ResolveAttributePath(call.ChildByFieldName("function"), src)
	require.False(t, ok)
}

func TestStripGenericWrapping(t *testing.T) {
	cases := map[string]string{
		"Optional[Foo]":         "Foo",
		"Annotated[Foo, '...']": "Foo",
		"Foo":                   "Foo",
		"List[Foo]":             "Foo",
	}
	for in, want := range cases {
		require.Equal(t, want, StripGenericWrapping(in), in)
	}
}

func writePy(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveObject_GlobalFunction(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
def helper():
    pass

def handler():
    helper()
`)
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))
	mod, err := idx.Module("app")
	require.NoError(t, err)
	handler, ok := mod.Function("handler")
	require.True(t, ok)

	candidates := ResolveObject("helper", handler, map[string]string{}, idx)
	require.Len(t, candidates, 1)
	require.Equal(t, pyast.SymbolFunction, candidates[0].Kind)
	require.Equal(t, "helper", candidates[0].Name)
}

func TestResolveObject_SelfAttributeViaClassAnnotation(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "service.py", `
class Repo:
    def find(self):
        pass

class Handler:
    repo: Repo

    def get(self):
        self.repo.find()
`)
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))
	mod, err := idx.Module("service")
	require.NoError(t, err)
	cls, ok := mod.Class("Handler")
	require.True(t, ok)
	method, ok := cls.Method("get")
	require.True(t, ok)

	candidates := ResolveObject("self.repo.find", method, map[string]string{}, idx)
	require.Len(t, candidates, 1)
	require.Equal(t, pyast.SymbolFunction, candidates[0].Kind)
	require.Equal(t, "find", candidates[0].Name)
}

func TestResolveObject_ViaAssignment(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
def helper():
    pass

def handler():
    fn = helper
    fn()
`)
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))
	mod, err := idx.Module("app")
	require.NoError(t, err)
	handler, ok := mod.Function("handler")
	require.True(t, ok)

	candidates := ResolveObject("fn", handler, map[string]string{"fn": "helper"}, idx)
	require.Len(t, candidates, 1)
	require.Equal(t, pyast.SymbolFunction, candidates[0].Kind)
}

func TestResolveObject_UnresolvedHeadReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", "def handler():\n    pass\n")
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))
	mod, err := idx.Module("app")
	require.NoError(t, err)
	handler, ok := mod.Function("handler")
	require.True(t, ok)

	require.Empty(t, ResolveObject("nothing", handler, map[string]string{}, idx))
}

func TestResolveType_AcceptsOnlyExceptionSubclasses(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "errors.py", `
class HTTPException:
    pass

class NotFoundError(HTTPException):
    pass

class PlainClass:
    pass

def handler():
    pass
`)
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))
	mod, err := idx.Module("errors")
	require.NoError(t, err)
	handler, ok := mod.Function("handler")
	require.True(t, ok)

	cls, ok := ResolveType("NotFoundError", handler, idx, []string{"HTTPException"})
	require.True(t, ok)
	require.Equal(t, "NotFoundError", cls.Name)

	_, ok = ResolveType("PlainClass", handler, idx, []string{"HTTPException"})
	require.False(t, ok)
}

func TestResolveObject_BuilderChainReturnsSiblingMethods(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "service.py", `
class Service:
    def foo(self):
        pass

    def bar(self):
        pass

    def baz(self):
        pass

def handler():
    Service().foo().bar().baz()
`)
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))
	mod, err := idx.Module("service")
	require.NoError(t, err)
	handler, ok := mod.Function("handler")
	require.True(t, ok)

	candidates := ResolveObject("Service.foo.bar.baz", handler, map[string]string{}, idx)
	require.Len(t, candidates, 3)
	names := []string{candidates[0].Name, candidates[1].Name, candidates[2].Name}
	require.ElementsMatch(t, []string{"foo", "bar", "baz"}, names)
}

func TestResolveObject_FollowsSiblingModuleImport(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app/other.py", `
def helper():
    pass
`)
	writePy(t, dir, "app/views.py", `
from app.other import helper

def handler():
    helper()
`)
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))
	mod, err := idx.Module("app.views")
	require.NoError(t, err)
	handler, ok := mod.Function("handler")
	require.True(t, ok)

	candidates := ResolveObject("helper", handler, map[string]string{}, idx)
	require.Len(t, candidates, 1)
	require.Equal(t, pyast.SymbolFunction, candidates[0].Kind)
	require.Equal(t, "helper", candidates[0].Name)
}
