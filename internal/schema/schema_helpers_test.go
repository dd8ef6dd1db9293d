package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ManiMozaffar/richapi-go/internal/callgraph"
	"github.com/ManiMozaffar/richapi-go/internal/pyast"
	"github.com/ManiMozaffar/richapi-go/internal/registry"
)

var httpExceptionRoots = []string{"HTTPException"}

func writePy(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// walkHandler parses an "app.py" fixture written to dir and returns the
// raise sites discovered from its `handler` function, exercising the real
// pyast/registry/resolver/callgraph stack rather than hand-built fixtures.
func walkHandler(t *testing.T, dir string) []callgraph.RaiseSite {
	t.Helper()
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))
	filter := registry.NewFilter(registry.NewScanScope([]string{"app"}))
	w := callgraph.NewWalker(idx, filter, httpExceptionRoots, nil)

	mod, err := idx.Module("app")
	require.NoError(t, err)
	handler, ok := mod.Function("handler")
	require.True(t, ok)

	return w.Walk(handler)
}

func siteFor(t *testing.T, sites []callgraph.RaiseSite, className string) callgraph.RaiseSite {
	t.Helper()
	for _, s := range sites {
		if s.Class != nil && s.Class.Name == className {
			return s
		}
	}
	t.Fatalf("no raise site found for class %s", className)
	return callgraph.RaiseSite{}
}
