package framework

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ManiMozaffar/richapi-go/internal/pyast"
)

func writePy(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscoverRoutes_SimpleGet(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
app = None

@app.get("/items")
def list_items():
    pass
`)
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))

	routes, err := DiscoverRoutes(idx, "app", "app")
	require.NoError(t, err)
	require.Len(t, routes, 1)
	require.Equal(t, "/items", routes[0].Path)
	require.Equal(t, []string{"get"}, routes[0].Methods)
	require.True(t, routes[0].IncludeInSchema)
	require.Equal(t, "list_items", routes[0].Handler.Name)
}

func TestDiscoverRoutes_IncludeInSchemaFalseExcludesFromSchemaButNotDiscovery(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
app = None

@app.get("/internal/health", include_in_schema=False)
def health():
    pass
`)
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))

	routes, err := DiscoverRoutes(idx, "app", "app")
	require.NoError(t, err)
	require.Len(t, routes, 1)
	require.False(t, routes[0].IncludeInSchema)
}

func TestDiscoverRoutes_IgnoresDecoratorsOnOtherObjects(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
app = None
router = None

@router.get("/nested")
def nested():
    pass

@app.post("/items")
def create_item():
    pass
`)
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))

	routes, err := DiscoverRoutes(idx, "app", "app")
	require.NoError(t, err)
	require.Len(t, routes, 1)
	require.Equal(t, "create_item", routes[0].Handler.Name)
}

func TestDiscoverRoutes_ExplicitDependsArgumentResolvesFunctionDependency(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
app = None

def get_current_user():
    pass

@app.get("/me")
def read_me(user = Depends(get_current_user)):
    pass
`)
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))

	routes, err := DiscoverRoutes(idx, "app", "app")
	require.NoError(t, err)
	require.Len(t, routes, 1)
	require.Len(t, routes[0].Dependencies, 1)
	require.Equal(t, "get_current_user", routes[0].Dependencies[0].Name)
}

// A bare Depends() falls back to the parameter's own type annotation, and
// a class dependency resolves through its __call__.
func TestDiscoverRoutes_BareDependsFallsBackToAnnotationAndUsesCallMethod(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
app = None

class RateLimiter:
    def __call__(self):
        pass

@app.get("/limited")
def read_limited(limiter: RateLimiter = Depends()):
    pass
`)
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))

	routes, err := DiscoverRoutes(idx, "app", "app")
	require.NoError(t, err)
	require.Len(t, routes, 1)
	require.Len(t, routes[0].Dependencies, 1)
	require.Equal(t, "RateLimiter.__call__", routes[0].Dependencies[0].QualifiedName)
}

func TestDiscoverRoutes_TransitiveDependenciesAreFlattened(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
app = None

def get_db():
    pass

def get_current_user(db = Depends(get_db)):
    pass

@app.get("/me")
def read_me(user = Depends(get_current_user)):
    pass
`)
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))

	routes, err := DiscoverRoutes(idx, "app", "app")
	require.NoError(t, err)
	require.Len(t, routes, 1)

	names := map[string]bool{}
	for _, dep := range routes[0].Dependencies {
		names[dep.Name] = true
	}
	require.True(t, names["get_current_user"])
	require.True(t, names["get_db"])
	require.Len(t, routes[0].Callables(), 3)
}

// Stacked decorators on the same handler (`@app.get` + `@app.post`) must
// both be recorded, not just the last one applied.
func TestDiscoverRoutes_StackedDecoratorsAccumulateMethods(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
app = None

@app.get("/items")
@app.post("/items")
def list_or_create_items():
    pass
`)
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))

	routes, err := DiscoverRoutes(idx, "app", "app")
	require.NoError(t, err)
	require.Len(t, routes, 1)
	require.Equal(t, "/items", routes[0].Path)
	require.ElementsMatch(t, []string{"get", "post"}, routes[0].Methods)
}

func TestDiscoverRoutes_NoMatchingDecoratorsReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
app = None

def plain_function():
    pass
`)
	idx := pyast.NewProjectIndex(0)
	require.NoError(t, idx.Discover(dir))

	routes, err := DiscoverRoutes(idx, "app", "app")
	require.NoError(t, err)
	require.Empty(t, routes)
}
