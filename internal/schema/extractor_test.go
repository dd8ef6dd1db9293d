package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ManiMozaffar/richapi-go/internal/callgraph"
)

// Class attributes alone supply status and detail; the raise call passes no
// arguments to inspect.
func TestExtract_ClassAttributePrecedence(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
class HTTPException:
    pass

class ServerError(HTTPException):
    status_code = 500
    detail = "Internal Server Error"

def handler():
    raise ServerError()
`)
	site := siteFor(t, walkHandler(t, dir), "ServerError")

	extracted, ok := Extract(site)
	require.True(t, ok)
	require.Equal(t, 500, extracted.StatusCode)
	require.NotNil(t, extracted.Detail)
	require.Equal(t, "Internal Server Error", *extracted.Detail)
}

// A qualified status module constant resolves through its own name.
func TestExtract_QualifiedStatusConstant(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
class HTTPException:
    pass

def handler():
    raise HTTPException(status_code=status.HTTP_404_NOT_FOUND, detail="missing")
`)
	site := siteFor(t, walkHandler(t, dir), "HTTPException")

	extracted, ok := Extract(site)
	require.True(t, ok)
	require.Equal(t, 404, extracted.StatusCode)
	require.Equal(t, "missing", *extracted.Detail)
}

// A bare status constant name resolves the same way a qualified one does:
// `HTTP_400_BAD_REQUEST` instead of `status.HTTP_400_BAD_REQUEST`.
func TestExtract_BareNameStatusConstant(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
class HTTPException:
    pass

def handler():
    raise HTTPException(status_code=HTTP_400_BAD_REQUEST, detail="bad")
`)
	site := siteFor(t, walkHandler(t, dir), "HTTPException")

	extracted, ok := Extract(site)
	require.True(t, ok)
	require.Equal(t, 400, extracted.StatusCode)
}

// A status_code keyword argument overrides a positional int argument.
func TestExtract_KeywordOverridesPositional(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
class HTTPException:
    pass

def handler():
    raise HTTPException(501, status_code=502, detail="override wins")
`)
	site := siteFor(t, walkHandler(t, dir), "HTTPException")

	extracted, ok := Extract(site)
	require.True(t, ok)
	require.Equal(t, 502, extracted.StatusCode)
	require.Equal(t, "override wins", *extracted.Detail)
}

// Step 4: all positionals are literal constants.
func TestExtract_PositionalLiteralConstants(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
class HTTPException:
    pass

def handler():
    raise HTTPException(404, "not found")
`)
	site := siteFor(t, walkHandler(t, dir), "HTTPException")

	extracted, ok := Extract(site)
	require.True(t, ok)
	require.Equal(t, 404, extracted.StatusCode)
	require.Equal(t, "not found", *extracted.Detail)
}

// Step 5: a status kwarg found alongside a non-literal detail kwarg falls
// back to status-only, detail nil.
func TestExtract_NonLiteralDetailFallsBackToStatusOnly(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
class HTTPException:
    pass

def compute_detail():
    return "dynamic"

def handler():
    raise HTTPException(status_code=418, detail=compute_detail())
`)
	site := siteFor(t, walkHandler(t, dir), "HTTPException")

	extracted, ok := Extract(site)
	require.True(t, ok)
	require.Equal(t, 418, extracted.StatusCode)
	require.Nil(t, extracted.Detail)
}

// Step 5: mixed positional literal/computed args fall back to the first
// literal integer positional, detail nil.
func TestExtract_MixedPositionalFallsBackToIntLiteral(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
class HTTPException:
    pass

def compute_detail():
    return "dynamic"

def handler():
    raise HTTPException(500, compute_detail())
`)
	site := siteFor(t, walkHandler(t, dir), "HTTPException")

	extracted, ok := Extract(site)
	require.True(t, ok)
	require.Equal(t, 500, extracted.StatusCode)
	require.Nil(t, extracted.Detail)
}

// Step 5 terminal case: nothing usable at all, extraction gives up.
func TestExtract_GivesUpWhenNothingResolvable(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
class HTTPException:
    pass

def compute_status():
    return 500

def handler():
    raise HTTPException(compute_status())
`)
	site := siteFor(t, walkHandler(t, dir), "HTTPException")

	_, ok := Extract(site)
	require.False(t, ok)
}

func TestExtract_UnresolvedClassReturnsFalse(t *testing.T) {
	_, ok := Extract(callgraph.RaiseSite{})
	require.False(t, ok)
}
