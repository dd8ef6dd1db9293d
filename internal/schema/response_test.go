package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildRecord_BuildsDetailSchema(t *testing.T) {
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

	rec, ok := BuildRecord(site)
	require.True(t, ok)
	require.Equal(t, 500, rec.StatusCode)
	require.Equal(t, "InternalServerErrorSchema", rec.SchemaName)

	props, ok := rec.ResponseSchema["properties"].(map[string]interface{})
	require.True(t, ok)
	detailProp, ok := props["detail"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "Internal Server Error", detailProp["const"])
}

func TestBuildRecord_NoDetailUsesClassNameFallback(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
class HTTPException:
    pass

def handler():
    raise HTTPException(status_code=503)
`)
	site := siteFor(t, walkHandler(t, dir), "HTTPException")

	rec, ok := BuildRecord(site)
	require.True(t, ok)
	require.Equal(t, 503, rec.StatusCode)
	require.Equal(t, "HTTPExceptionErrorSchema", rec.SchemaName)
	require.Nil(t, rec.Detail)

	props := rec.ResponseSchema["properties"].(map[string]interface{})
	detailProp := props["detail"].(map[string]interface{})
	_, hasConst := detailProp["const"]
	require.False(t, hasConst)
}

// A class that structurally exposes get_json_schema always wins on its own
// class attributes, even if the raise call passes different arguments.
func TestBuildRecord_StructuralSchemaMethodUsesClassAttrsOverRaiseArgs(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
class HTTPException:
    pass

class NotFoundError(HTTPException):
    status_code = 404
    detail = "not found"

    @classmethod
    def get_json_schema(cls):
        pass

def handler():
    raise NotFoundError(status_code=500, detail="ignored")
`)
	site := siteFor(t, walkHandler(t, dir), "NotFoundError")

	rec, ok := BuildRecord(site)
	require.True(t, ok)
	require.Equal(t, 404, rec.StatusCode)
	require.Equal(t, "not found", *rec.Detail)
}

func TestBuildRecord_UnresolvedRaiseHasNoRecord(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", `
def handler():
    raise
`)
	sites := walkHandler(t, dir)
	require.Len(t, sites, 1)

	_, ok := BuildRecord(sites[0])
	require.False(t, ok)
}
