// Package schema turns resolved raise sites into OpenAPI response schemas
// and folds them into an OpenAPI document.
package schema

import (
	"github.com/ManiMozaffar/richapi-go/internal/callgraph"
	"github.com/ManiMozaffar/richapi-go/internal/pyast"
)

// ResponseRecord is the (status_code, detail, schema_name, response_schema)
// tuple produced for every raise site that resolved to a concrete exception
// class.
type ResponseRecord struct {
	StatusCode     int
	Detail         *string
	SchemaName     string
	ResponseSchema map[string]interface{}
}

// BuildRecord converts a RaiseSite into a ResponseRecord. A class that
// structurally exposes a schema-producing method (here, get_json_schema, a
// common FastAPI exception-base convention) always wins on its own class
// attributes, bypassing raise-site argument inspection entirely: calling
// that classmethod directly is more faithful than re-deriving the pair from
// the raise call's AST.
func BuildRecord(site callgraph.RaiseSite) (ResponseRecord, bool) {
	if site.Class == nil {
		return ResponseRecord{}, false
	}

	if _, hasSchemaMethod := site.Class.Method("get_json_schema"); hasSchemaMethod {
		if extracted, ok := classAttributePair(site.Class); ok {
			return newRecord(site.Class, extracted), true
		}
	}

	extracted, ok := Extract(site)
	if !ok {
		return ResponseRecord{}, false
	}
	return newRecord(site.Class, extracted), true
}

func newRecord(cls *pyast.Class, extracted ExtractedSite) ResponseRecord {
	name := SchemaName(cls.Name, extracted.Detail)
	return ResponseRecord{
		StatusCode:     extracted.StatusCode,
		Detail:         extracted.Detail,
		SchemaName:     name,
		ResponseSchema: jsonSchemaFor(extracted.Detail),
	}
}

// jsonSchemaFor mirrors _generic_json_schema_builder's produced schema: a
// single required "detail" property, typed as a string literal (JSON Schema
// const) when a concrete detail was extracted, else a free-form string.
func jsonSchemaFor(detail *string) map[string]interface{} {
	detailProp := map[string]interface{}{"type": "string"}
	if detail != nil && *detail != "" {
		detailProp["const"] = *detail
	}
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"detail": detailProp,
		},
		"required": []string{"detail"},
	}
}
