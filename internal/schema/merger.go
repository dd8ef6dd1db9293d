package schema

import "strconv"

// ExceptionSet is a per-route/method ordered set of ResponseRecords keyed
// by (status_code, schema_name), with duplicates silently collapsed in
// discovery order.
type ExceptionSet struct {
	order   []string
	records map[string]ResponseRecord
}

// NewExceptionSet builds an empty set, scoped to one route/method.
func NewExceptionSet() *ExceptionSet {
	return &ExceptionSet{records: map[string]ResponseRecord{}}
}

// Add inserts rec, ignoring it if a record with the same status code and
// schema name was already added.
func (s *ExceptionSet) Add(rec ResponseRecord) {
	key := strconv.Itoa(rec.StatusCode) + "|" + rec.SchemaName
	if _, exists := s.records[key]; exists {
		return
	}
	s.records[key] = rec
	s.order = append(s.order, key)
}

// Records returns the set's contents in discovery order.
func (s *ExceptionSet) Records() []ResponseRecord {
	out := make([]ResponseRecord, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.records[k])
	}
	return out
}

// MergeInto injects every record in s into doc's components.schemas and the
// given path/method's responses, lifting a response to a union ("anyOf")
// when more than one schema shares a status code on the same route and
// method. The component registry is updated at most once per unique schema
// name.
func MergeInto(doc map[string]interface{}, path, method string, s *ExceptionSet) {
	for _, rec := range s.Records() {
		addComponentSchema(doc, rec)
		mergeResponse(doc, path, method, rec)
	}
}

func addComponentSchema(doc map[string]interface{}, rec ResponseRecord) {
	schemas := mapAt(mapAt(doc, "components"), "schemas")
	if _, exists := schemas[rec.SchemaName]; exists {
		return
	}
	schemas[rec.SchemaName] = rec.ResponseSchema
}

func mergeResponse(doc map[string]interface{}, path, method string, rec ResponseRecord) {
	statusKey := strconv.Itoa(rec.StatusCode)
	responses := responsesFor(doc, path, method)
	ref := map[string]interface{}{"$ref": "#/components/schemas/" + rec.SchemaName}

	existing, ok := responses[statusKey]
	if !ok {
		responses[statusKey] = map[string]interface{}{
			"description": describeDetail(rec),
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{
					"schema": ref,
				},
			},
		}
		return
	}

	entry, _ := existing.(map[string]interface{})
	content, _ := entry["content"].(map[string]interface{})
	appJSON, _ := content["application/json"].(map[string]interface{})

	if union, isMap := appJSON["schema"].(map[string]interface{}); isMap {
		if anyOf, hasAnyOf := union["anyOf"].([]interface{}); hasAnyOf {
			union["anyOf"] = append(anyOf, ref)
			return
		}
	}

	appJSON["schema"] = map[string]interface{}{
		"anyOf": []interface{}{appJSON["schema"], ref},
	}
}

func describeDetail(rec ResponseRecord) string {
	if rec.Detail != nil && *rec.Detail != "" {
		return *rec.Detail
	}
	return "No description provided"
}

func mapAt(parent map[string]interface{}, key string) map[string]interface{} {
	if v, ok := parent[key].(map[string]interface{}); ok {
		return v
	}
	m := map[string]interface{}{}
	parent[key] = m
	return m
}

func responsesFor(doc map[string]interface{}, path, method string) map[string]interface{} {
	route := mapAt(mapAt(doc, "paths"), path)
	return mapAt(mapAt(route, method), "responses")
}
