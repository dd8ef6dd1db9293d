package schema

import "strings"

// camelCaseDetail ports protocol.py's try_to_camel_case: each delimiter
// stage (space, then underscore, then hyphen) re-splits the ORIGINAL
// string independently and overwrites the working result, so the last
// stage that finds a match wins rather than the transforms composing.
// Real detail strings only ever use one delimiter style in practice, so
// this quirk is harmless but kept faithfully rather than "fixed".
func camelCaseDetail(s string) string {
	final := s

	if strings.Contains(s, " ") {
		parts := strings.Split(s, " ")
		final = parts[0] + titleJoin(parts[1:])
	}
	if strings.Contains(s, "_") {
		parts := strings.Split(s, "_")
		final = parts[0] + titleJoin(parts[1:])
	}
	if strings.Contains(s, "-") {
		parts := strings.Split(s, "-")
		final = parts[0] + titleJoin(parts[1:])
	}

	return final
}

func titleJoin(parts []string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(titleCase(p))
	}
	return b.String()
}

// titleCase mimics Python's str.title() on a single already-split token:
// uppercase the first rune, lowercase the rest.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}

// SchemaName derives a response schema's component name the way
// protocol.py's _generic_json_schema_builder does: camelCased detail text
// suffixed with "Schema" when a concrete detail was extracted, else the
// exception class name suffixed with "ErrorSchema".
func SchemaName(className string, detail *string) string {
	if detail == nil || *detail == "" {
		return className + "ErrorSchema"
	}
	return camelCaseDetail(*detail) + "Schema"
}
