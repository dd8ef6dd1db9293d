// Package resolver is the static stand-in for a live reflection walk over
// func.__globals__, assignment maps, and parameter annotations: it turns
// AST nodes into dotted name paths and dotted name paths into resolved
// pyast.Function / pyast.Class values.
package resolver

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// ResolveAttributePath walks nested attribute-of / call-of / name nodes
// and produces a single left-to-right dotted path: "a.b().c" => "a.b.c";
// "mod.sub.Class.method" => the full chain. It returns ok=false when the
// leftmost producer is not a bare name.
func ResolveAttributePath(node *sitter.Node, src []byte) (string, bool) {
	var segments []string
	cur := node
	for cur != nil {
		switch cur.Type() {
		case "attribute":
			attrNode := cur.ChildByFieldName("attribute")
			if attrNode == nil {
				return "", false
			}
			segments = append(segments, attrNode.Content(src))
			cur = cur.ChildByFieldName("object")
		case "call":
			fn := cur.ChildByFieldName("function")
			if fn == nil {
				return "", false
			}
			cur = fn
		case "identifier":
			segments = append(segments, cur.Content(src))
			cur = nil
		default:
			return "", false
		}
	}
	if len(segments) == 0 {
		return "", false
	}
	reverse(segments)
	return strings.Join(segments, "."), true
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// StripGenericWrapping removes one layer of a generic type annotation's
// wrapping, e.g. "Optional[Foo]" -> "Foo", "Annotated[Foo, ...]" -> "Foo".
// Plain names pass through unchanged.
func StripGenericWrapping(annotation string) string {
	annotation = strings.TrimSpace(annotation)
	open := strings.IndexByte(annotation, '[')
	if open == -1 || !strings.HasSuffix(annotation, "]") {
		return annotation
	}
	inner := annotation[open+1 : len(annotation)-1]
	if idx := strings.IndexByte(inner, ','); idx != -1 {
		inner = inner[:idx]
	}
	return strings.TrimSpace(inner)
}
