package schema

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ManiMozaffar/richapi-go/internal/callgraph"
	"github.com/ManiMozaffar/richapi-go/internal/pyast"
)

// ExtractedSite is the (status_code, detail) pair statically recovered for
// a resolved RaiseSite.
type ExtractedSite struct {
	StatusCode int
	Detail     *string
}

// Extract prefers, in order: class attributes, then keyword arguments on
// the raise call, then positional arguments, then a permissive partial-
// reconciliation fallback — the same order a reader scanning the raise
// site top-down would trust each source of truth. Returns ok=false only
// when nothing usable could be recovered at all ("give up on this site").
func Extract(site callgraph.RaiseSite) (ExtractedSite, bool) {
	if site.Class == nil {
		return ExtractedSite{}, false
	}
	if result, ok := classAttributePair(site.Class); ok {
		return result, true
	}

	callNode := raiseCallNode(site.Node)
	if callNode == nil || site.DefiningFunc == nil || site.DefiningFunc.Module == nil {
		return ExtractedSite{}, false
	}
	src := site.DefiningFunc.Module.Source

	argsNode := callNode.ChildByFieldName("arguments")
	if argsNode == nil {
		return ExtractedSite{}, false
	}

	foundStatus, foundDetail, positionals := scanArguments(argsNode, src)
	if foundStatus != nil && foundDetail != nil {
		return ExtractedSite{StatusCode: *foundStatus, Detail: foundDetail}, true
	}

	allLiteral, intPositional, strPositional := classifyPositionals(positionals, src)
	if allLiteral && intPositional != nil {
		// Step 4: all positionals are literal constants. The common base
		// exception signature is (status_code, detail, ...), so the first
		// literal int and first literal string stand in for a real
		// constructor attempt — no user code runs here.
		return ExtractedSite{StatusCode: *intPositional, Detail: strPositional}, true
	}

	// Step 5: mixed positional/computed reconciliation.
	if foundStatus != nil {
		return ExtractedSite{StatusCode: *foundStatus}, true
	}
	if intPositional != nil {
		return ExtractedSite{StatusCode: *intPositional}, true
	}
	return ExtractedSite{}, false
}

// classAttributePair implements step 1: both status_code and detail must be
// declared as non-empty class attributes.
func classAttributePair(cls *pyast.Class) (ExtractedSite, bool) {
	statusRaw, hasStatus := cls.ClassAttrs["status_code"]
	detailRaw, hasDetail := cls.ClassAttrs["detail"]
	if !hasStatus || !hasDetail {
		return ExtractedSite{}, false
	}

	status, ok := parseIntLiteral(statusRaw)
	if !ok {
		return ExtractedSite{}, false
	}
	detail, ok := stringLiteralText(detailRaw)
	if !ok || detail == "" {
		return ExtractedSite{}, false
	}
	return ExtractedSite{StatusCode: status, Detail: &detail}, true
}

// raiseCallNode returns the `call` node inside a raise statement's
// expression, unwrapping a leading `await`, or nil if the raise doesn't
// construct anything (bare re-raise, or raises a bare reference).
func raiseCallNode(node *sitter.Node) *sitter.Node {
	if node == nil || node.NamedChildCount() == 0 {
		return nil
	}
	expr := node.NamedChild(0)
	if expr.Type() == "await" && expr.NamedChildCount() > 0 {
		expr = expr.NamedChild(0)
	}
	if expr.Type() != "call" {
		return nil
	}
	return expr
}

func scanArguments(argsNode *sitter.Node, src []byte) (foundStatus *int, foundDetail *string, positionals []*sitter.Node) {
	for i := 0; i < int(argsNode.NamedChildCount()); i++ {
		arg := argsNode.NamedChild(i)
		if arg.Type() != "keyword_argument" {
			positionals = append(positionals, arg)
			continue
		}

		nameNode := arg.ChildByFieldName("name")
		valueNode := arg.ChildByFieldName("value")
		if nameNode == nil || valueNode == nil {
			continue
		}

		switch nameNode.Content(src) {
		case "status_code":
			if v, ok := resolveStatusCodeValue(valueNode, src); ok {
				foundStatus = &v
			}
		case "detail":
			if v, ok := parseStringLiteral(valueNode, src); ok {
				foundDetail = &v
			}
		}
	}
	return foundStatus, foundDetail, positionals
}

// resolveStatusCodeValue accepts a literal integer, an attribute reference
// on a status module (`status.HTTP_404_NOT_FOUND`), or a bare name
// (`HTTP_404_NOT_FOUND`).
func resolveStatusCodeValue(node *sitter.Node, src []byte) (int, bool) {
	switch node.Type() {
	case "integer":
		return parseIntLiteral(node.Content(src))
	case "attribute":
		attrNode := node.ChildByFieldName("attribute")
		if attrNode == nil {
			return 0, false
		}
		return lookupStatusConstant(attrNode.Content(src))
	case "identifier":
		return lookupStatusConstant(node.Content(src))
	default:
		return 0, false
	}
}

// lookupStatusConstant resolves a qualified or bare status-module constant
// name to its integer status code. Both fastapi.status and starlette.status
// name every constant HTTP_<code>_<...>, so the code can always be read
// directly off the name — no hardcoded table of the module's hundred-odd
// constants is needed.
func lookupStatusConstant(name string) (int, bool) {
	const prefix = "HTTP_"
	if !strings.HasPrefix(name, prefix) {
		return 0, false
	}
	rest := name[len(prefix):]
	end := strings.IndexByte(rest, '_')
	if end == -1 {
		end = len(rest)
	}
	code, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, false
	}
	return code, true
}

func classifyPositionals(nodes []*sitter.Node, src []byte) (allLiteral bool, intVal *int, strVal *string) {
	if len(nodes) == 0 {
		return false, nil, nil
	}
	allLiteral = true
	for _, n := range nodes {
		switch n.Type() {
		case "integer":
			if intVal == nil {
				if v, ok := parseIntLiteral(n.Content(src)); ok {
					intVal = &v
				}
			}
		case "string":
			if strVal == nil {
				if v, ok := parseStringLiteral(n, src); ok {
					strVal = &v
				}
			}
		case "true", "false", "none", "float":
			// still a literal constant, just not status/detail-shaped.
		default:
			allLiteral = false
		}
	}
	return allLiteral, intVal, strVal
}

func parseIntLiteral(raw string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseStringLiteral(node *sitter.Node, src []byte) (string, bool) {
	if node.Type() != "string" {
		return "", false
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == "string_content" {
			return child.Content(src), true
		}
	}
	return stringLiteralText(node.Content(src))
}

func stringLiteralText(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 {
		return "", false
	}
	for _, q := range []string{`"""`, "'''"} {
		if strings.HasPrefix(raw, q) && strings.HasSuffix(raw, q) && len(raw) >= 2*len(q) {
			return raw[len(q) : len(raw)-len(q)], true
		}
	}
	first := raw[0]
	if (first == '"' || first == '\'') && raw[len(raw)-1] == first {
		return raw[1 : len(raw)-1], true
	}
	return "", false
}
