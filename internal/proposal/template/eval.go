package template

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Process renders a template against a context. It is total: it never fails,
// and any path that does not resolve renders as an empty string. Iteration
// resolves first, then conditionals, then variables; the AST shape guarantees
// that order rather than ordered text passes.
func Process(template string, ctx map[string]interface{}) string {
	nodes := parse(lex(template))

	var b strings.Builder
	b.Grow(len(template))
	evalNodes(&b, nodes, &scope{value: ctx})

	return postprocess(b.String())
}

// scope is one frame of the lookup chain. Iteration pushes the current
// element as a child scope; unresolved paths fall back to the parent so block
// bodies can still reference top-level values.
type scope struct {
	value  interface{}
	parent *scope
}

func (s *scope) resolve(path string) interface{} {
	if path == "this" {
		return s.value
	}
	if v, ok := lookup(s.value, path); ok {
		return v
	}
	if s.parent != nil {
		return s.parent.resolve(path)
	}
	return nil
}

func lookup(value interface{}, path string) (interface{}, bool) {
	current := value
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func evalNodes(b *strings.Builder, nodes []node, sc *scope) {
	for _, n := range nodes {
		switch n := n.(type) {
		case textNode:
			b.WriteString(n.text)
		case variableNode:
			b.WriteString(stringify(sc.resolve(n.path)))
		case ifNode:
			if isTruthy(sc.resolve(n.path)) {
				evalNodes(b, n.body, sc)
			}
		case eachNode:
			for _, element := range toSlice(sc.resolve(n.path)) {
				evalNodes(b, n.body, &scope{value: element, parent: sc})
			}
		}
	}
}

// toSlice normalizes any slice or array value to []interface{}; everything
// else (including nil and empty sequences) yields nil, which removes the
// iteration block entirely.
func toSlice(value interface{}) []interface{} {
	if value == nil {
		return nil
	}
	if s, ok := value.([]interface{}); ok {
		return s
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// isTruthy: non-empty string, non-zero number, non-empty collection, true.
func isTruthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case float32:
		return v != 0
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	}
	return true
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return ""
}

var (
	markerCommentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)
	residuePattern       = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	trailingSpacePattern = regexp.MustCompile(`[ \t]+\n`)
	blankRunPattern      = regexp.MustCompile(`\n{3,}`)
)

// postprocess removes template-language residue so the reader never sees it:
// marker comments, any placeholder syntax that survived rendering, and the
// whitespace holes left behind by removed blocks.
func postprocess(s string) string {
	s = markerCommentPattern.ReplaceAllString(s, "")
	s = residuePattern.ReplaceAllString(s, "")
	s = trailingSpacePattern.ReplaceAllString(s, "\n")
	s = blankRunPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
