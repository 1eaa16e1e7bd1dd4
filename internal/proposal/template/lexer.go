// Package template implements the proposal templating language: variable
// interpolation, conditional blocks, and iteration blocks (including nested
// iteration), plus the theme registry that owns the document structure.
//
// The engine is an explicit lexer/parser/evaluator over a small AST rather
// than repeated pattern rescanning, so nesting depth is unbounded and tag
// boundaries are unambiguous.
package template

import "strings"

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenVariable
	tokenOpenIf
	tokenCloseIf
	tokenOpenEach
	tokenCloseEach
)

type token struct {
	kind  tokenKind
	value string // literal text, or the dotted path for tag tokens
}

const (
	openMarker  = "{{"
	closeMarker = "}}"
)

// lex splits a template into text and tag tokens. Anything that looks like a
// tag but is not one of the recognized forms is kept as text; Process strips
// such residue in postprocessing and Validate reports it.
func lex(template string) []token {
	var tokens []token
	rest := template

	for {
		start := strings.Index(rest, openMarker)
		if start < 0 {
			if rest != "" {
				tokens = append(tokens, token{kind: tokenText, value: rest})
			}
			return tokens
		}

		end := strings.Index(rest[start:], closeMarker)
		if end < 0 {
			// No close marker anywhere after this point.
			tokens = append(tokens, token{kind: tokenText, value: rest})
			return tokens
		}
		end += start

		if start > 0 {
			tokens = append(tokens, token{kind: tokenText, value: rest[:start]})
		}

		raw := rest[start : end+len(closeMarker)]
		inner := strings.TrimSpace(rest[start+len(openMarker) : end])
		tokens = append(tokens, classifyTag(raw, inner))

		rest = rest[end+len(closeMarker):]
	}
}

func classifyTag(raw, inner string) token {
	switch {
	case inner == "/if":
		return token{kind: tokenCloseIf}
	case inner == "/each":
		return token{kind: tokenCloseEach}
	case strings.HasPrefix(inner, "#if "):
		path := strings.TrimSpace(strings.TrimPrefix(inner, "#if "))
		if path == "" {
			return token{kind: tokenText, value: raw}
		}
		return token{kind: tokenOpenIf, value: path}
	case strings.HasPrefix(inner, "#each "):
		path := strings.TrimSpace(strings.TrimPrefix(inner, "#each "))
		if path == "" {
			return token{kind: tokenText, value: raw}
		}
		return token{kind: tokenOpenEach, value: path}
	case inner == "" || strings.HasPrefix(inner, "#") || strings.HasPrefix(inner, "/"):
		// Unknown block syntax stays literal.
		return token{kind: tokenText, value: raw}
	default:
		return token{kind: tokenVariable, value: inner}
	}
}
