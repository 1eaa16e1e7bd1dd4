package template

// The AST is a small tagged union: Text | Variable(path) | If(path, body) |
// Each(path, body). Parsing is tolerant so rendering stays total: stray close
// tags are dropped and blocks left open at end of input extend to the end.
// Validate is the place structural problems get reported, not here.

type node interface{ isNode() }

type textNode struct {
	text string
}

type variableNode struct {
	path string
}

type ifNode struct {
	path string
	body []node
}

type eachNode struct {
	path string
	body []node
}

func (textNode) isNode()     {}
func (variableNode) isNode() {}
func (ifNode) isNode()       {}
func (eachNode) isNode()     {}

func parse(tokens []token) []node {
	nodes, _ := parseBody(tokens, 0, tokenKind(-1))
	return nodes
}

// parseBody parses until the given close kind (or end of input) and returns
// the nodes plus the index just past the consumed tokens.
func parseBody(tokens []token, pos int, until tokenKind) ([]node, int) {
	var nodes []node

	for pos < len(tokens) {
		tok := tokens[pos]
		switch tok.kind {
		case tokenText:
			nodes = append(nodes, textNode{text: tok.value})
			pos++
		case tokenVariable:
			nodes = append(nodes, variableNode{path: tok.value})
			pos++
		case tokenOpenIf:
			body, next := parseBody(tokens, pos+1, tokenCloseIf)
			nodes = append(nodes, ifNode{path: tok.value, body: body})
			pos = next
		case tokenOpenEach:
			body, next := parseBody(tokens, pos+1, tokenCloseEach)
			nodes = append(nodes, eachNode{path: tok.value, body: body})
			pos = next
		case tokenCloseIf, tokenCloseEach:
			if tok.kind == until {
				return nodes, pos + 1
			}
			// Stray close tag: drop it.
			pos++
		default:
			pos++
		}
	}

	return nodes, pos
}
