package template

import (
	"fmt"
	"strings"
)

// Validate reports structural problems in a template as human-readable
// messages: unbalanced conditional blocks, unbalanced iteration blocks, and
// open markers with no close marker on the same line. An empty result means
// the template is well-formed. Validation is advisory (Process runs with or
// without it) and is intended for theme-load time, not per request.
func Validate(template string) []string {
	var problems []string

	var openIf, closeIf, openEach, closeEach int
	for _, tok := range lex(template) {
		switch tok.kind {
		case tokenOpenIf:
			openIf++
		case tokenCloseIf:
			closeIf++
		case tokenOpenEach:
			openEach++
		case tokenCloseEach:
			closeEach++
		}
	}

	if openIf != closeIf {
		problems = append(problems, fmt.Sprintf(
			"unbalanced conditional blocks: %d {{#if}} against %d {{/if}}", openIf, closeIf))
	}
	if openEach != closeEach {
		problems = append(problems, fmt.Sprintf(
			"unbalanced iteration blocks: %d {{#each}} against %d {{/each}}", openEach, closeEach))
	}

	for i, line := range strings.Split(template, "\n") {
		if countUnclosedMarkers(line) > 0 {
			problems = append(problems, fmt.Sprintf(
				"line %d: '{{' without matching '}}'", i+1))
		}
	}

	return problems
}

// countUnclosedMarkers counts open markers on a line that have no close
// marker after them on the same line.
func countUnclosedMarkers(line string) int {
	unclosed := 0
	for {
		start := strings.Index(line, openMarker)
		if start < 0 {
			return unclosed
		}
		end := strings.Index(line[start:], closeMarker)
		if end < 0 {
			return unclosed + 1
		}
		line = line[start+end+len(closeMarker):]
	}
}
