package format

import (
	"fmt"
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// ProposalNumber derives the short human-presentable number from a proposal
// id: the last 8 characters, uppercased. Stable for the same id.
func ProposalNumber(proposalID string) string {
	id := strings.TrimSpace(proposalID)
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return strings.ToUpper(id)
}

// Filename builds the filesystem-safe document filename from the company name
// and proposal id. Runs of non-alphanumeric characters collapse to a single
// hyphen and leading/trailing hyphens are trimmed.
func Filename(companyName, proposalID string) string {
	sanitized := nonAlphanumeric.ReplaceAllString(companyName, "-")
	sanitized = strings.Trim(sanitized, "-")
	if sanitized == "" {
		sanitized = "client"
	}
	return fmt.Sprintf("proposal-%s-%s.html", sanitized, ProposalNumber(proposalID))
}
