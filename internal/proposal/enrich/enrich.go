package enrich

import (
	"fmt"
	"strings"

	"proposal-service/internal/proposal/document"
)

// minDescriptionLength is the threshold above which an author-provided
// description is kept verbatim instead of being replaced with canned content.
const minDescriptionLength = 50

// Enhance derives polished content for a line item. Author descriptions
// longer than the threshold are never overwritten; otherwise the item is
// classified against the service catalog in fixed priority order, falling
// back to a generic template when nothing matches. Deterministic: the same
// item always yields the same enhancement.
func Enhance(item document.LineItem) document.Enhancement {
	category := classify(item.Name)

	enhancement := document.Enhancement{}
	if category != nil {
		enhancement.EnhancedDescription = category.description
		enhancement.Deliverables = append([]string(nil), category.deliverables...)
		enhancement.Timeline = category.timeline
	} else {
		enhancement.EnhancedDescription = fmt.Sprintf(
			"Professional %s delivered to specification with clear milestones and regular progress updates.",
			strings.TrimSpace(item.Name),
		)
		enhancement.Deliverables = append([]string(nil), genericDeliverables...)
		enhancement.Timeline = genericTimeline
	}

	if len(strings.TrimSpace(item.Description)) > minDescriptionLength {
		enhancement.EnhancedDescription = item.Description
	}

	return enhancement
}

// classify returns the first catalog category whose keywords match the name,
// or nil when none do. Order matters: tests pin specific names to specific
// categories.
func classify(name string) *serviceCategory {
	lowered := strings.ToLower(name)
	for i := range serviceCatalog {
		for _, keyword := range serviceCatalog[i].keywords {
			if strings.Contains(lowered, keyword) {
				return &serviceCatalog[i]
			}
		}
	}
	return nil
}

// ProjectOverview returns the fixed engagement narrative. It characterizes
// the engagement as a whole and is identical for every proposal.
func ProjectOverview(proposal document.Proposal) document.ProjectOverview {
	_ = proposal
	return document.ProjectOverview{
		Scope:       "All services listed in this proposal, delivered as a single coordinated engagement.",
		Methodology: "Iterative delivery with weekly check-ins, a shared project board, and review checkpoints at each milestone.",
		Support:     "30 days of post-launch support included, covering fixes and minor adjustments.",
		Hosting:     "Deployment to your hosting environment of choice; hosting fees are billed separately by the provider.",
		Maintenance: "Optional ongoing maintenance available after the included support window ends.",
	}
}

// TechnicalSpecs returns the static technical information block.
func TechnicalSpecs() document.TechnicalSpecs {
	return document.TechnicalSpecs{
		Development:   "Modern, maintainable technology stack with version-controlled source delivered to your repository.",
		Security:      "HTTPS everywhere, dependency auditing, and industry-standard handling of credentials and user data.",
		Performance:   "Optimized assets and caching with page performance verified against agreed budgets.",
		Compatibility: "Tested on current versions of major browsers and responsive across desktop, tablet, and mobile.",
	}
}
