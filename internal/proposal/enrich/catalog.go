// Package enrich synthesizes descriptive content for proposal line items from
// sparse input: a polished description, a deliverables list, and a timeline
// estimate, derived from keyword rules against the service name.
package enrich

// serviceCategory is one classification rule. Rules are checked in slice
// order and the first keyword hit wins, so a name matching two categories
// always resolves to the earlier one.
type serviceCategory struct {
	name         string
	keywords     []string
	description  string
	deliverables []string
	timeline     string
}

var serviceCatalog = []serviceCategory{
	{
		name:     "frontend",
		keywords: []string{"frontend", "buildout"},
		description: "Complete frontend buildout with a modern component architecture, " +
			"responsive layouts across all breakpoints, and production-grade build tooling.",
		deliverables: []string{
			"Component library with documented usage",
			"Responsive layouts for desktop, tablet, and mobile",
			"Cross-browser testing and fixes",
			"Production build pipeline and deployment handoff",
			"Performance budget with Lighthouse audit",
		},
		timeline: "3-5 weeks",
	},
	{
		name:     "website",
		keywords: []string{"website", "development"},
		description: "Professional website development covering information architecture, " +
			"page implementation, content integration, and launch support.",
		deliverables: []string{
			"Sitemap and page templates",
			"Fully implemented site pages",
			"Content management integration",
			"On-page SEO fundamentals",
			"Launch checklist and go-live support",
		},
		timeline: "4-6 weeks",
	},
	{
		name:     "design",
		keywords: []string{"design", "ui"},
		description: "End-to-end interface design from wireframes through polished visual " +
			"design, delivered as developer-ready specifications.",
		deliverables: []string{
			"Wireframes for key user flows",
			"High-fidelity mockups",
			"Design system tokens and components",
			"Developer handoff specifications",
		},
		timeline: "2-3 weeks",
	},
	{
		name:     "backend",
		keywords: []string{"backend", "api"},
		description: "Robust backend and API development with a documented interface, " +
			"automated tests, and deployment-ready infrastructure configuration.",
		deliverables: []string{
			"API design and endpoint documentation",
			"Data model and migrations",
			"Authentication and authorization layer",
			"Automated test suite",
			"Deployment configuration and runbook",
		},
		timeline: "3-6 weeks",
	},
	{
		name:     "consulting",
		keywords: []string{"consulting", "strategy"},
		description: "Focused consulting engagement delivering a concrete, prioritized " +
			"strategy with actionable recommendations.",
		deliverables: []string{
			"Discovery sessions and stakeholder interviews",
			"Current-state assessment",
			"Prioritized recommendation report",
			"Roadmap presentation",
		},
		timeline: "1-2 weeks",
	},
	{
		name:     "maintenance",
		keywords: []string{"maintenance", "support"},
		description: "Ongoing maintenance and support keeping your product secure, " +
			"up to date, and running smoothly with guaranteed response times.",
		deliverables: []string{
			"Monthly dependency and security updates",
			"Uptime monitoring and alerting",
			"Priority bug fixes",
			"Monthly status report",
		},
		timeline: "Ongoing",
	},
}

var genericDeliverables = []string{
	"Project kickoff and requirements review",
	"Implementation of agreed scope",
	"Quality assurance and revisions",
	"Final delivery and handoff",
}

const genericTimeline = "2-4 weeks"
