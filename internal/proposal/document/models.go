// Package document holds the data model for proposal document generation.
package document

import "time"

// LineItem is one billable entry on a proposal as supplied by the CRM layer.
// Total is expected to equal Quantity * UnitPrice at input time; the pipeline
// does not re-derive it.
type LineItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// Enhancement is the synthesized content for a line item.
type Enhancement struct {
	EnhancedDescription string   `json:"enhancedDescription"`
	Deliverables        []string `json:"deliverables"`
	Timeline            string   `json:"timeline"`
}

// EnhancedLineItem is a LineItem plus enrichment and display formatting.
// Produced only by the enrichment stage, one fresh value per render.
type EnhancedLineItem struct {
	LineItem
	EnhancedDescription string   `json:"enhancedDescription"`
	Deliverables        []string `json:"deliverables"`
	Timeline            string   `json:"timeline"`
	FormattedUnitPrice  string   `json:"formattedUnitPrice"`
	FormattedTotal      string   `json:"formattedTotal"`
}

// Proposal is the proposal record as supplied by the CRM layer.
type Proposal struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	LineItems []LineItem `json:"line_items"`
	Subtotal  float64    `json:"subtotal"`
	Tax       float64    `json:"tax"`
	TaxRate   float64    `json:"tax_rate"`
	Total     float64    `json:"total"`
	Currency  string     `json:"currency,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Company is the minimal company record the document needs.
type Company struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
}

// Contact is the optional primary contact on the proposal.
type Contact struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Title     string `json:"title,omitempty"`
}

// ProposalDocumentData is the full input payload for one generation call,
// constructed fresh from upstream CRUD data and never mutated in place.
type ProposalDocumentData struct {
	Proposal       Proposal `json:"proposal"`
	Company        Company  `json:"company"`
	Contact        *Contact `json:"contact,omitempty"`
	PaymentLink    string   `json:"paymentLink,omitempty"`
	AcceptanceLink string   `json:"acceptanceLink,omitempty"`
}

// Branding overrides visual defaults without switching themes.
type Branding struct {
	PrimaryColor string `json:"primaryColor,omitempty"`
	AccentColor  string `json:"accentColor,omitempty"`
	FontFamily   string `json:"fontFamily,omitempty"`
}

// GenerationOptions is the externally configurable generation behavior.
// Zero values mean: template "default", format "Letter", no QR codes.
type GenerationOptions struct {
	Template            string    `json:"template,omitempty"`
	IncludePaymentQR    bool      `json:"includePaymentQR,omitempty"`
	IncludeAcceptanceQR bool      `json:"includeAcceptanceQR,omitempty"`
	LogoURL             string    `json:"logoUrl,omitempty"`
	Format              string    `json:"format,omitempty"` // "A4" or "Letter"
	Watermark           string    `json:"watermark,omitempty"`
	Branding            *Branding `json:"branding,omitempty"`
}

// ValidationResult collects every violation found in an input payload.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ProjectOverview is the fixed engagement narrative block.
type ProjectOverview struct {
	Scope       string `json:"scope"`
	Methodology string `json:"methodology"`
	Support     string `json:"support"`
	Hosting     string `json:"hosting"`
	Maintenance string `json:"maintenance"`
}

// TechnicalSpecs is the static informational block on the overview grid.
type TechnicalSpecs struct {
	Development   string `json:"development"`
	Security      string `json:"security"`
	Performance   string `json:"performance"`
	Compatibility string `json:"compatibility"`
}
