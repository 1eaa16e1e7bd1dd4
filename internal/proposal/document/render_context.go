package document

// RenderContext is the complete, read-only bag of values one generation call
// feeds the template processor. Every key the templates reference is written
// exactly once, in Map, so a typo surfaces as a compile error here instead of
// silently rendering blank.
type RenderContext struct {
	CompanyName    string
	CompanyEmail   string
	CompanyPhone   string
	CompanyWebsite string
	LogoURL        string

	ContactName  string
	ContactEmail string
	ContactTitle string

	ProposalTitle  string
	ProposalNumber string
	CreatedDate    string
	ExpiryDate     string

	Items []EnhancedLineItem

	Subtotal   string
	Tax        string
	TaxRatePct string
	Total      string

	Overview ProjectOverview
	Specs    TechnicalSpecs

	PaymentLink    string
	PaymentQR      string
	AcceptanceLink string
	AcceptanceQR   string

	Watermark string
	Format    string
}

// Map converts the context into the dotted-path namespace the processor
// resolves against.
func (rc *RenderContext) Map() map[string]interface{} {
	items := make([]interface{}, 0, len(rc.Items))
	for _, item := range rc.Items {
		deliverables := make([]interface{}, 0, len(item.Deliverables))
		for _, d := range item.Deliverables {
			deliverables = append(deliverables, d)
		}
		items = append(items, map[string]interface{}{
			"name":         item.Name,
			"description":  item.EnhancedDescription,
			"deliverables": deliverables,
			"timeline":     item.Timeline,
			"quantity":     item.Quantity,
			"unit_price":   item.FormattedUnitPrice,
			"total":        item.FormattedTotal,
		})
	}

	ctx := map[string]interface{}{
		"company": map[string]interface{}{
			"name":    rc.CompanyName,
			"email":   rc.CompanyEmail,
			"phone":   rc.CompanyPhone,
			"website": rc.CompanyWebsite,
			"logo":    rc.LogoURL,
		},
		"contact": map[string]interface{}{
			"name":  rc.ContactName,
			"email": rc.ContactEmail,
			"title": rc.ContactTitle,
		},
		"proposal": map[string]interface{}{
			"title":        rc.ProposalTitle,
			"number":       rc.ProposalNumber,
			"created_date": rc.CreatedDate,
			"expiry_date":  rc.ExpiryDate,
		},
		"items": items,
		"pricing": map[string]interface{}{
			"subtotal":     rc.Subtotal,
			"tax":          rc.Tax,
			"tax_rate_pct": rc.TaxRatePct,
			"total":        rc.Total,
		},
		"overview": map[string]interface{}{
			"scope":       rc.Overview.Scope,
			"methodology": rc.Overview.Methodology,
			"support":     rc.Overview.Support,
			"hosting":     rc.Overview.Hosting,
			"maintenance": rc.Overview.Maintenance,
		},
		"specs": map[string]interface{}{
			"development":   rc.Specs.Development,
			"security":      rc.Specs.Security,
			"performance":   rc.Specs.Performance,
			"compatibility": rc.Specs.Compatibility,
		},
		"payment": map[string]interface{}{
			"link": rc.PaymentLink,
			"qr":   rc.PaymentQR,
		},
		"acceptance": map[string]interface{}{
			"link": rc.AcceptanceLink,
			"qr":   rc.AcceptanceQR,
		},
		"watermark": rc.Watermark,
		"format":    rc.Format,
	}

	return ctx
}
