// Package assemble orchestrates proposal document generation: input
// validation, content enrichment, QR encoding, theme selection, template
// processing, and filename derivation.
package assemble

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	commonerrors "proposal-service/internal/common/errors"
	"proposal-service/internal/common/logger"
	"proposal-service/internal/common/metrics"
	"proposal-service/internal/common/observability"
	"proposal-service/internal/proposal/document"
	"proposal-service/internal/proposal/enrich"
	"proposal-service/internal/proposal/format"
	"proposal-service/internal/proposal/template"
)

// Result is the structured outcome of one generation call. Callers check
// Success rather than relying on an error value for expected failure modes.
type Result struct {
	Success  bool                   `json:"success"`
	HTML     string                 `json:"html,omitempty"`
	Filename string                 `json:"filename,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Code     commonerrors.ErrorCode `json:"code,omitempty"`
}

// Assembler drives the generation pipeline. It holds no per-request state,
// so one instance serves arbitrarily many concurrent calls.
type Assembler struct {
	registry     *template.Registry
	logger       logger.Logger
	obs          *observability.Observability
	validityDays int
}

// Config carries the assembler's construction-time settings.
type Config struct {
	Registry      *template.Registry
	Logger        logger.Logger
	Observability *observability.Observability
	ValidityDays  int
}

// New creates an Assembler. A nil registry gets a fresh one with only the
// built-in variants; ValidityDays <= 0 falls back to the 30-day default.
func New(cfg Config) *Assembler {
	registry := cfg.Registry
	if registry == nil {
		registry = template.NewRegistry(template.RegistryOptions{Logger: cfg.Logger})
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	days := cfg.ValidityDays
	if days <= 0 {
		days = format.DefaultValidityDays
	}
	return &Assembler{
		registry:     registry,
		logger:       log,
		obs:          cfg.Observability,
		validityDays: days,
	}
}

// Validate checks an input payload without side effects and reports every
// violation at once so a caller can surface all of them together.
func (a *Assembler) Validate(data document.ProposalDocumentData) document.ValidationResult {
	var errs []string

	if data.Proposal.ID == "" {
		errs = append(errs, "proposal id is required")
	}
	if strings.TrimSpace(data.Proposal.Title) == "" {
		errs = append(errs, "proposal title is required")
	}
	if len(data.Proposal.LineItems) == 0 {
		errs = append(errs, "at least one line item is required")
	}
	if data.Proposal.Total < 0 {
		errs = append(errs, "proposal total must be a non-negative number")
	}
	for i, item := range data.Proposal.LineItems {
		// Tolerance absorbs float accumulation like 3*19.99.
		if math.Abs(item.Total-item.Quantity*item.UnitPrice) > 0.005 {
			errs = append(errs, fmt.Sprintf("line item %d total must equal quantity times unit price", i+1))
		}
	}
	if strings.TrimSpace(data.Company.Name) == "" {
		errs = append(errs, "company name is required")
	}

	return document.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Generate runs the full pipeline and returns a structured result. Expected
// failures (bad payload, QR encoding, template problems) come back as
// Success=false rather than an error crossing the request boundary.
func (a *Assembler) Generate(ctx context.Context, data document.ProposalDocumentData, opts document.GenerationOptions) Result {
	theme := a.registry.ResolveThemeName(opts.Template)
	start := time.Now()

	metrics.GenerationsActive.WithLabelValues(theme).Inc()
	defer metrics.GenerationsActive.WithLabelValues(theme).Dec()
	timer := prometheus.NewTimer(metrics.GenerationDuration.WithLabelValues(theme))
	defer timer.ObserveDuration()

	log := a.logger.WithFields(map[string]interface{}{
		"proposal_id": data.Proposal.ID,
		"theme":       theme,
	})

	// Minimal re-check only; callers are expected to run Validate first.
	if data.Proposal.ID == "" || len(data.Proposal.LineItems) == 0 {
		return a.fail(ctx, log, theme, commonerrors.NewValidationFailedError(
			"proposal id and at least one line item are required"))
	}

	currency := data.Proposal.Currency

	items := make([]document.EnhancedLineItem, 0, len(data.Proposal.LineItems))
	for _, item := range data.Proposal.LineItems {
		enhancement := enrich.Enhance(item)
		items = append(items, document.EnhancedLineItem{
			LineItem:            item,
			EnhancedDescription: enhancement.EnhancedDescription,
			Deliverables:        enhancement.Deliverables,
			Timeline:            enhancement.Timeline,
			FormattedUnitPrice:  format.Currency(item.UnitPrice, currency),
			FormattedTotal:      format.Currency(item.Total, currency),
		})
	}

	paymentQR, err := a.encodeQR(ctx, opts.IncludePaymentQR, data.PaymentLink, "payment")
	if err != nil {
		return a.fail(ctx, log, theme, commonerrors.NewQRGenerationFailedError(err))
	}
	acceptanceQR, err := a.encodeQR(ctx, opts.IncludeAcceptanceQR, data.AcceptanceLink, "acceptance")
	if err != nil {
		return a.fail(ctx, log, theme, commonerrors.NewQRGenerationFailedError(err))
	}

	logoURL := data.Company.LogoURL
	if opts.LogoURL != "" {
		logoURL = opts.LogoURL
	}

	rc := document.RenderContext{
		CompanyName:    data.Company.Name,
		CompanyEmail:   data.Company.Email,
		CompanyPhone:   data.Company.Phone,
		CompanyWebsite: data.Company.Website,
		LogoURL:        logoURL,

		ProposalTitle:  data.Proposal.Title,
		ProposalNumber: format.ProposalNumber(data.Proposal.ID),
		CreatedDate:    format.Date(data.Proposal.CreatedAt),
		ExpiryDate:     format.ExpiryDate(data.Proposal.CreatedAt, a.validityDays),

		Items: items,

		Subtotal:   format.Currency(data.Proposal.Subtotal, currency),
		Tax:        format.Currency(data.Proposal.Tax, currency),
		TaxRatePct: formatTaxRatePct(data.Proposal.TaxRate),
		Total:      format.Currency(data.Proposal.Total, currency),

		Overview: enrich.ProjectOverview(data.Proposal),
		Specs:    enrich.TechnicalSpecs(),

		PaymentLink:    data.PaymentLink,
		PaymentQR:      paymentQR,
		AcceptanceLink: data.AcceptanceLink,
		AcceptanceQR:   acceptanceQR,

		Watermark: opts.Watermark,
		Format:    paperFormat(opts.Format),
	}
	if data.Contact != nil {
		rc.ContactName = strings.TrimSpace(data.Contact.FirstName + " " + data.Contact.LastName)
		rc.ContactEmail = data.Contact.Email
		rc.ContactTitle = data.Contact.Title
	}

	tpl := a.registry.Variant(theme)
	if b := opts.Branding; b != nil {
		tpl = a.registry.Branded(theme, b.PrimaryColor, b.AccentColor, b.FontFamily)
	}
	html := template.Process(tpl, rc.Map())
	filename := format.Filename(data.Company.Name, data.Proposal.ID)

	metrics.GenerationsCompleted.WithLabelValues(theme).Inc()
	if a.obs != nil {
		a.obs.RecordGeneration(ctx, theme, "success")
		a.obs.RecordGenerationDuration(ctx, time.Since(start), "success")
	}
	log.Info("proposal document generated", map[string]interface{}{
		"filename":    filename,
		"line_items":  len(items),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return Result{Success: true, HTML: html, Filename: filename}
}

// BuildGenerationURL builds the HTTP generation endpoint URL for a proposal,
// encoding only the options that diverge from their defaults.
func BuildGenerationURL(proposalID, baseURL string, opts document.GenerationOptions) string {
	base := strings.TrimRight(baseURL, "/")
	endpoint := fmt.Sprintf("%s/api/v1/proposals/%s/document", base, url.PathEscape(proposalID))

	query := url.Values{}
	if opts.Template != "" && opts.Template != "default" {
		query.Set("template", opts.Template)
	}
	if opts.IncludePaymentQR {
		query.Set("paymentQR", "true")
	}
	if opts.IncludeAcceptanceQR {
		query.Set("acceptanceQR", "true")
	}
	if opts.Format != "" && opts.Format != "Letter" {
		query.Set("format", opts.Format)
	}
	if opts.Watermark != "" {
		query.Set("watermark", opts.Watermark)
	}
	if opts.LogoURL != "" {
		query.Set("logoUrl", opts.LogoURL)
	}

	if len(query) == 0 {
		return endpoint
	}
	return endpoint + "?" + query.Encode()
}

func (a *Assembler) encodeQR(ctx context.Context, include bool, link, kind string) (string, error) {
	if !include || link == "" {
		return "", nil
	}
	uri, err := format.QRDataURI(ctx, link)
	if err != nil {
		return "", fmt.Errorf("%s QR: %w", kind, err)
	}
	metrics.QRCodesEncoded.WithLabelValues(kind).Inc()
	return uri, nil
}

func (a *Assembler) fail(ctx context.Context, log logger.Logger, theme string, stdErr *commonerrors.StandardError) Result {
	metrics.GenerationsFailed.WithLabelValues(theme, string(stdErr.Code)).Inc()
	if a.obs != nil {
		a.obs.RecordGeneration(ctx, theme, "failure")
	}
	log.Error("proposal document generation failed", map[string]interface{}{
		"error_code": string(stdErr.Code),
		"error":      stdErr.Message,
	})
	return Result{Success: false, Error: stdErr.Message, Code: stdErr.Code}
}

// formatTaxRatePct renders a fractional tax rate (0.08) as a percentage
// figure ("8") without trailing zeros. The rate is rounded to two decimal
// places of a percent first: rate*100 alone leaves binary-float residue for
// rates like 0.07, which would render as "7.000000000000001".
func formatTaxRatePct(rate float64) string {
	pct := math.Round(rate*10000) / 100
	return strconv.FormatFloat(pct, 'f', -1, 64)
}

func paperFormat(f string) string {
	if strings.EqualFold(f, "A4") {
		return "A4"
	}
	return "Letter"
}
