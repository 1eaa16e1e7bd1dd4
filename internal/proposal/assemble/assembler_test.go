package assemble

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "proposal-service/internal/common/errors"
	"proposal-service/internal/common/logger"
	"proposal-service/internal/proposal/document"
)

func testAssembler(t *testing.T) *Assembler {
	t.Helper()
	return New(Config{Logger: logger.NewTestLogger(t)})
}

func sampleData() document.ProposalDocumentData {
	return document.ProposalDocumentData{
		Proposal: document.Proposal{
			ID:    "prop_9f2c1ab4789000ab",
			Title: "Website Redesign Proposal",
			LineItems: []document.LineItem{
				{
					ID:        "li_1",
					Name:      "Website Design",
					Quantity:  1,
					UnitPrice: 2000,
					Total:     2000,
				},
			},
			Subtotal:  2000,
			Tax:       160,
			TaxRate:   0.08,
			Total:     2160,
			Currency:  "USD",
			CreatedAt: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC),
		},
		Company: document.Company{
			Name:  "Acme & Sons, Inc.",
			Email: "hello@acme.test",
		},
		Contact: &document.Contact{
			FirstName: "Dana",
			LastName:  "Reyes",
			Email:     "dana@client.test",
		},
		PaymentLink:    "https://pay.example.test/prop_9f2c1ab4789000ab",
		AcceptanceLink: "https://accept.example.test/prop_9f2c1ab4789000ab",
	}
}

// ==========================
// Validate
// ==========================

func TestValidateAcceptsCompletePayload(t *testing.T) {
	result := testAssembler(t).Validate(sampleData())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateReportsAllViolationsTogether(t *testing.T) {
	data := sampleData()
	data.Proposal.Title = "  "
	data.Company.Name = ""

	result := testAssembler(t).Validate(data)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "proposal title is required")
	assert.Contains(t, result.Errors, "company name is required")
	assert.Len(t, result.Errors, 2)
}

func TestValidateRequiresLineItems(t *testing.T) {
	data := sampleData()
	data.Proposal.LineItems = nil

	result := testAssembler(t).Validate(data)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "at least one line item is required")
}

func TestValidateEmptyPayloadListsEveryProblem(t *testing.T) {
	result := testAssembler(t).Validate(document.ProposalDocumentData{})
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "at least one line item is required")
	assert.Contains(t, result.Errors, "company name is required")
	assert.Contains(t, result.Errors, "proposal id is required")
	assert.Contains(t, result.Errors, "proposal title is required")
}

func TestValidateRejectsNegativeTotal(t *testing.T) {
	data := sampleData()
	data.Proposal.Total = -10

	result := testAssembler(t).Validate(data)
	assert.False(t, result.Valid)
}

func TestValidateRejectsInconsistentLineItemTotal(t *testing.T) {
	data := sampleData()
	data.Proposal.LineItems[0].Quantity = 2
	data.Proposal.LineItems[0].UnitPrice = 100
	data.Proposal.LineItems[0].Total = 150

	result := testAssembler(t).Validate(data)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "line item 1 total must equal quantity times unit price")
}

func TestValidateToleratesFloatAccumulationInLineItemTotal(t *testing.T) {
	data := sampleData()
	data.Proposal.LineItems[0].Quantity = 3
	data.Proposal.LineItems[0].UnitPrice = 19.99
	data.Proposal.LineItems[0].Total = 59.97

	result := testAssembler(t).Validate(data)
	assert.True(t, result.Valid, result.Errors)
}

// ==========================
// Generate
// ==========================

func TestGenerateEndToEnd(t *testing.T) {
	result := testAssembler(t).Generate(context.Background(), sampleData(), document.GenerationOptions{})
	require.True(t, result.Success, result.Error)

	html := result.HTML

	// Hero and header.
	assert.Contains(t, html, "Website Redesign Proposal")
	assert.Contains(t, html, "Acme & Sons, Inc.")
	assert.Contains(t, html, "Dana Reyes")
	assert.Contains(t, html, "789000AB")
	assert.Contains(t, html, "March 10, 2026")
	assert.Contains(t, html, "April 9, 2026")

	// Service card from enrichment.
	assert.Contains(t, html, "Website Design")
	assert.Contains(t, html, "4-6 weeks")

	// Pricing block, in document order: line total, subtotal, tax, total.
	assert.Contains(t, html, "$2,000.00")
	assert.Contains(t, html, "$160.00")
	assert.Contains(t, html, "$2,160.00")
	assert.Contains(t, html, "Tax (8%)")
	subtotalIdx := strings.Index(html, "$2,000.00")
	taxIdx := strings.Index(html, "$160.00")
	totalIdx := strings.LastIndex(html, "$2,160.00")
	assert.Less(t, subtotalIdx, taxIdx)
	assert.Less(t, taxIdx, totalIdx)

	// No processor residue in the final document.
	assert.NotContains(t, html, "{{")
	assert.NotContains(t, html, "}}")
	assert.NotContains(t, html, "<!--")

	assert.Equal(t, "proposal-Acme-Sons-Inc-789000AB.html", result.Filename)
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := testAssembler(t)
	first := a.Generate(context.Background(), sampleData(), document.GenerationOptions{})
	second := a.Generate(context.Background(), sampleData(), document.GenerationOptions{})
	require.True(t, first.Success)
	assert.Equal(t, first.HTML, second.HTML)
	assert.Equal(t, first.Filename, second.Filename)
}

func TestGenerateUnknownThemeFallsBackToDefault(t *testing.T) {
	a := testAssembler(t)
	fallback := a.Generate(context.Background(), sampleData(), document.GenerationOptions{Template: "neon"})
	standard := a.Generate(context.Background(), sampleData(), document.GenerationOptions{})
	require.True(t, fallback.Success)
	assert.Equal(t, standard.HTML, fallback.HTML)
}

func TestGenerateThemedVariant(t *testing.T) {
	result := testAssembler(t).Generate(context.Background(), sampleData(),
		document.GenerationOptions{Template: "modern"})
	require.True(t, result.Success)
	assert.Contains(t, result.HTML, "#7c3aed")
	assert.NotContains(t, result.HTML, "#2563eb")
}

func TestGenerateBrandingOverridesPalette(t *testing.T) {
	result := testAssembler(t).Generate(context.Background(), sampleData(),
		document.GenerationOptions{Branding: &document.Branding{
			PrimaryColor: "#b91c1c",
			FontFamily:   "'Source Serif Pro', serif",
		}})
	require.True(t, result.Success, result.Error)
	assert.Contains(t, result.HTML, "#b91c1c")
	assert.Contains(t, result.HTML, "'Source Serif Pro', serif")
	assert.NotContains(t, result.HTML, "#2563eb")
	assert.NotContains(t, result.HTML, "'Inter', sans-serif")
	// Untouched slots keep their defaults.
	assert.Contains(t, result.HTML, "#1e40af")
}

func TestGenerateBrandingAppliesOnTopOfTheme(t *testing.T) {
	result := testAssembler(t).Generate(context.Background(), sampleData(),
		document.GenerationOptions{
			Template: "modern",
			Branding: &document.Branding{PrimaryColor: "#b91c1c"},
		})
	require.True(t, result.Success, result.Error)
	assert.Contains(t, result.HTML, "#b91c1c")
	assert.NotContains(t, result.HTML, "#7c3aed")
	assert.Contains(t, result.HTML, "'Space Grotesk', sans-serif")
}

func TestFormatTaxRatePct(t *testing.T) {
	cases := map[float64]string{
		0:      "0",
		0.07:   "7",
		0.08:   "8",
		0.085:  "8.5",
		0.0825: "8.25",
		0.29:   "29",
		0.2:    "20",
	}
	for rate, want := range cases {
		assert.Equal(t, want, formatTaxRatePct(rate), "rate %v", rate)
	}
}

func TestGenerateTaxRateRendersCleanPercentage(t *testing.T) {
	data := sampleData()
	data.Proposal.TaxRate = 0.07
	data.Proposal.Tax = 140
	data.Proposal.Total = 2140

	result := testAssembler(t).Generate(context.Background(), data, document.GenerationOptions{})
	require.True(t, result.Success, result.Error)
	assert.Contains(t, result.HTML, "Tax (7%)")
	assert.NotContains(t, result.HTML, "7.000000000000001")
}

func TestGenerateQRCodesRequireFlagAndLink(t *testing.T) {
	a := testAssembler(t)

	// Flags off: no QR images even though links are present.
	off := a.Generate(context.Background(), sampleData(), document.GenerationOptions{})
	require.True(t, off.Success)
	assert.NotContains(t, off.HTML, "data:image/png;base64,")

	// Flags on with links present: both QR images embedded.
	on := a.Generate(context.Background(), sampleData(), document.GenerationOptions{
		IncludePaymentQR:    true,
		IncludeAcceptanceQR: true,
	})
	require.True(t, on.Success)
	assert.Equal(t, 2, strings.Count(on.HTML, "data:image/png;base64,"))

	// Flag on but link absent: flag is ignored.
	data := sampleData()
	data.AcceptanceLink = ""
	partial := a.Generate(context.Background(), data, document.GenerationOptions{
		IncludePaymentQR:    true,
		IncludeAcceptanceQR: true,
	})
	require.True(t, partial.Success)
	assert.Equal(t, 1, strings.Count(partial.HTML, "data:image/png;base64,"))
}

func TestGenerateWatermark(t *testing.T) {
	result := testAssembler(t).Generate(context.Background(), sampleData(),
		document.GenerationOptions{Watermark: "DRAFT"})
	require.True(t, result.Success)
	assert.Contains(t, result.HTML, "DRAFT")
}

func TestGenerateLogoOverride(t *testing.T) {
	data := sampleData()
	data.Company.LogoURL = "https://cdn.test/company.png"
	result := testAssembler(t).Generate(context.Background(), data,
		document.GenerationOptions{LogoURL: "https://cdn.test/override.png"})
	require.True(t, result.Success)
	assert.Contains(t, result.HTML, "https://cdn.test/override.png")
	assert.NotContains(t, result.HTML, "https://cdn.test/company.png")
}

func TestGenerateWithoutContact(t *testing.T) {
	data := sampleData()
	data.Contact = nil
	result := testAssembler(t).Generate(context.Background(), data, document.GenerationOptions{})
	require.True(t, result.Success)
	assert.NotContains(t, result.HTML, "attn.")
}

func TestGenerateRejectsEmptyPayload(t *testing.T) {
	result := testAssembler(t).Generate(context.Background(),
		document.ProposalDocumentData{}, document.GenerationOptions{})
	require.False(t, result.Success)
	assert.Equal(t, commonerrors.ErrCodeValidationFailed, result.Code)
	assert.Empty(t, result.HTML)
}

func TestGenerateCancelledContextFailsQREncoding(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := testAssembler(t).Generate(ctx, sampleData(), document.GenerationOptions{
		IncludePaymentQR: true,
	})
	require.False(t, result.Success)
	assert.Equal(t, commonerrors.ErrCodeQRGenerationFailed, result.Code)
}

// ==========================
// BuildGenerationURL
// ==========================

func TestBuildGenerationURLDefaults(t *testing.T) {
	got := BuildGenerationURL("prop_1", "https://api.example.test/", document.GenerationOptions{})
	assert.Equal(t, "https://api.example.test/api/v1/proposals/prop_1/document", got)
}

func TestBuildGenerationURLEncodesNonDefaultOptions(t *testing.T) {
	got := BuildGenerationURL("prop_1", "https://api.example.test", document.GenerationOptions{
		Template:         "modern",
		IncludePaymentQR: true,
		Format:           "A4",
		Watermark:        "DRAFT COPY",
	})
	assert.Contains(t, got, "template=modern")
	assert.Contains(t, got, "paymentQR=true")
	assert.Contains(t, got, "format=A4")
	assert.Contains(t, got, "watermark=DRAFT+COPY")
	assert.NotContains(t, got, "acceptanceQR")
}
