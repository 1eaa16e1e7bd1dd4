package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "proposal-service/internal/common/errors"
	"proposal-service/internal/common/logger"
	"proposal-service/internal/proposal/assemble"
	"proposal-service/internal/proposal/document"
)

type stubStore struct {
	data map[string]*document.ProposalDocumentData
	err  error
}

func (s *stubStore) GetProposalDocumentData(ctx context.Context, proposalID string) (*document.ProposalDocumentData, error) {
	if s.err != nil {
		return nil, s.err
	}
	if data, ok := s.data[proposalID]; ok {
		copied := *data
		return &copied, nil
	}
	return nil, commonerrors.NewProposalNotFoundError(proposalID)
}

type stubRenderer struct {
	pdf []byte
	err error
}

func (r *stubRenderer) RenderPDF(ctx context.Context, html, format string) ([]byte, error) {
	return r.pdf, r.err
}

func storedProposal() *document.ProposalDocumentData {
	return &document.ProposalDocumentData{
		Proposal: document.Proposal{
			ID:    "prop_9f2c1ab4789000ab",
			Title: "Website Redesign Proposal",
			LineItems: []document.LineItem{
				{ID: "li_1", Name: "Website Design", Quantity: 1, UnitPrice: 2000, Total: 2000},
			},
			Subtotal:  2000,
			Tax:       160,
			TaxRate:   0.08,
			Total:     2160,
			Currency:  "USD",
			CreatedAt: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC),
		},
		Company: document.Company{Name: "Acme Inc"},
	}
}

func newTestServer(t *testing.T, mutate func(*Dependencies)) *Server {
	t.Helper()
	log := logger.NewTestLogger(t)
	deps := Dependencies{
		Assembler: assemble.New(assemble.Config{Logger: log}),
		Store: &stubStore{data: map[string]*document.ProposalDocumentData{
			"prop_9f2c1ab4789000ab": storedProposal(),
		}},
		Logger:  log,
		BaseURL: "https://api.example.test",
	}
	if mutate != nil {
		mutate(&deps)
	}
	srv, err := New(deps)
	require.NoError(t, err)
	return srv
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

// ==========================
// Preview
// ==========================

func TestPreviewDocument(t *testing.T) {
	s := newTestServer(t, nil)
	w := doRequest(s, http.MethodGet, "/api/v1/proposals/prop_9f2c1ab4789000ab/document", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="proposal-Acme-Inc-789000AB.html"`,
		w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "Website Redesign Proposal")
	assert.Contains(t, w.Body.String(), "$2,160.00")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPreviewDocumentThemedViaQuery(t *testing.T) {
	s := newTestServer(t, nil)
	w := doRequest(s, http.MethodGet,
		"/api/v1/proposals/prop_9f2c1ab4789000ab/document?template=modern", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "#7c3aed")
}

func TestPreviewDocumentNotFound(t *testing.T) {
	s := newTestServer(t, nil)
	w := doRequest(s, http.MethodGet, "/api/v1/proposals/nope/document", "")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PROPOSAL_NOT_FOUND")
}

func TestPreviewDocumentInvalidStoredData(t *testing.T) {
	broken := storedProposal()
	broken.Company.Name = ""
	s := newTestServer(t, func(deps *Dependencies) {
		deps.Store = &stubStore{data: map[string]*document.ProposalDocumentData{
			"prop_9f2c1ab4789000ab": broken,
		}}
	})

	w := doRequest(s, http.MethodGet, "/api/v1/proposals/prop_9f2c1ab4789000ab/document", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "company name is required")
}

// ==========================
// PDF Download
// ==========================

func TestDownloadPDF(t *testing.T) {
	s := newTestServer(t, func(deps *Dependencies) {
		deps.Renderer = &stubRenderer{pdf: []byte("%PDF-1.7 fake")}
	})

	w := doRequest(s, http.MethodGet, "/api/v1/proposals/prop_9f2c1ab4789000ab/document.pdf", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="proposal-Acme-Inc-789000AB.pdf"`,
		w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.7 fake", w.Body.String())
}

func TestDownloadPDFWithoutRenderer(t *testing.T) {
	s := newTestServer(t, nil)
	w := doRequest(s, http.MethodGet, "/api/v1/proposals/prop_9f2c1ab4789000ab/document.pdf", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDownloadPDFRendererTimeout(t *testing.T) {
	s := newTestServer(t, func(deps *Dependencies) {
		deps.Renderer = &stubRenderer{err: commonerrors.NewRenderTimeoutError(30 * time.Second)}
	})

	w := doRequest(s, http.MethodGet, "/api/v1/proposals/prop_9f2c1ab4789000ab/document.pdf", "")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "RENDER_TIMEOUT")
}

// ==========================
// Payload Generation
// ==========================

func payloadJSON(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"proposal": map[string]interface{}{
			"id":    "prop_9f2c1ab4789000ab",
			"title": "Website Redesign Proposal",
			"line_items": []map[string]interface{}{
				{"id": "li_1", "name": "Website Design", "quantity": 1, "unit_price": 2000, "total": 2000},
			},
			"subtotal":   2000,
			"tax":        160,
			"tax_rate":   0.08,
			"total":      2160,
			"currency":   "USD",
			"created_at": "2026-03-10T12:00:00Z",
		},
		"company": map[string]interface{}{"name": "Acme Inc"},
		"options": map[string]interface{}{"template": "minimal"},
	})
	require.NoError(t, err)
	return string(raw)
}

func TestGenerateFromPayload(t *testing.T) {
	s := newTestServer(t, nil)
	w := doRequest(s, http.MethodPost, "/api/v1/documents/generate", payloadJSON(t))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Success  bool   `json:"success"`
		HTML     string `json:"html"`
		Filename string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Contains(t, result.HTML, "#111827")
	assert.Equal(t, "proposal-Acme-Inc-789000AB.html", result.Filename)
}

func TestGenerateFromPayloadWithBranding(t *testing.T) {
	s := newTestServer(t, nil)
	body := strings.Replace(payloadJSON(t),
		`"options":{"template":"minimal"}`,
		`"options":{"template":"minimal","branding":{"primaryColor":"#b91c1c"}}`, 1)
	require.NotEqual(t, payloadJSON(t), body)

	w := doRequest(s, http.MethodPost, "/api/v1/documents/generate", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result struct {
		Success bool   `json:"success"`
		HTML    string `json:"html"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Contains(t, result.HTML, "#b91c1c")
	assert.NotContains(t, result.HTML, "#111827")
}

func TestGenerateRejectsMalformedPayload(t *testing.T) {
	s := newTestServer(t, nil)
	w := doRequest(s, http.MethodPost, "/api/v1/documents/generate",
		`{"company": {"name": "Acme Inc"}}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "proposal")
}

func TestGenerateRejectsEmptyLineItems(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{
		"proposal": {"id": "p1", "title": "T", "line_items": [], "total": 0},
		"company": {"name": "Acme Inc"}
	}`
	w := doRequest(s, http.MethodPost, "/api/v1/documents/generate", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateEndpointReportsAllErrors(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{
		"proposal": {"id": "p1", "title": "  ", "line_items": [{"name": "x", "quantity": 1, "unit_price": 1, "total": 1}], "total": 1},
		"company": {"name": "Acme Inc"}
	}`
	w := doRequest(s, http.MethodPost, "/api/v1/documents/validate", body)

	require.Equal(t, http.StatusOK, w.Code)
	var result document.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "proposal title is required")
}

// ==========================
// Operational Endpoints
// ==========================

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	w := doRequest(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	// Exercise the pipeline once so the generation counters have samples.
	require.Equal(t, http.StatusOK,
		doRequest(s, http.MethodGet, "/api/v1/proposals/prop_9f2c1ab4789000ab/document", "").Code)

	w = doRequest(s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "proposal_generations_completed_total")
}

func TestReadyAggregatesChecks(t *testing.T) {
	s := newTestServer(t, func(deps *Dependencies) {
		deps.Readiness = map[string]ReadinessCheck{
			"postgres": func(ctx context.Context) error { return nil },
			"renderer": func(ctx context.Context) error { return fmt.Errorf("connection refused") },
		}
	})

	w := doRequest(s, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"postgres":"ok"`)
	assert.Contains(t, w.Body.String(), "connection refused")
}
