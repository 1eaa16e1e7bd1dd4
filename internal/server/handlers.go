package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"proposal-service/internal/audit"
	commonerrors "proposal-service/internal/common/errors"
	"proposal-service/internal/common/validation"
	"proposal-service/internal/notify"
	"proposal-service/internal/proposal/document"
)

// generatePayload is the request body for the payload-based endpoints.
type generatePayload struct {
	Proposal       document.Proposal           `json:"proposal"`
	Company        document.Company            `json:"company"`
	Contact        *document.Contact           `json:"contact,omitempty"`
	PaymentLink    string                      `json:"paymentLink,omitempty"`
	AcceptanceLink string                      `json:"acceptanceLink,omitempty"`
	Options        *document.GenerationOptions `json:"options,omitempty"`
}

func (p *generatePayload) data() document.ProposalDocumentData {
	return document.ProposalDocumentData{
		Proposal:       p.Proposal,
		Company:        p.Company,
		Contact:        p.Contact,
		PaymentLink:    p.PaymentLink,
		AcceptanceLink: p.AcceptanceLink,
	}
}

func (p *generatePayload) options() document.GenerationOptions {
	if p.Options == nil {
		return document.GenerationOptions{}
	}
	return *p.Options
}

// optionsFromQuery reads generation options off a preview/download URL. The
// parameter names mirror what BuildGenerationURL emits.
func optionsFromQuery(c *gin.Context) document.GenerationOptions {
	return document.GenerationOptions{
		Template:            c.Query("template"),
		IncludePaymentQR:    c.Query("paymentQR") == "true",
		IncludeAcceptanceQR: c.Query("acceptanceQR") == "true",
		LogoURL:             c.Query("logoUrl"),
		Format:              c.Query("format"),
		Watermark:           c.Query("watermark"),
	}
}

// handlePreviewDocument serves the generated HTML inline for browser preview.
func (s *Server) handlePreviewDocument(c *gin.Context) {
	html, filename, ok := s.generateForProposal(c)
	if !ok {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// handleDownloadPDF converts the generated HTML through the external
// renderer and serves the PDF as an attachment.
func (s *Server) handleDownloadPDF(c *gin.Context) {
	if s.renderer == nil {
		s.abortWithError(c, commonerrors.NewRendererUnavailableError(
			fmt.Errorf("PDF rendering is not configured")))
		return
	}

	opts := optionsFromQuery(c)
	html, filename, ok := s.generateForProposal(c)
	if !ok {
		return
	}

	pdf, err := s.renderer.RenderPDF(c.Request.Context(), html, opts.Format)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	pdfName := strings.TrimSuffix(filename, ".html") + ".pdf"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdfName))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// generateForProposal loads a proposal by path id and runs generation,
// consulting the render cache on both sides. Returns ok=false after it has
// already written an error response.
func (s *Server) generateForProposal(c *gin.Context) (html, filename string, ok bool) {
	proposalID := c.Param("id")
	opts := optionsFromQuery(c)

	if s.cache != nil {
		if html, filename, hit := s.cache.Get(c.Request.Context(), proposalID, opts); hit {
			return html, filename, true
		}
	}

	data, err := s.store.GetProposalDocumentData(c.Request.Context(), proposalID)
	if err != nil {
		s.abortWithError(c, err)
		return "", "", false
	}

	if result := s.assembler.Validate(*data); !result.Valid {
		s.abortWithError(c, commonerrors.NewValidationFailedError(
			strings.Join(result.Errors, "; ")))
		return "", "", false
	}

	result := s.assembler.Generate(c.Request.Context(), *data, opts)
	if !result.Success {
		s.trail.Record(audit.Event{
			Type:       audit.EventFailed,
			ProposalID: proposalID,
			ErrorCode:  string(result.Code),
			RequestID:  c.GetString("request_id"),
		})
		s.abortWithError(c, &commonerrors.StandardError{
			Code:    result.Code,
			Message: result.Error,
		})
		return "", "", false
	}

	if s.cache != nil {
		s.cache.Put(c.Request.Context(), proposalID, opts, result.HTML, result.Filename)
	}
	s.trail.Record(audit.Event{
		Type:       audit.EventGenerated,
		ProposalID: proposalID,
		Theme:      opts.Template,
		Filename:   result.Filename,
		RequestID:  c.GetString("request_id"),
	})

	return result.HTML, result.Filename, true
}

// handleGenerate generates a document from a payload supplied in the request
// body, for callers that hold proposal data themselves.
func (s *Server) handleGenerate(c *gin.Context) {
	payload, ok := s.decodePayload(c)
	if !ok {
		return
	}

	data := payload.data()
	if result := s.assembler.Validate(data); !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"errors":  result.Errors,
		})
		return
	}

	result := s.assembler.Generate(c.Request.Context(), data, payload.options())
	if !result.Success {
		s.abortWithError(c, &commonerrors.StandardError{
			Code:    result.Code,
			Message: result.Error,
		})
		return
	}

	s.trail.Record(audit.Event{
		Type:       audit.EventGenerated,
		ProposalID: data.Proposal.ID,
		Theme:      payload.options().Template,
		Filename:   result.Filename,
		RequestID:  c.GetString("request_id"),
	})

	c.JSON(http.StatusOK, result)
}

// handleValidate reports every payload violation without generating.
func (s *Server) handleValidate(c *gin.Context) {
	payload, ok := s.decodePayload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.assembler.Validate(payload.data()))
}

type sendRequest struct {
	To string `json:"to"`
}

// handleSendProposal emails the client a preview link for a stored proposal.
func (s *Server) handleSendProposal(c *gin.Context) {
	if s.notifier == nil {
		s.abortWithError(c, commonerrors.NewEmailSendFailedError(
			fmt.Errorf("email delivery is not configured")))
		return
	}

	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, commonerrors.NewPayloadInvalidError(err.Error()))
		return
	}

	proposalID := c.Param("id")
	data, err := s.store.GetProposalDocumentData(c.Request.Context(), proposalID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	to := req.To
	if to == "" && data.Contact != nil {
		to = data.Contact.Email
	}

	err = s.notifier.SendProposal(c.Request.Context(), notify.ProposalEmail{
		To:            to,
		CompanyName:   data.Company.Name,
		ProposalTitle: data.Proposal.Title,
		PreviewURL:    s.previewURL(proposalID),
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.trail.Record(audit.Event{
		Type:       audit.EventSent,
		ProposalID: proposalID,
		RequestID:  c.GetString("request_id"),
	})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// decodePayload reads and schema-validates the request body. Returns ok=false
// after it has already written an error response.
func (s *Server) decodePayload(c *gin.Context) (*generatePayload, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadBytes))
	if err != nil {
		s.abortWithError(c, commonerrors.NewPayloadInvalidError(err.Error()))
		return nil, false
	}

	schemaResult, err := validation.ValidateJSON(body, generatePayloadSchema)
	if err != nil {
		s.abortWithError(c, commonerrors.NewPayloadInvalidError(err.Error()))
		return nil, false
	}
	if !schemaResult.Valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  schemaResult.Errors,
		})
		c.Abort()
		return nil, false
	}

	var payload generatePayload
	if err := unmarshalStrict(body, &payload); err != nil {
		s.abortWithError(c, commonerrors.NewPayloadInvalidError(err.Error()))
		return nil, false
	}
	return &payload, true
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	httpErr := s.errorHandler.Normalize(err)
	c.AbortWithStatusJSON(httpErr.Status, gin.H{"error": httpErr})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleReady verifies the dependencies a generation request actually needs.
func (s *Server) handleReady(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	if s.readiness != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		for name, check := range s.readiness {
			if err := check(ctx); err != nil {
				checks[name] = err.Error()
				healthy = false
			} else {
				checks[name] = "ok"
			}
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"ready": healthy, "checks": checks})
}
