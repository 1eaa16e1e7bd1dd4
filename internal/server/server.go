// Package server exposes the document generation pipeline over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"proposal-service/internal/audit"
	commonerrors "proposal-service/internal/common/errors"
	"proposal-service/internal/common/logger"
	"proposal-service/internal/notify"
	"proposal-service/internal/proposal/assemble"
	"proposal-service/internal/proposal/document"
)

const (
	maxPayloadBytes  = 1 << 20 // 1 MiB
	readinessTimeout = 5 * time.Second
	shutdownTimeout  = 10 * time.Second
)

// ProposalLoader fetches the generation payload for a stored proposal.
type ProposalLoader interface {
	GetProposalDocumentData(ctx context.Context, proposalID string) (*document.ProposalDocumentData, error)
}

// DocumentCache caches generated documents between preview requests.
type DocumentCache interface {
	Get(ctx context.Context, proposalID string, opts document.GenerationOptions) (html, filename string, ok bool)
	Put(ctx context.Context, proposalID string, opts document.GenerationOptions, html, filename string)
}

// PDFRenderer converts HTML to PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html, format string) ([]byte, error)
}

// ReadinessCheck probes one dependency for the readiness endpoint.
type ReadinessCheck func(ctx context.Context) error

// Dependencies wires the server. Store and Assembler are required; the rest
// degrade gracefully when nil.
type Dependencies struct {
	Assembler *assemble.Assembler
	Store     ProposalLoader
	Cache     DocumentCache
	Renderer  PDFRenderer
	Notifier  *notify.Notifier
	Trail     *audit.Trail
	Logger    logger.Logger
	BaseURL   string
	Readiness map[string]ReadinessCheck
}

// Server is the HTTP front of the proposal document service.
type Server struct {
	engine       *gin.Engine
	httpServer   *http.Server
	assembler    *assemble.Assembler
	store        ProposalLoader
	cache        DocumentCache
	renderer     PDFRenderer
	notifier     *notify.Notifier
	trail        *audit.Trail
	errorHandler *commonerrors.ErrorHandler
	logger       logger.Logger
	baseURL      string
	readiness    map[string]ReadinessCheck
}

func New(deps Dependencies) (*Server, error) {
	if deps.Assembler == nil {
		return nil, fmt.Errorf("server requires an assembler")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("server requires a proposal store")
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	trail := deps.Trail
	if trail == nil {
		trail = audit.NewTrail(nil, log)
	}

	s := &Server{
		assembler:    deps.Assembler,
		store:        deps.Store,
		cache:        deps.Cache,
		renderer:     deps.Renderer,
		notifier:     deps.Notifier,
		trail:        trail,
		errorHandler: commonerrors.NewErrorHandler(log),
		logger:       log,
		baseURL:      deps.BaseURL,
		readiness:    deps.Readiness,
	}
	s.engine = s.buildRouter()
	return s, nil
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), requestLogger(s.logger))

	engine.GET("/health", s.handleHealth)
	engine.GET("/ready", s.handleReady)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/api/v1")
	{
		v1.GET("/proposals/:id/document", s.handlePreviewDocument)
		v1.GET("/proposals/:id/document.pdf", s.handleDownloadPDF)
		v1.POST("/proposals/:id/send", s.handleSendProposal)
		v1.POST("/documents/generate", s.handleGenerate)
		v1.POST("/documents/validate", s.handleValidate)
	}

	return engine
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", map[string]interface{}{"addr": addr})
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) previewURL(proposalID string) string {
	return assemble.BuildGenerationURL(proposalID, s.baseURL, document.GenerationOptions{})
}

// unmarshalStrict rejects fields the payload contract does not define, so
// typos like "porposal" fail loudly instead of silently producing an empty
// document.
func unmarshalStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
