// Package render converts generated HTML into a PDF via an external headless
// rendering service.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	commonerrors "proposal-service/internal/common/errors"
	"proposal-service/internal/common/http"
	"proposal-service/internal/common/logger"
	"proposal-service/internal/common/metrics"
)

// Renderer is a client for the HTML-to-PDF rendering service. The service is
// a shared resource: a fixed number of rendering surfaces is available, so a
// semaphore bounds concurrent requests and every exit path releases its slot.
type Renderer struct {
	url     string
	timeout time.Duration
	client  *http.Client
	slots   chan struct{}
	logger  logger.Logger
}

// Config carries renderer construction settings.
type Config struct {
	URL           string
	Timeout       time.Duration
	MaxConcurrent int
	Logger        logger.Logger
}

const (
	defaultTimeout       = 30 * time.Second
	defaultMaxConcurrent = 4
)

func New(cfg Config) *Renderer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Renderer{
		url:     cfg.URL,
		timeout: timeout,
		client:  http.NewClient(timeout),
		slots:   make(chan struct{}, maxConcurrent),
		logger:  log,
	}
}

type renderRequest struct {
	HTML      string `json:"html"`
	Format    string `json:"format,omitempty"`
	Landscape bool   `json:"landscape,omitempty"`
}

// RenderPDF sends HTML to the rendering service and returns the PDF bytes.
// The call is bounded by the configured timeout; on timeout it fails with a
// render-timeout error rather than hanging. No retries happen here; callers
// decide whether a failed render is worth retrying with different options.
func (r *Renderer) RenderPDF(ctx context.Context, html, format string) ([]byte, error) {
	select {
	case r.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, commonerrors.NewRenderTimeoutError(r.timeout)
	}
	defer func() { <-r.slots }()

	start := time.Now()
	pdf, err := r.render(ctx, html, format)
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.PDFConversionDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	return pdf, err
}

func (r *Renderer) render(ctx context.Context, html, format string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, err := json.Marshal(renderRequest{HTML: html, Format: format})
	if err != nil {
		return nil, commonerrors.NewRenderFailedError(err)
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, r.url+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, commonerrors.NewRenderFailedError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := r.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			r.logger.Error("PDF render timed out", map[string]interface{}{
				"timeout": r.timeout.String(),
			})
			return nil, commonerrors.NewRenderTimeoutError(r.timeout)
		}
		r.logger.Error("PDF rendering service unreachable", map[string]interface{}{
			"url":   r.url,
			"error": err.Error(),
		})
		return nil, commonerrors.NewRendererUnavailableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, commonerrors.NewRenderFailedError(
			fmt.Errorf("rendering service returned %d: %s", resp.StatusCode, bytes.TrimSpace(payload)))
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, commonerrors.NewRenderFailedError(err)
	}
	if len(pdf) == 0 {
		return nil, commonerrors.NewRenderFailedError(errors.New("rendering service returned an empty document"))
	}
	return pdf, nil
}
