package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "proposal-service/internal/common/errors"
	"proposal-service/internal/common/logger"
)

func TestRenderPDFSuccess(t *testing.T) {
	var received renderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/render", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer server.Close()

	renderer := New(Config{URL: server.URL, Logger: logger.NewTestLogger(t)})
	pdf, err := renderer.RenderPDF(context.Background(), "<html>doc</html>", "A4")

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 fake"), pdf)
	assert.Equal(t, "<html>doc</html>", received.HTML)
	assert.Equal(t, "A4", received.Format)
}

func TestRenderPDFServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "page crashed", http.StatusInternalServerError)
	}))
	defer server.Close()

	renderer := New(Config{URL: server.URL, Logger: logger.NewTestLogger(t)})
	_, err := renderer.RenderPDF(context.Background(), "<html></html>", "")

	require.Error(t, err)
	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeRenderFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "page crashed")
}

func TestRenderPDFTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("%PDF"))
	}))
	defer server.Close()

	renderer := New(Config{
		URL:     server.URL,
		Timeout: 20 * time.Millisecond,
		Logger:  logger.NewTestLogger(t),
	})
	_, err := renderer.RenderPDF(context.Background(), "<html></html>", "")

	require.Error(t, err)
	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeRenderTimeout, stdErr.Code)
	assert.True(t, commonerrors.IsRetryableErrorCode(stdErr.Code))
}

func TestRenderPDFUnreachableService(t *testing.T) {
	renderer := New(Config{
		URL:     "http://127.0.0.1:1",
		Timeout: time.Second,
		Logger:  logger.NewTestLogger(t),
	})
	_, err := renderer.RenderPDF(context.Background(), "<html></html>", "")

	require.Error(t, err)
	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeRendererUnavailable, stdErr.Code)
}

func TestRenderPDFEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	renderer := New(Config{URL: server.URL, Logger: logger.NewTestLogger(t)})
	_, err := renderer.RenderPDF(context.Background(), "<html></html>", "")

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeRenderFailed, stdErr.Code)
}

func TestRenderPDFReleasesSlotsOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	renderer := New(Config{
		URL:           server.URL,
		MaxConcurrent: 1,
		Logger:        logger.NewTestLogger(t),
	})

	// With one slot, a second call only proceeds if the first released it.
	for i := 0; i < 3; i++ {
		_, err := renderer.RenderPDF(context.Background(), "<html></html>", "")
		require.Error(t, err)
	}
}
