// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proposal_generations_completed_total",
			Help: "Total number of proposal documents generated",
		},
		[]string{"theme"},
	)

	GenerationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proposal_generations_failed_total",
			Help: "Total number of failed proposal generations",
		},
		[]string{"theme", "error_code"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "proposal_generation_duration_seconds",
			Help: "Duration of proposal document generation in seconds",
		},
		[]string{"theme"},
	)

	GenerationsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "proposal_generations_active",
			Help: "Number of in-flight proposal generations",
		},
		[]string{"theme"},
	)

	QRCodesEncoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proposal_qr_codes_encoded_total",
			Help: "Total number of QR codes encoded into documents",
		},
		[]string{"kind"},
	)

	PDFConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "proposal_pdf_conversion_duration_seconds",
			Help: "Duration of external PDF conversion in seconds",
		},
		[]string{"status"},
	)

	DocumentCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proposal_document_cache_requests_total",
			Help: "Rendered-document cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)
