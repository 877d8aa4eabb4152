// Package metrics provides Prometheus metrics for document generation
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

var (
	DocumentsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "estimator",
			Name:      "documents_generated_total",
			Help:      "Total number of document generation attempts",
		},
		[]string{"kind", "status"},
	)

	DocumentPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "estimator",
			Name:      "document_pages",
			Help:      "Number of pages per generated document",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 55},
		},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "estimator",
			Name:      "document_generation_duration_seconds",
			Help:      "Time taken to lay out, write and store a document",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)

// DocumentMetrics records generation outcomes.
type DocumentMetrics struct{}

func NewDocumentMetrics() *DocumentMetrics {
	return &DocumentMetrics{}
}

func (m *DocumentMetrics) RecordSuccess(kind string, pages int, duration time.Duration) {
	DocumentsGenerated.WithLabelValues(kind, StatusOK).Inc()
	DocumentPages.Observe(float64(pages))
	GenerationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *DocumentMetrics) RecordFailure(kind string, duration time.Duration) {
	DocumentsGenerated.WithLabelValues(kind, StatusFailed).Inc()
	GenerationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}
