package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDocumentMetrics(t *testing.T) {
	m := NewDocumentMetrics()
	okBefore := testutil.ToFloat64(DocumentsGenerated.WithLabelValues("schedule", StatusOK))
	failedBefore := testutil.ToFloat64(DocumentsGenerated.WithLabelValues("schedule", StatusFailed))

	m.RecordSuccess("schedule", 3, 120*time.Millisecond)
	m.RecordSuccess("schedule", 1, 80*time.Millisecond)
	m.RecordFailure("schedule", 5*time.Millisecond)

	assert.Equal(t, okBefore+2, testutil.ToFloat64(DocumentsGenerated.WithLabelValues("schedule", StatusOK)))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(DocumentsGenerated.WithLabelValues("schedule", StatusFailed)))
	assert.Equal(t, 1, testutil.CollectAndCount(GenerationDuration, "estimator_document_generation_duration_seconds"))
}
