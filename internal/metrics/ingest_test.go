package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewIngest(reg)
	require.NoError(t, err)

	m.Email(OutcomeAccepted)
	m.Email(OutcomeAccepted)
	m.Document("needs_review")
	m.Skipped(SkipUpload)
	m.Extraction(1500*time.Millisecond, false)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.emails.WithLabelValues(OutcomeAccepted)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.documents.WithLabelValues("needs_review")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.skipped.WithLabelValues(SkipUpload)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.extraction))

	_, err = NewIngest(reg)
	assert.Error(t, err, "second registration must fail")
}

func TestIngest_NilIsNoop(t *testing.T) {
	var m *Ingest
	assert.NotPanics(t, func() {
		m.Email(OutcomeError)
		m.Document("processed")
		m.Skipped(SkipInsert)
		m.Extraction(time.Second, true)
	})
}
