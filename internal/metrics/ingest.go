// Package metrics holds the Prometheus collectors of the ingest pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Email outcomes.
const (
	OutcomeAccepted         = "accepted"
	OutcomeInboxNotFound    = "inbox_not_found"
	OutcomeSenderUnverified = "sender_not_verified"
	OutcomeError            = "error"
)

// Attachment skip reasons.
const (
	SkipUpload = "upload_failed"
	SkipInsert = "insert_failed"
)

// Ingest counts processed emails and documents. A nil *Ingest is valid and
// records nothing.
type Ingest struct {
	emails     *prometheus.CounterVec
	documents  *prometheus.CounterVec
	skipped    *prometheus.CounterVec
	extraction *prometheus.HistogramVec
}

// NewIngest creates the collectors and registers them with reg.
func NewIngest(reg prometheus.Registerer) (*Ingest, error) {
	m := &Ingest{
		emails: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inbound_emails_total",
				Help: "Inbound emails by outcome.",
			},
			[]string{"outcome"},
		),
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inbound_documents_total",
				Help: "Documents created from inbound emails by resulting status.",
			},
			[]string{"status"},
		),
		skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inbound_attachments_skipped_total",
				Help: "Attachments dropped without a document record.",
			},
			[]string{"reason"},
		),
		extraction: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "extraction_duration_seconds",
				Help:    "Latency of invoice extraction calls.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"result"},
		),
	}

	for _, c := range []prometheus.Collector{m.emails, m.documents, m.skipped, m.extraction} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Ingest) Email(outcome string) {
	if m == nil {
		return
	}
	m.emails.WithLabelValues(outcome).Inc()
}

func (m *Ingest) Document(status string) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(status).Inc()
}

func (m *Ingest) Skipped(reason string) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(reason).Inc()
}

// Extraction observes one extraction call; failed is true when it returned an error.
func (m *Ingest) Extraction(d time.Duration, failed bool) {
	if m == nil {
		return
	}
	result := "ok"
	if failed {
		result = "error"
	}
	m.extraction.WithLabelValues(result).Observe(d.Seconds())
}
