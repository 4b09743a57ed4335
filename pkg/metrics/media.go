package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UploadMetrics records the outcome of media uploads.
type UploadMetrics struct {
	duration *prometheus.HistogramVec
	bytes    *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewUploadMetrics registers the upload metrics on the provided registerer.
func NewUploadMetrics(reg prometheus.Registerer) *UploadMetrics {
	if reg == nil {
		return &UploadMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "media_upload_duration_seconds",
		Help:    "Duration of media uploads including storage and persistence.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
	bytes := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "media_upload_bytes",
		Help:    "Size of accepted media uploads in bytes.",
		Buckets: prometheus.ExponentialBuckets(16<<10, 4, 8),
	}, []string{"type"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "media_upload_total",
		Help: "Media uploads by type and outcome code.",
	}, []string{"type", "outcome"})
	reg.MustRegister(duration, bytes, outcomes)
	return &UploadMetrics{
		duration: duration,
		bytes:    bytes,
		outcomes: outcomes,
	}
}

// ObserveSuccess records a completed upload.
func (m *UploadMetrics) ObserveSuccess(mediaType string, size int64, took time.Duration) {
	if m == nil || m.outcomes == nil {
		return
	}
	label := normalizeLabel(mediaType)
	m.duration.WithLabelValues(label).Observe(took.Seconds())
	m.bytes.WithLabelValues(label).Observe(float64(size))
	m.outcomes.WithLabelValues(label, "ok").Inc()
}

// ObserveFailure records a rejected or failed upload under its error code.
func (m *UploadMetrics) ObserveFailure(mediaType, code string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(mediaType), normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
