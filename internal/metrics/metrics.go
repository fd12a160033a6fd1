// Package metrics exports upload pipeline telemetry to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"pixhost/internal/domain"
)

// Observer captures telemetry for pipeline operations.
type Observer interface {
	RecordUpload(duration time.Duration, originalBytes, processedBytes int64, err error)
	RecordDelete(err error)
}

// Nop discards all observations. Used in tests.
type Nop struct{}

func (Nop) RecordUpload(time.Duration, int64, int64, error) {}
func (Nop) RecordDelete(error)                              {}

// PrometheusObserver counts uploads by outcome and tracks payload
// sizes before and after transcoding.
type PrometheusObserver struct {
	uploads        *prometheus.CounterVec
	deletes        *prometheus.CounterVec
	uploadDuration prometheus.Histogram
	originalBytes  prometheus.Counter
	processedBytes prometheus.Counter
}

func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusObserver{
		uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pixhost",
			Name:      "uploads_total",
			Help:      "Upload attempts by outcome.",
		}, []string{"result"}),
		deletes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pixhost",
			Name:      "deletes_total",
			Help:      "Delete attempts by outcome.",
		}, []string{"result"}),
		uploadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pixhost",
			Name:      "upload_duration_seconds",
			Help:      "End-to-end latency of the ingestion pipeline.",
			Buckets:   prometheus.DefBuckets,
		}),
		originalBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pixhost",
			Name:      "original_bytes_total",
			Help:      "Cumulative size of accepted uploads before transcoding.",
		}),
		processedBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pixhost",
			Name:      "processed_bytes_total",
			Help:      "Cumulative size of transcoded assets written to storage.",
		}),
	}
}

func (o *PrometheusObserver) RecordUpload(duration time.Duration, originalBytes, processedBytes int64, err error) {
	o.uploadDuration.Observe(duration.Seconds())
	if err != nil {
		o.uploads.WithLabelValues(string(domain.KindOf(err))).Inc()
		return
	}
	o.uploads.WithLabelValues("ok").Inc()
	o.originalBytes.Add(float64(originalBytes))
	o.processedBytes.Add(float64(processedBytes))
}

func (o *PrometheusObserver) RecordDelete(err error) {
	if err != nil {
		o.deletes.WithLabelValues(string(domain.KindOf(err))).Inc()
		return
	}
	o.deletes.WithLabelValues("ok").Inc()
}
