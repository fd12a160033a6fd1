package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"pixhost/internal/domain"
)

func TestRecordUploadByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewPrometheusObserver(reg)

	obs.RecordUpload(120*time.Millisecond, 1000, 300, nil)
	obs.RecordUpload(5*time.Millisecond, 0, 0, domain.ValidationError("too big"))
	obs.RecordUpload(80*time.Millisecond, 0, 0, domain.UpstreamError("store", errors.New("dial")))

	require.Equal(t, float64(1), testutil.ToFloat64(obs.uploads.WithLabelValues("ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(obs.uploads.WithLabelValues("validation")))
	require.Equal(t, float64(1), testutil.ToFloat64(obs.uploads.WithLabelValues("upstream")))
	require.Equal(t, float64(1000), testutil.ToFloat64(obs.originalBytes))
	require.Equal(t, float64(300), testutil.ToFloat64(obs.processedBytes))
}

func TestRecordUploadSkipsBytesOnFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewPrometheusObserver(reg)

	obs.RecordUpload(time.Millisecond, 4096, 0, domain.ProcessingError("corrupt", errors.New("decode")))

	require.Equal(t, float64(0), testutil.ToFloat64(obs.originalBytes))
}

func TestRecordDelete(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewPrometheusObserver(reg)

	obs.RecordDelete(nil)
	obs.RecordDelete(domain.UpstreamError("store", errors.New("dial")))

	require.Equal(t, float64(1), testutil.ToFloat64(obs.deletes.WithLabelValues("ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(obs.deletes.WithLabelValues("upstream")))
}
