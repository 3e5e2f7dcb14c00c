package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveUpload(t *testing.T) {
	m := New()

	m.ObserveUpload(ResultSuccess, 1024, time.Second)
	m.ObserveUpload(ResultFailed, 1024, time.Second)
	m.ObserveRejected()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues(ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues(ResultRejected)))
	assert.Equal(t, 1024.0, testutil.ToFloat64(m.uploadedBytes))
}

func TestInFlight(t *testing.T) {
	m := New()

	m.UploadStarted()
	m.UploadStarted()
	m.UploadFinished()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploadsInFlight))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveUpload(ResultSuccess, 1, time.Second)
		m.ObserveNotification("register", "delivered")
		m.ObserveRequest("/upload", 200)
		m.UploadStarted()
		m.UploadFinished()
		m.ObserveRejected()
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveNotification("register", "ignored")
	m.ObserveRequest("/health", 200)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body := w.Body.String()
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, body, `upload_bridge_backend_notifications_total{endpoint="register",outcome="ignored"} 1`)
	assert.Contains(t, body, `upload_bridge_http_requests_total{code="200",route="/health"} 1`)
}
