package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "upload_bridge"

// Upload results.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// Metrics holds the bridge collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	uploads         *prometheus.CounterVec
	uploadedBytes   prometheus.Counter
	uploadDuration  prometheus.Histogram
	notifications   *prometheus.CounterVec
	uploadsInFlight prometheus.Gauge
	httpRequests    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploads handled by the bridge, by result.",
		}, []string{"result"}),
		uploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes written to blob storage.",
		}),
		uploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "blob_upload_duration_seconds",
			Help:      "Time spent streaming a staged file to blob storage.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_notifications_total",
			Help:      "Backend notifications, by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		uploadsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uploads_in_flight",
			Help:      "Uploads currently holding a concurrency slot.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status code.",
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.uploads,
		m.uploadedBytes,
		m.uploadDuration,
		m.notifications,
		m.uploadsInFlight,
		m.httpRequests,
	)
	return m
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveUpload records a finished blob transfer.
func (m *Metrics) ObserveUpload(result string, bytes int64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
	if result == ResultSuccess {
		m.uploadedBytes.Add(float64(bytes))
		m.uploadDuration.Observe(elapsed.Seconds())
	}
}

func (m *Metrics) ObserveRejected() {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(ResultRejected).Inc()
}

func (m *Metrics) ObserveNotification(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Metrics) UploadStarted() {
	if m == nil {
		return
	}
	m.uploadsInFlight.Inc()
}

func (m *Metrics) UploadFinished() {
	if m == nil {
		return
	}
	m.uploadsInFlight.Dec()
}

func (m *Metrics) ObserveRequest(route string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
