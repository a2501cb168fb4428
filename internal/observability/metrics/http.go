package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	analyzeTotal         *prometheus.CounterVec
	recordFields         *prometheus.HistogramVec
	savedRecordsTotal    *prometheus.CounterVec
	recoveredTablesTotal *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dcl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dcl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "dcl",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	analyzeTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dcl",
			Subsystem: "extraction",
			Name:      "analyze_total",
			Help:      "Total analyze operations by status.",
		},
		[]string{"service", "status"},
	)
	recordFields := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dcl",
			Subsystem: "extraction",
			Name:      "record_fields",
			Help:      "Distribution of resolved fields per analyzed record.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
		},
		[]string{"service"},
	)
	savedRecordsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dcl",
			Subsystem: "extraction",
			Name:      "saved_records_total",
			Help:      "Total records appended to period tables.",
		},
		[]string{"service"},
	)
	recoveredTablesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dcl",
			Subsystem: "extraction",
			Name:      "recovered_tables_total",
			Help:      "Total appends that discarded an unreadable table and started fresh.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		analyzeTotal,
		recordFields,
		savedRecordsTotal,
		recoveredTablesTotal,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		analyzeTotal:         analyzeTotal,
		recordFields:         recordFields,
		savedRecordsTotal:    savedRecordsTotal,
		recoveredTablesTotal: recoveredTablesTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/captures/"):
		return "/v1/captures/{capture_id}"
	case strings.HasPrefix(path, "/v1/exports/"):
		return "/v1/exports/{period}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordAnalyze(service string, fieldCount int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.analyzeTotal.WithLabelValues(service, status).Inc()
	if err == nil {
		m.recordFields.WithLabelValues(service).Observe(float64(fieldCount))
	}
}

func (m *HTTPServerMetrics) RecordSave(service string, recovered bool) {
	m.savedRecordsTotal.WithLabelValues(service).Inc()
	if recovered {
		m.recoveredTablesTotal.WithLabelValues(service).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
