package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matlalipitso/reporting-lwks-sub000/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for transport,
// cache, persistence and the review workflow.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec

	reportsCreated    prometheus.Counter
	reportTransitions *prometheus.CounterVec
	feedbackAppended  *prometheus.CounterVec
	ratingsSubmitted  prometheus.Counter
	ratingsDuplicates prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	reportsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lecture_reports_created_total",
		Help: "Lecture reports submitted",
	})

	reportTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lecture_report_transitions_total",
		Help: "Applied report status transitions",
	}, []string{"from", "to"})

	feedbackAppended := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_feedback_appended_total",
		Help: "Feedback entries appended, labelled by whether the report was reconciled to reviewed",
	}, []string{"reconciled"})

	ratingsSubmitted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lecturer_ratings_submitted_total",
		Help: "Ratings accepted",
	})

	ratingsDuplicates := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lecturer_ratings_duplicate_total",
		Help: "Ratings rejected as duplicates",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHits, cacheMisses, dbQueryDuration,
		reportsCreated, reportTransitions, feedbackAppended, ratingsSubmitted, ratingsDuplicates, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		cacheLatency:      cacheLatency,
		cacheWrite:        cacheWrite,
		cacheHits:         cacheHits,
		cacheMisses:       cacheMisses,
		dbQueryDuration:   dbQueryDuration,
		reportsCreated:    reportsCreated,
		reportTransitions: reportTransitions,
		feedbackAppended:  feedbackAppended,
		ratingsSubmitted:  ratingsSubmitted,
		ratingsDuplicates: ratingsDuplicates,
	}
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// ReportCreated counts a newly submitted lecture report.
func (m *MetricsService) ReportCreated() {
	if m == nil {
		return
	}
	m.reportsCreated.Inc()
}

// ReportTransitioned counts a report status change by edge.
func (m *MetricsService) ReportTransitioned(from, to models.ReportStatus) {
	if m == nil {
		return
	}
	m.reportTransitions.WithLabelValues(string(from), string(to)).Inc()
}

// FeedbackAppended counts a feedback entry, labelled by whether it moved a
// pending report to reviewed.
func (m *MetricsService) FeedbackAppended(reconciled bool) {
	if m == nil {
		return
	}
	m.feedbackAppended.WithLabelValues(fmt.Sprintf("%t", reconciled)).Inc()
}

// RatingSubmitted counts an accepted rating, or a rejected repeat when
// duplicate is set.
func (m *MetricsService) RatingSubmitted(duplicate bool) {
	if m == nil {
		return
	}
	if duplicate {
		m.ratingsDuplicates.Inc()
		return
	}
	m.ratingsSubmitted.Inc()
}
