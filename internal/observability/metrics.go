package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec

	feedbackSubmissionsTotal *prometheus.CounterVec
	articleListRequests      *prometheus.CounterVec
	loginAttemptsTotal       *prometheus.CounterVec
	uploadRequestsTotal      *prometheus.CounterVec
	uploadRejectedTotal      *prometheus.CounterVec
	uploadLatencySeconds     prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used across the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bioscizone_http_requests_total",
			Help: "API requests served, by area (public, admin, seed).",
		}, []string{"area", "method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bioscizone_http_latency_seconds",
			Help:    "API request latency by area.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"area", "method"})

		feedbackSubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_submissions_total",
			Help: "Feedback form submissions by outcome.",
		}, []string{"outcome"})

		articleListRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "article_list_requests_total",
			Help: "Public article list requests by cache result.",
		}, []string{"cache"})

		loginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_login_attempts_total",
			Help: "Dashboard login attempts by outcome.",
		}, []string{"outcome"})

		uploadRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upload_requests_total",
			Help: "Stored uploads by detected type.",
		}, []string{"type"})

		uploadRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upload_rejected_total",
			Help: "Rejected uploads by reason.",
		}, []string{"reason"})

		uploadLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "upload_latency_seconds",
			Help:    "Time spent validating and storing uploads.",
			Buckets: prometheus.DefBuckets,
		})

		prometheus.MustRegister(
			httpRequestsTotal, httpLatencySeconds,
			feedbackSubmissionsTotal, articleListRequests, loginAttemptsTotal,
			uploadRequestsTotal, uploadRejectedTotal, uploadLatencySeconds,
		)
	})
}

// HTTPRequests counts served API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the API latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// FeedbackSubmissions counts feedback outcomes (stored, spam, duplicate, notified, notify_failed, error).
func FeedbackSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return feedbackSubmissionsTotal
}

// ArticleListRequests counts article list cache hits and misses.
func ArticleListRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return articleListRequests
}

// LoginAttempts counts dashboard logins.
func LoginAttempts() *prometheus.CounterVec {
	RegisterMetrics()
	return loginAttemptsTotal
}

// UploadRequests counts stored uploads.
func UploadRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRequestsTotal
}

// UploadRejected counts rejected uploads.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectedTotal
}

// UploadLatency exposes the upload processing histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatencySeconds
}
