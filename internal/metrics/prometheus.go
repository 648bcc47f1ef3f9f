package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Latency buckets in milliseconds.
var latencyBuckets = []float64{
	5, 10, 25,
	50, 100, 250,
	500, 1000, 2500,
	5000, 10000,
}

// PrometheusRecorder exports metrics through a dedicated registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	uploads      *prometheus.CounterVec
	questions    prometheus.Counter
	answers      *prometheus.CounterVec
	messages     prometheus.Counter
	published    *prometheus.CounterVec
	processed    *prometheus.CounterVec
	pushes       *prometheus.CounterVec
	queueDepth   prometheus.Gauge
}

// NewPrometheus registers all collectors on a fresh registry.
func NewPrometheus() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	factory := promauto.With(registry)

	return &PrometheusRecorder{
		registry: registry,
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qc_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qc_http_latency_ms",
				Help:    "HTTP request latency in milliseconds",
				Buckets: latencyBuckets,
			},
			[]string{"method", "route"},
		),
		uploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qc_profile_image_uploads_total",
				Help: "Profile image upload attempts by outcome",
			},
			[]string{"status"},
		),
		questions: factory.NewCounter(prometheus.CounterOpts{
			Name: "qc_questions_created_total",
			Help: "Questions created",
		}),
		answers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qc_answers_recorded_total",
				Help: "Answers recorded by correctness",
			},
			[]string{"correct"},
		),
		messages: factory.NewCounter(prometheus.CounterOpts{
			Name: "qc_messages_sent_total",
			Help: "Direct messages sent",
		}),
		published: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qc_notifications_published_total",
				Help: "Notification events enqueued by outcome",
			},
			[]string{"status"},
		),
		processed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qc_notifications_processed_total",
				Help: "Notification events handled by the worker by outcome",
			},
			[]string{"status"},
		),
		pushes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qc_push_deliveries_total",
				Help: "Per-device push deliveries by outcome",
			},
			[]string{"status"},
		),
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "qc_notification_queue_depth",
			Help: "Pending plus undelivered notification events",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

// ObserveHTTPRequest records a served request.
func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpLatency.WithLabelValues(method, route).Observe(float64(duration.Microseconds()) / 1000)
}

// IncProfileImageUpload counts an upload outcome.
func (p *PrometheusRecorder) IncProfileImageUpload(status string) {
	p.uploads.WithLabelValues(status).Inc()
}

// IncQuestionCreated counts a created question.
func (p *PrometheusRecorder) IncQuestionCreated() {
	p.questions.Inc()
}

// IncAnswerRecorded counts a recorded answer.
func (p *PrometheusRecorder) IncAnswerRecorded(correct bool) {
	p.answers.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

// IncMessageSent counts a sent message.
func (p *PrometheusRecorder) IncMessageSent() {
	p.messages.Inc()
}

// IncNotificationPublished counts an enqueue outcome.
func (p *PrometheusRecorder) IncNotificationPublished(status string) {
	p.published.WithLabelValues(status).Inc()
}

// IncNotificationProcessed counts a worker outcome.
func (p *PrometheusRecorder) IncNotificationProcessed(status string) {
	p.processed.WithLabelValues(status).Inc()
}

// IncPushDelivery counts a per-device delivery outcome.
func (p *PrometheusRecorder) IncPushDelivery(status string) {
	p.pushes.WithLabelValues(status).Inc()
}

// SetNotificationQueueDepth stores the latest queue depth.
func (p *PrometheusRecorder) SetNotificationQueueDepth(depth int64) {
	p.queueDepth.Set(float64(depth))
}
