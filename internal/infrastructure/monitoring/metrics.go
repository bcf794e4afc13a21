package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	KeyLookups        *prometheus.CounterVec
	KeyGenerations    *prometheus.CounterVec
	KeyGenLatency     prometheus.Histogram
	DocumentsServed   *prometheus.CounterVec
	Signatures        *prometheus.CounterVec
	Deliveries        *prometheus.CounterVec
	DeliveryLatency   prometheus.Histogram
	HTTPRequests      *prometheus.CounterVec
	HTTPLatency       *prometheus.HistogramVec
	HTTPActiveRequest prometheus.Gauge
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		KeyLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fedicore_key_lookups_total",
				Help: "Total number of key vault lookups by cache result.",
			},
			[]string{"result"},
		),
		KeyGenerations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fedicore_key_generations_total",
				Help: "Total number of RSA keypairs minted.",
			},
			[]string{"result"},
		),
		KeyGenLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fedicore_key_generation_duration_seconds",
				Help:    "Latency of RSA keypair generation.",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		DocumentsServed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fedicore_documents_served_total",
				Help: "Total number of actor and webfinger documents rendered.",
			},
			[]string{"kind"},
		),
		Signatures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fedicore_signatures_total",
				Help: "Total number of outbound HTTP signatures.",
			},
			[]string{"result"},
		),
		Deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fedicore_deliveries_total",
				Help: "Total number of outbound deliveries by remote status.",
			},
			[]string{"status"},
		),
		DeliveryLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fedicore_delivery_duration_seconds",
				Help:    "Latency of outbound deliveries.",
				Buckets: prometheus.DefBuckets,
			},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fedicore_http_requests_total",
				Help: "Total number of HTTP requests served.",
			},
			[]string{"route", "method", "status"},
		),
		HTTPLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fedicore_http_request_duration_seconds",
				Help:    "Latency of HTTP requests served.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		HTTPActiveRequest: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fedicore_http_active_requests",
				Help: "Number of HTTP requests in flight.",
			},
		),
	}
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// RecordKeyLookup records a vault lookup as a cache hit or miss.
func (m *Metrics) RecordKeyLookup(hit bool) {
	if hit {
		m.KeyLookups.WithLabelValues("hit").Inc()
		return
	}
	m.KeyLookups.WithLabelValues("miss").Inc()
}

// RecordKeyGeneration records a keypair generation.
func (m *Metrics) RecordKeyGeneration(success bool, duration time.Duration) {
	m.KeyGenerations.WithLabelValues(result(success)).Inc()
	m.KeyGenLatency.Observe(duration.Seconds())
}

// RecordDocumentServed records a rendered document of kind.
func (m *Metrics) RecordDocumentServed(kind string) {
	m.DocumentsServed.WithLabelValues(kind).Inc()
}

// RecordSignature records an outbound signing attempt.
func (m *Metrics) RecordSignature(success bool) {
	m.Signatures.WithLabelValues(result(success)).Inc()
}

// RecordDelivery records a delivery; statusCode 0 means the transport failed.
func (m *Metrics) RecordDelivery(statusCode int, duration time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	m.Deliveries.WithLabelValues(status).Inc()
	m.DeliveryLatency.Observe(duration.Seconds())
}

// ActiveRequestsInc marks a request as in flight.
func (m *Metrics) ActiveRequestsInc() {
	m.HTTPActiveRequest.Inc()
}

// ActiveRequestsDec marks a request as finished.
func (m *Metrics) ActiveRequestsDec() {
	m.HTTPActiveRequest.Dec()
}

// ObserveRequest records a served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(route, method).Observe(duration.Seconds())
}
