package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus instruments for pricing operations.
type Metrics struct {
	quotes             *prometheus.CounterVec
	quoteAmount        *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
	breakdowns         *prometheus.CounterVec
	payoutWarnings     prometheus.Counter
	configSaves        *prometheus.CounterVec
	publishFailures    prometheus.Counter
}

// New registers pricing metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lankaconnect_pricing_quotes_total",
		Help: "Registration quotes by pricing type and outcome.",
	}, []string{"pricing_type", "status"})

	quoteAmount := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lankaconnect_pricing_quote_amount",
		Help:    "Quoted registration totals in major units.",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"currency"})

	validationFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lankaconnect_pricing_validation_failures_total",
		Help: "Pricing configuration validation failures by code.",
	}, []string{"code"})

	breakdowns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lankaconnect_revenue_breakdowns_total",
		Help: "Revenue breakdowns computed, split by whether sales tax applied.",
	}, []string{"taxed"})

	payoutWarnings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lankaconnect_revenue_low_payout_warnings_total",
		Help: "Breakdowns whose organizer payout fell below one major unit.",
	})

	configSaves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lankaconnect_pricing_config_saves_total",
		Help: "Saved event pricing configurations by pricing type.",
	}, []string{"pricing_type"})

	publishFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lankaconnect_pricing_publish_failures_total",
		Help: "Failed pricing-updated notifications.",
	})

	reg.MustRegister(
		quotes,
		quoteAmount,
		validationFailures,
		breakdowns,
		payoutWarnings,
		configSaves,
		publishFailures,
	)

	return &Metrics{
		quotes:             quotes,
		quoteAmount:        quoteAmount,
		validationFailures: validationFailures,
		breakdowns:         breakdowns,
		payoutWarnings:     payoutWarnings,
		configSaves:        configSaves,
		publishFailures:    publishFailures,
	}
}

// ObserveQuote records a quote outcome and, on success, its amount.
func (m *Metrics) ObserveQuote(pricingType, status, currency string, amount float64) {
	if m == nil {
		return
	}
	m.quotes.WithLabelValues(sanitizeLabel(pricingType), sanitizeLabel(status)).Inc()
	if status == "success" {
		m.quoteAmount.WithLabelValues(sanitizeLabel(currency)).Observe(amount)
	}
}

func (m *Metrics) ObserveValidationFailure(code string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(sanitizeLabel(code)).Inc()
}

func (m *Metrics) ObserveBreakdown(taxed, payoutWarning bool) {
	if m == nil {
		return
	}
	label := "false"
	if taxed {
		label = "true"
	}
	m.breakdowns.WithLabelValues(label).Inc()
	if payoutWarning {
		m.payoutWarnings.Inc()
	}
}

func (m *Metrics) ObserveConfigSave(pricingType string) {
	if m == nil {
		return
	}
	m.configSaves.WithLabelValues(sanitizeLabel(pricingType)).Inc()
}

func (m *Metrics) ObservePublishFailure() {
	if m == nil {
		return
	}
	m.publishFailures.Inc()
}

// HTTPMetrics tracks inbound request counts and latency.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lankaconnect_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lankaconnect_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	reg.MustRegister(requests, duration)
	return &HTTPMetrics{requests: requests, duration: duration}
}

func (m *HTTPMetrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(sanitizeLabel(method), sanitizeLabel(route), status).Inc()
	m.duration.WithLabelValues(sanitizeLabel(method), sanitizeLabel(route)).Observe(d.Seconds())
}

func sanitizeLabel(val string) string {
	if val == "" {
		return "unknown"
	}
	return val
}
