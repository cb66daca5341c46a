package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for provider lookups.
const (
	OutcomeOK     = "ok"
	OutcomeError  = "error"
	OutcomeCached = "cached"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	lookupsTotal        *prometheus.CounterVec
	lookupDuration      *prometheus.HistogramVec
	plansTotal          *prometheus.CounterVec
	summaryFallbacks    prometheus.Counter
}

// New registers all collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealspread_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mealspread_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		lookupsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealspread_provider_lookups_total",
				Help: "Outbound recipe provider lookups by endpoint and outcome",
			},
			[]string{"provider", "endpoint", "outcome"},
		),
		lookupDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mealspread_provider_lookup_duration_seconds",
				Help:    "Outbound recipe provider lookup latency",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"provider", "endpoint"},
		),
		plansTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mealspread_plans_total",
				Help: "Weekly plans produced, by result",
			},
			[]string{"result"},
		),
		summaryFallbacks: f.NewCounter(
			prometheus.CounterOpts{
				Name: "mealspread_summary_fallbacks_total",
				Help: "Narratives replaced by the fallback sentence",
			},
		),
	}
}

// ObserveLookup records one provider call.
func (m *Metrics) ObserveLookup(provider, endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.lookupsTotal.WithLabelValues(provider, endpoint, outcome).Inc()
	m.lookupDuration.WithLabelValues(provider, endpoint).Observe(d.Seconds())
}

// PlanProduced records the result of one planning request: "planned",
// "no_recipes" or "no_details".
func (m *Metrics) PlanProduced(result string) {
	if m == nil {
		return
	}
	m.plansTotal.WithLabelValues(result).Inc()
}

// SummaryFallback records a narrative that fell back to the fixed sentence.
func (m *Metrics) SummaryFallback() {
	if m == nil {
		return
	}
	m.summaryFallbacks.Inc()
}

// Middleware counts requests and their latency.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
