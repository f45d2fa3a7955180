// Package metrics provides Prometheus instrumentation.
//
// The standard HTTP metrics every deployment needs are pre-registered,
// next to the inventory-domain counters the dashboards alert on. Wire it
// once in the server bootstrap:
//
//	r.Use(metrics.Middleware())
//	r.HandleFunc("/metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stockledger"

// ─── HTTP metrics ─────────────────────────────────────────────────────────────

var (
	// RequestDuration tracks how long each HTTP request takes, broken down
	// by method, path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks how many requests are currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})
)

// ─── Inventory domain metrics ─────────────────────────────────────────────────

var (
	// TransactionsTotal counts ledger entries created, by type.
	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "transactions_total",
			Help:      "Ledger entries created, labelled purchase or sale.",
		},
		[]string{"type"},
	)

	// StockRejectionsTotal counts sales rejected for insufficient stock.
	StockRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "inventory",
		Name:      "stock_rejections_total",
		Help:      "Sale transactions rejected because stock was insufficient.",
	})

	// AdvisoryFallbacksTotal counts reorder suggestions served by the
	// deterministic fallback instead of the advisory service.
	AdvisoryFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "advisory",
		Name:      "fallbacks_total",
		Help:      "Reorder suggestions that fell back to the local formula.",
	})

	// AdvisoryDuration tracks advisory call latency, fallbacks included.
	AdvisoryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "advisory",
		Name:      "request_duration_seconds",
		Help:      "Latency of advisory service calls in seconds.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 30},
	})
)

var registry = prometheus.NewRegistry()

// Registerer exposes the scrape registry so other packages (the gRPC
// interceptors) can attach collectors to the same endpoint.
var Registerer prometheus.Registerer = registry

func init() {
	registry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		TransactionsTotal,
		StockRejectionsTotal,
		AdvisoryFallbacksTotal,
		AdvisoryDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// statusRecorder captures the response status for labelling.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware instruments every request. Mount it outermost so latencies
// include the full middleware stack.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			status := strconv.Itoa(rec.status)
			RequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		})
	}
}

// Handler serves the scrape endpoint.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
	}
}
