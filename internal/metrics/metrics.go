package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LoaderMetrics tracks how many statements each retrieval strategy issues.
// A nil *LoaderMetrics is valid and records nothing.
type LoaderMetrics struct {
	Loads     *prometheus.CounterVec
	Queries   *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewLoaderMetrics(reg prometheus.Registerer) *LoaderMetrics {
	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jpashop",
		Subsystem: "order_loader",
		Name:      "loads_total",
		Help:      "Order aggregate loads by strategy and outcome.",
	}, []string{"strategy", "outcome"})
	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jpashop",
		Subsystem: "order_loader",
		Name:      "queries_total",
		Help:      "Statements issued to the store by strategy.",
	}, []string{"strategy"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jpashop",
		Subsystem: "order_loader",
		Name:      "load_duration_ms",
		Help:      "Order aggregate load latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"strategy"})

	reg.MustRegister(loads, queries, latency)
	return &LoaderMetrics{Loads: loads, Queries: queries, LatencyMS: latency}
}

func (m *LoaderMetrics) ObserveLoad(strategy string, queries int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Loads.WithLabelValues(strategy, outcome).Inc()
	m.Queries.WithLabelValues(strategy).Add(float64(queries))
	m.LatencyMS.WithLabelValues(strategy).Observe(float64(elapsed.Milliseconds()))
}

func (m *LoaderMetrics) ObserveCacheHit(strategy string) {
	if m == nil {
		return
	}
	m.Loads.WithLabelValues(strategy, "cache_hit").Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
