package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the prometheus collectors for one generator instance. A
// dedicated registry per instance keeps tests from tripping over duplicate
// registration.
type Metrics struct {
	OpsTotal        prometheus.Counter
	Throughput      prometheus.Gauge
	BurstThroughput prometheus.Gauge
	ActiveWorkers   prometheus.Gauge
	Generation      prometheus.Gauge
	SpawnFailures   prometheus.Counter
	HTTPRequests    *prometheus.CounterVec

	registry *prometheus.Registry
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		OpsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "primeburn_ops_total",
			Help: "Completed workload operations since process start.",
		}),
		Throughput: factory.NewGauge(prometheus.GaugeOpts{
			Name: "primeburn_ops_per_second",
			Help: "Latest all-mode throughput sample.",
		}),
		BurstThroughput: factory.NewGauge(prometheus.GaugeOpts{
			Name: "primeburn_burst_ops_per_second",
			Help: "Latest burst-scoped throughput sample.",
		}),
		ActiveWorkers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "primeburn_active_workers",
			Help: "Worker slots of the current run, 0 when stopped.",
		}),
		Generation: factory.NewGauge(prometheus.GaugeOpts{
			Name: "primeburn_generation",
			Help: "Monotonic generation id of the current run.",
		}),
		SpawnFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "primeburn_spawn_failures_total",
			Help: "Child process spawn failures, retried with backoff.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "primeburn_http_requests_total",
			Help: "Control and query requests by path and status.",
		}, []string{"path", "status"}),
		registry: reg,
	}
}

// Handler serves the registry for GET /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
