package bench

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics wraps a private Prometheus registry with the benchmark series.
type Metrics struct {
	registry *prometheus.Registry

	PassDuration    *prometheus.HistogramVec // seconds per pricing pass, by mode
	ContractsPriced prometheus.Counter
	PassErrors      prometheus.Counter
	ContractsPerSec prometheus.Gauge
}

// NewMetrics builds the registry, including the Go runtime collector.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	m := &Metrics{registry: reg}

	m.PassDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bsbench_pass_duration_seconds",
		Help:    "Wall clock time of one pricing pass over the batch",
		Buckets: prometheus.ExponentialBuckets(1e-5, 2, 20),
	}, []string{"mode"})
	m.ContractsPriced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bsbench_contracts_priced_total",
		Help: "Contracts priced across all passes",
	})
	m.PassErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bsbench_pass_errors_total",
		Help: "Pricing passes that returned an error",
	})
	m.ContractsPerSec = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bsbench_contracts_per_second",
		Help: "Throughput of the most recent pass",
	})

	reg.MustRegister(m.PassDuration, m.ContractsPriced, m.PassErrors, m.ContractsPerSec)
	return m
}

// WriteTextfile dumps the registry in the text exposition format, suitable
// for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
