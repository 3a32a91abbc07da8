// Package metrics instruments aggregation runs with Prometheus collectors.
//
// Collectors live on a private registry so a run never collides with the
// global default registry; the CLI writes that registry to a node_exporter
// textfile when asked.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrLipa/oasaggregate/aggregator"
	"github.com/MrLipa/oasaggregate/document"
)

const namespace = "oasaggregate"

// Recorder implements aggregator.MetricsRecorder.
type Recorder struct {
	registry *prometheus.Registry

	sources       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	paths         prometheus.Gauge
	operations    prometheus.Gauge
	components    prometheus.Gauge
	servers       prometheus.Gauge
	lastRun       prometheus.Gauge
}

var _ aggregator.MetricsRecorder = (*Recorder)(nil)

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sources: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_total",
			Help:      "Service documents processed, by outcome.",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching one service document.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		paths: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "paths",
			Help:      "Paths in the last aggregate.",
		}),
		operations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "operations",
			Help:      "Operations in the last aggregate.",
		}),
		components: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "components",
			Help:      "Component definitions in the last aggregate.",
		}),
		servers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "servers",
			Help:      "Servers in the last aggregate.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last aggregate was produced.",
		}),
	}
	r.registry.MustRegister(r.sources, r.fetchDuration, r.paths, r.operations, r.components, r.servers, r.lastRun)

	// Both outcomes are exported from the start so rate() works on the
	// first failure.
	r.sources.WithLabelValues(string(aggregator.OutcomeSuccess))
	r.sources.WithLabelValues(string(aggregator.OutcomeFailure))
	return r
}

// ObserveSource implements aggregator.MetricsRecorder.
func (r *Recorder) ObserveSource(outcome aggregator.Outcome, elapsed time.Duration) {
	r.sources.WithLabelValues(string(outcome)).Inc()
	if elapsed > 0 {
		r.fetchDuration.Observe(elapsed.Seconds())
	}
}

// ObserveAggregate implements aggregator.MetricsRecorder.
func (r *Recorder) ObserveAggregate(stats document.Stats) {
	r.paths.Set(float64(stats.PathCount))
	r.operations.Set(float64(stats.OperationCount))
	r.components.Set(float64(stats.ComponentCount))
	r.servers.Set(float64(stats.ServerCount))
	r.lastRun.SetToCurrentTime()
}

// Gatherer exposes the recorder's registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the current values in the Prometheus text format,
// atomically, for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
