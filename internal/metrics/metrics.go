package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ambari_discovery"

// Run holds the gauges describing one discovery run. Each run uses its own
// registry so the textfile only ever carries the latest run.
type Run struct {
	registry *prometheus.Registry
	start    time.Time

	hosts       prometheus.Gauge
	groups      prometheus.Gauge
	services    prometheus.Gauge
	targets     *prometheus.GaugeVec
	failures    prometheus.Gauge
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
}

// NewRun starts timing a run of mode (inventory or discovery) on cluster.
func NewRun(mode, cluster string) *Run {
	labels := prometheus.Labels{"mode": mode, "cluster": cluster}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	r := &Run{
		registry:    prometheus.NewRegistry(),
		start:       time.Now(),
		hosts:       gauge("hosts", "Distinct hosts seen in the cluster topology."),
		groups:      gauge("groups", "Inventory groups emitted."),
		services:    gauge("services", "Services reported by Ambari."),
		failures:    gauge("failed_requests", "Ambari sub-queries that failed during the run."),
		duration:    gauge("run_duration_seconds", "Wall time of the run."),
		lastSuccess: gauge("last_success_timestamp_seconds", "Unix time of the last run that wrote its document."),
		targets: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "targets",
			Help:        "Scrape targets emitted per node type.",
			ConstLabels: labels,
		}, []string{"node_type"}),
	}
	r.registry.MustRegister(r.hosts, r.groups, r.services, r.targets, r.failures, r.duration, r.lastSuccess)
	return r
}

func (r *Run) SetHosts(n int)    { r.hosts.Set(float64(n)) }
func (r *Run) SetGroups(n int)   { r.groups.Set(float64(n)) }
func (r *Run) SetServices(n int) { r.services.Set(float64(n)) }
func (r *Run) SetFailures(n int) { r.failures.Set(float64(n)) }

// SetTargets records the target count for one node type.
func (r *Run) SetTargets(nodeType string, n int) {
	r.targets.WithLabelValues(nodeType).Set(float64(n))
}

// Succeeded stamps the run as complete at now.
func (r *Run) Succeeded(now time.Time) {
	r.lastSuccess.Set(float64(now.Unix()))
}

// Registry exposes the underlying registry for tests and custom exporters.
func (r *Run) Registry() *prometheus.Registry {
	return r.registry
}

// WriteFile stops the duration clock and writes all gauges to path in the
// node exporter textfile format. The write is atomic.
func (r *Run) WriteFile(path string) error {
	r.duration.Set(time.Since(r.start).Seconds())
	return prometheus.WriteToTextfile(path, r.registry)
}
