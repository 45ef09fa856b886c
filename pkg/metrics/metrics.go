// Package metrics exposes the latest health check result as Prometheus gauges.
package metrics

import (
	"math"

	"hostcheck/pkg/models"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hostcheck"

// Metrics holds the gauges of the most recent run.
type Metrics struct {
	registry *prometheus.Registry

	Healthy         prometheus.Gauge
	Failures        prometheus.Gauge
	DiskUsedPct     prometheus.Gauge
	DiskThreshold   prometheus.Gauge
	MemoryUsedPct   prometheus.Gauge
	CPUUsagePct     prometheus.Gauge
	LoadAverage     *prometheus.GaugeVec
	PingOK          prometheus.Gauge
	ServicesDown    prometheus.Gauge
	UpgradesPending prometheus.Gauge
	DockerStatus    *prometheus.GaugeVec
	FactAvailable   *prometheus.GaugeVec
}

// New creates the gauges on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Healthy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "healthy",
			Help: "1 when the last evaluation was healthy, 0 otherwise",
		}),
		Failures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "failures",
			Help: "Number of failure reasons in the last evaluation",
		}),
		DiskUsedPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "disk_root_used_percent",
			Help: "Root filesystem usage percentage",
		}),
		DiskThreshold: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "disk_root_threshold_percent",
			Help: "Configured root filesystem usage threshold",
		}),
		MemoryUsedPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "memory_used_percent",
			Help: "Memory usage percentage",
		}),
		CPUUsagePct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "cpu_usage_percent",
			Help: "Estimated CPU usage percentage",
		}),
		LoadAverage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "load_average",
			Help: "System load average",
		}, []string{"window"}),
		PingOK: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "ping_ok",
			Help: "1 when the ping target answered",
		}),
		ServicesDown: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "services_down",
			Help: "Number of configured services that are not active",
		}),
		UpgradesPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "upgrades_pending",
			Help: "Number of packages an upgrade would install",
		}),
		DockerStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "docker_status",
			Help: "1 for the current container runtime state",
		}, []string{"state"}),
		FactAvailable: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "fact_available",
			Help: "1 when the fact could be measured",
		}, []string{"fact"}),
	}

	m.registry.MustRegister(
		m.Healthy, m.Failures, m.DiskUsedPct, m.DiskThreshold, m.MemoryUsedPct, m.CPUUsagePct,
		m.LoadAverage, m.PingOK, m.ServicesDown, m.UpgradesPending, m.DockerStatus, m.FactAvailable,
	)
	return m
}

// Registry returns the registry the gauges live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe publishes a finished run. Gauges of absent facts are set to NaN and the
// absence is reported through fact_available.
func (m *Metrics) Observe(facts *models.HostFacts, eval *models.Evaluation) {
	m.Healthy.Set(boolToFloat(eval.Healthy()))
	m.Failures.Set(float64(len(eval.Failures)))
	m.DiskThreshold.Set(float64(eval.DiskThresholdPct))

	diskPct := math.NaN()
	if disk, ok := facts.Disk.Get(); ok {
		if pct, ok := disk.Percent(); ok {
			diskPct = float64(pct)
		}
	}
	m.DiskUsedPct.Set(diskPct)
	m.markAvailable("disk", facts.Disk.State())

	m.MemoryUsedPct.Set(valueOrNaN(facts.Memory, func(mu models.MemoryUsage) float64 { return mu.UsedPct }))
	m.markAvailable("memory", facts.Memory.State())

	m.CPUUsagePct.Set(valueOrNaN(facts.CPUUsagePct, func(v float64) float64 { return v }))
	m.markAvailable("cpu", facts.CPUUsagePct.State())

	m.LoadAverage.WithLabelValues("1m").Set(valueOrNaN(facts.Load, func(l models.LoadAverages) float64 { return l.Load1 }))
	m.LoadAverage.WithLabelValues("5m").Set(valueOrNaN(facts.Load, func(l models.LoadAverages) float64 { return l.Load5 }))
	m.LoadAverage.WithLabelValues("15m").Set(valueOrNaN(facts.Load, func(l models.LoadAverages) float64 { return l.Load15 }))
	m.markAvailable("load", facts.Load.State())

	m.PingOK.Set(valueOrNaN(facts.PingOK, boolToFloat))
	m.markAvailable("ping", facts.PingOK.State())

	m.ServicesDown.Set(valueOrNaN(facts.ServicesDown, func(down []string) float64 { return float64(len(down)) }))
	m.markAvailable("services", facts.ServicesDown.State())

	m.UpgradesPending.Set(valueOrNaN(facts.UpgradesPending, func(n int) float64 { return float64(n) }))
	m.markAvailable("upgrades", facts.UpgradesPending.State())

	for _, state := range []models.DockerStatus{models.DockerRunning, models.DockerInstalledNotRunning, models.DockerNotInstalled} {
		m.DockerStatus.WithLabelValues(string(state)).Set(boolToFloat(facts.Docker == state))
	}
}

// valueOrNaN converts a present fact and yields NaN for an absent one.
func valueOrNaN[T any](f models.Fact[T], fn func(T) float64) float64 {
	if v, ok := f.Get(); ok {
		return fn(v)
	}
	return math.NaN()
}

func (m *Metrics) markAvailable(fact string, state models.FactState) {
	m.FactAvailable.WithLabelValues(fact).Set(boolToFloat(state == models.StatePresent))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
