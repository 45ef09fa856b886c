package report

import (
	"strconv"
	"time"

	"hostcheck/pkg/models"
)

// Document is the structured form of a report. Field names are stable across runs.
type Document struct {
	Timestamp string              `json:"timestamp" yaml:"timestamp"`
	Host      models.Fact[string] `json:"host" yaml:"host"`
	OS        models.Fact[string] `json:"os" yaml:"os"`
	Kernel    models.Fact[string] `json:"kernel" yaml:"kernel"`
	Uptime    models.Fact[string] `json:"uptime" yaml:"uptime"`
	BootTime  models.Fact[string] `json:"boot_time" yaml:"boot_time"`
	LoadAvg   LoadDocument        `json:"loadavg" yaml:"loadavg"`
	CPUUsage  models.Fact[string] `json:"cpu_usage_pct" yaml:"cpu_usage_pct"`
	Memory    MemoryDocument      `json:"memory" yaml:"memory"`
	DiskRoot  DiskDocument        `json:"disk_root" yaml:"disk_root"`
	Network   NetworkDocument     `json:"network" yaml:"network"`
	Services  ServicesDocument    `json:"services" yaml:"services"`
	Packages  PackagesDocument    `json:"packages" yaml:"packages"`
	Docker    string              `json:"docker" yaml:"docker"`
	Status    models.Status       `json:"status" yaml:"status"`
	Failures  []string            `json:"failures" yaml:"failures"`
}

// LoadDocument holds load averages as two-decimal strings.
type LoadDocument struct {
	Load1  models.Fact[string] `json:"1m" yaml:"1m"`
	Load5  models.Fact[string] `json:"5m" yaml:"5m"`
	Load15 models.Fact[string] `json:"15m" yaml:"15m"`
}

type MemoryDocument struct {
	UsedPct models.Fact[float64] `json:"used_pct" yaml:"used_pct"`
	UsedKB  models.Fact[uint64]  `json:"used_kb" yaml:"used_kb"`
	TotalKB models.Fact[uint64]  `json:"total_kb" yaml:"total_kb"`
}

type DiskDocument struct {
	Filesystem   models.Fact[string] `json:"filesystem" yaml:"filesystem"`
	UsedPct      models.Fact[string] `json:"used_pct" yaml:"used_pct"`
	Size         models.Fact[string] `json:"size" yaml:"size"`
	Used         models.Fact[string] `json:"used" yaml:"used"`
	Avail        models.Fact[string] `json:"avail" yaml:"avail"`
	Mount        models.Fact[string] `json:"mount" yaml:"mount"`
	ThresholdPct int                 `json:"threshold_pct" yaml:"threshold_pct"`
}

type NetworkDocument struct {
	PingHost string            `json:"ping_host" yaml:"ping_host"`
	PingOK   models.Fact[bool] `json:"ping_ok" yaml:"ping_ok"`
}

type ServicesDocument struct {
	Checked []string              `json:"checked" yaml:"checked"`
	Down    models.Fact[[]string] `json:"down" yaml:"down"`
}

type PackagesDocument struct {
	UpgradesPending models.Fact[int] `json:"upgrades_pending" yaml:"upgrades_pending"`
}

// NewDocument projects facts and their evaluation into the report schema.
// Values are copied as collected; only numeric load and CPU figures are formatted.
func NewDocument(facts *models.HostFacts, eval *models.Evaluation) *Document {
	doc := &Document{
		Timestamp: facts.CollectedAt.UTC().Format(time.RFC3339),
		Host:      facts.Hostname,
		OS:        facts.OS,
		Kernel:    facts.Kernel,
		Uptime:    facts.Uptime,
		BootTime:  facts.BootTime,
		CPUUsage:  mapFact(facts.CPUUsagePct, formatPercent),
		Network: NetworkDocument{
			PingHost: facts.PingTarget,
			PingOK:   facts.PingOK,
		},
		Services: ServicesDocument{
			Checked: append([]string{}, facts.ServicesChecked...),
			Down:    facts.ServicesDown,
		},
		Packages: PackagesDocument{UpgradesPending: facts.UpgradesPending},
		Docker:   string(facts.Docker),
		Status:   eval.Status,
		Failures: append([]string{}, eval.Failures...),
	}

	doc.LoadAvg = LoadDocument{
		Load1:  mapFact(facts.Load, func(l models.LoadAverages) string { return formatLoad(l.Load1) }),
		Load5:  mapFact(facts.Load, func(l models.LoadAverages) string { return formatLoad(l.Load5) }),
		Load15: mapFact(facts.Load, func(l models.LoadAverages) string { return formatLoad(l.Load15) }),
	}

	doc.Memory = MemoryDocument{
		UsedPct: mapFact(facts.Memory, func(m models.MemoryUsage) float64 { return m.UsedPct }),
		UsedKB:  mapFact(facts.Memory, func(m models.MemoryUsage) uint64 { return m.UsedKB }),
		TotalKB: mapFact(facts.Memory, func(m models.MemoryUsage) uint64 { return m.TotalKB }),
	}

	doc.DiskRoot = DiskDocument{
		Filesystem:   mapFact(facts.Disk, func(d models.DiskUsage) string { return d.Filesystem }),
		UsedPct:      mapFact(facts.Disk, func(d models.DiskUsage) string { return d.UsedPct }),
		Size:         mapFact(facts.Disk, func(d models.DiskUsage) string { return d.Size }),
		Used:         mapFact(facts.Disk, func(d models.DiskUsage) string { return d.Used }),
		Avail:        mapFact(facts.Disk, func(d models.DiskUsage) string { return d.Avail }),
		Mount:        mapFact(facts.Disk, func(d models.DiskUsage) string { return d.Mount }),
		ThresholdPct: eval.DiskThresholdPct,
	}

	if doc.Docker == "" {
		doc.Docker = models.UnavailableToken
	}

	return doc
}

// mapFact converts a present value and carries an absent state over unchanged.
func mapFact[T, U any](f models.Fact[T], fn func(T) U) models.Fact[U] {
	v, ok := f.Get()
	if ok {
		return models.Present(fn(v))
	}
	if f.State() == models.StateNotApplicable {
		return models.NotApplicable[U]()
	}
	return models.Unavailable[U]()
}

func formatLoad(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
