package models

import (
	"strconv"
	"strings"
	"time"
)

// DockerStatus is the state of the container runtime on the host.
type DockerStatus string

const (
	DockerRunning             DockerStatus = "running"
	DockerInstalledNotRunning DockerStatus = "installed_not_running"
	DockerNotInstalled        DockerStatus = "not_installed"
)

// HostFacts is a snapshot of the host taken once per run.
// It is built by the collector and never modified afterwards.
type HostFacts struct {
	CollectedAt     time.Time
	Hostname        Fact[string]
	OS              Fact[string]
	Kernel          Fact[string]
	Uptime          Fact[string]
	BootTime        Fact[string]
	Load            Fact[LoadAverages]
	CPUUsagePct     Fact[float64]
	Memory          Fact[MemoryUsage]
	Disk            Fact[DiskUsage]
	PingTarget      string
	PingOK          Fact[bool]
	ServicesChecked []string
	ServicesDown    Fact[[]string]
	UpgradesPending Fact[int]
	Docker          DockerStatus
}

// LoadAverages represents system load information.
type LoadAverages struct {
	Load1  float64 `json:"load_1"`
	Load5  float64 `json:"load_5"`
	Load15 float64 `json:"load_15"`
}

// MemoryUsage represents memory usage information.
type MemoryUsage struct {
	UsedPct float64 `json:"used_pct"`
	UsedKB  uint64  `json:"used_kb"`
	TotalKB uint64  `json:"total_kb"`
}

// DiskUsage represents usage of the root filesystem as display strings.
type DiskUsage struct {
	Filesystem string `json:"filesystem"`
	Size       string `json:"size"`
	Used       string `json:"used"`
	Avail      string `json:"avail"`
	UsedPct    string `json:"used_pct"` // e.g. "42%"
	Mount      string `json:"mount"`
}

// Percent returns the usage percentage with the "%" suffix stripped.
func (d DiskUsage) Percent() (int, bool) {
	pct, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(d.UsedPct), "%")))
	if err != nil {
		return 0, false
	}
	return pct, true
}
