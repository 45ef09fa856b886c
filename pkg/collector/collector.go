// Package collector gathers the host facts a health check is evaluated on.
//
// Every collector fills exactly one field of models.HostFacts. A missing utility or
// permission is recorded as an unavailable fact; it never aborts the run.
package collector

import (
	"context"
	"time"

	"hostcheck/pkg/log"
	"hostcheck/pkg/models"
	"hostcheck/pkg/probe"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	defaultPingTimeout = 2 * time.Second
	pingGrace          = time.Second
	osReleasePath      = "/etc/os-release"
	rootMount          = "/"
)

// Options tune how the collector reaches the host.
type Options struct {
	// PingTimeout bounds the single reachability probe.
	PingTimeout time.Duration
	// CommandTimeout bounds every other external utility.
	CommandTimeout time.Duration
}

// Collector builds HostFacts snapshots.
type Collector struct {
	cfg    models.ThresholdConfig
	opts   Options
	runner probe.Runner

	// Collection functions for mocking
	now           func() time.Time
	hostInfo      func(context.Context) (*host.InfoStat, error)
	loadAvg       func(context.Context) (*load.AvgStat, error)
	virtualMemory func(context.Context) (*mem.VirtualMemoryStat, error)
	diskUsage     func(context.Context, string) (*disk.UsageStat, error)
	dockerPing    func(context.Context) error
	osRelease     string
}

// New creates a collector for the given thresholds backed by the runner.
func New(cfg models.ThresholdConfig, opts Options, runner probe.Runner) *Collector {
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = defaultPingTimeout
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = probe.DefaultTimeout
	}

	return &Collector{
		cfg:           cfg,
		opts:          opts,
		runner:        runner,
		now:           time.Now,
		hostInfo:      host.InfoWithContext,
		loadAvg:       load.AvgWithContext,
		virtualMemory: mem.VirtualMemoryWithContext,
		diskUsage:     disk.UsageWithContext,
		dockerPing:    pingDockerDaemon,
		osRelease:     osReleasePath,
	}
}

// Collect runs every collector once, in order, and returns the finished snapshot.
func (c *Collector) Collect(ctx context.Context) *models.HostFacts {
	start := c.now()
	facts := &models.HostFacts{
		CollectedAt: start.UTC(),
	}

	sys := c.collectSystem(ctx)
	facts.Hostname = sys.hostname
	facts.OS = sys.os
	facts.Kernel = sys.kernel
	facts.Uptime = sys.uptime
	facts.BootTime = sys.bootTime

	facts.Load = c.collectLoad(ctx)
	facts.CPUUsagePct = c.collectCPU(ctx)
	facts.Memory = c.collectMemory(ctx)
	facts.Disk = c.collectDisk(ctx)

	facts.PingTarget = c.cfg.PingTarget
	facts.PingOK = c.collectPing(ctx)

	facts.ServicesChecked = append([]string{}, c.cfg.Services...)
	facts.ServicesDown = c.collectServices(ctx)

	facts.UpgradesPending = c.collectUpgrades(ctx)
	facts.Docker = c.collectDocker(ctx)

	log.Debug().
		Dur("duration", c.now().Sub(start)).
		Msg("Host facts collected")

	return facts
}

// has reports whether a utility is installed.
func (c *Collector) has(name string) bool {
	_, err := c.runner.LookPath(name)
	return err == nil
}

// run executes a utility with the default command timeout.
func (c *Collector) run(ctx context.Context, name string, args ...string) (*probe.Result, error) {
	return c.runner.Run(ctx, probe.Command{
		Name:    name,
		Args:    args,
		Timeout: c.opts.CommandTimeout,
	})
}
