package collector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/suite"

	"hostcheck/pkg/models"
	"hostcheck/pkg/probe"
)

// fakeRunner implements probe.Runner from canned responses
type fakeRunner struct {
	installed map[string]bool
	results   map[string]*probe.Result
	errors    map[string]error
	calls     []string
}

func newFakeRunner(installed ...string) *fakeRunner {
	r := &fakeRunner{
		installed: make(map[string]bool),
		results:   make(map[string]*probe.Result),
		errors:    make(map[string]error),
	}
	for _, name := range installed {
		r.installed[name] = true
	}
	return r
}

func (r *fakeRunner) respond(cmdline string, exitCode int, stdout string) {
	r.results[cmdline] = &probe.Result{ExitCode: exitCode, Stdout: []byte(stdout)}
}

func (r *fakeRunner) LookPath(name string) (string, error) {
	if r.installed[name] {
		return "/usr/bin/" + name, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func (r *fakeRunner) Run(_ context.Context, cmd probe.Command) (*probe.Result, error) {
	line := cmd.String()
	r.calls = append(r.calls, line)
	if err, ok := r.errors[line]; ok {
		return &probe.Result{}, err
	}
	if result, ok := r.results[line]; ok {
		return result, nil
	}
	return &probe.Result{ExitCode: 0}, nil
}

const mpstatOutput = `Linux 6.8.0-45-generic (web-1) 	10/15/2026 	_x86_64_	(4 CPU)

12:00:01 PM  CPU    %usr   %nice    %sys %iowait    %irq   %soft  %steal  %guest  %gnice   %idle
12:00:02 PM  all    7.02    0.00    2.51    0.25    0.00    0.25    0.00    0.00    0.00   89.97
Average:     CPU    %usr   %nice    %sys %iowait    %irq   %soft  %steal  %guest  %gnice   %idle
Average:     all    7.02    0.00    2.51    0.25    0.00    0.25    0.00    0.00    0.00   89.97
`

const topOutput = `top - 12:00:01 up 3 days,  4:12,  1 user,  load average: 0.52, 0.58, 0.59
Tasks: 212 total,   1 running, 211 sleeping,   0 stopped,   0 zombie
%Cpu(s):  3.1 us,  1.6 sy,  0.0 ni, 95.3 id,  0.0 wa,  0.0 hi,  0.0 si,  0.0 st
MiB Mem :  15890.1 total,   1024.5 free,   8120.3 used,   6745.3 buff/cache
`

const dfOutput = `Filesystem      Size  Used Avail Use% Mounted on
/dev/sda1        98G   83G   11G  86% /
`

const aptOutput = `Reading package lists...
Building dependency tree...
The following packages will be upgraded:
  curl libcurl4
2 upgraded, 0 newly installed, 0 to remove and 0 not upgraded.
Inst curl [7.81.0-1ubuntu1.15] (7.81.0-1ubuntu1.16 Ubuntu:22.04/jammy-updates [amd64])
Inst libcurl4 [7.81.0-1ubuntu1.15] (7.81.0-1ubuntu1.16 Ubuntu:22.04/jammy-updates [amd64])
Conf curl (7.81.0-1ubuntu1.16 Ubuntu:22.04/jammy-updates [amd64])
`

// CollectorTestSuite tests the fact collectors
type CollectorTestSuite struct {
	suite.Suite
	tempDir   string
	runner    *fakeRunner
	collector *Collector
	cfg       models.ThresholdConfig
}

// SetupTest runs before each test
func (s *CollectorTestSuite) SetupTest() {
	s.tempDir = s.T().TempDir()
	s.runner = newFakeRunner()
	s.cfg = models.ThresholdConfig{
		DiskThresholdPct: 85,
		PingTarget:       "8.8.8.8",
		Services:         []string{"ssh", "cron"},
		Format:           models.FormatCombined,
	}
	s.collector = s.newCollector()
}

func (s *CollectorTestSuite) newCollector() *Collector {
	c := New(s.cfg, Options{PingTimeout: 2 * time.Second, CommandTimeout: 5 * time.Second}, s.runner)

	osRelease := filepath.Join(s.tempDir, "os-release")
	s.Require().NoError(os.WriteFile(osRelease, []byte("NAME=\"Ubuntu\"\nPRETTY_NAME=\"Ubuntu 22.04.4 LTS\"\nID=ubuntu\n"), 0o600))
	c.osRelease = osRelease

	c.now = func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) }
	c.hostInfo = func(context.Context) (*host.InfoStat, error) {
		return &host.InfoStat{
			Hostname:        "web-1",
			KernelVersion:   "6.8.0-45-generic",
			Uptime:          (3*24+4)*3600 + 12*60,
			BootTime:        1760000000,
			Platform:        "ubuntu",
			PlatformVersion: "22.04",
		}, nil
	}
	c.loadAvg = func(context.Context) (*load.AvgStat, error) {
		return &load.AvgStat{Load1: 0.52, Load5: 0.58, Load15: 0.59}, nil
	}
	c.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{Total: 1000 * 1024, Available: 750 * 1024}, nil
	}
	c.diskUsage = func(context.Context, string) (*disk.UsageStat, error) {
		return &disk.UsageStat{Path: "/", Fstype: "ext4", Total: 100 << 30, Used: 41 << 30, Free: 59 << 30, UsedPercent: 41.2}, nil
	}
	c.dockerPing = func(context.Context) error { return nil }
	return c
}

// TestCollectNothingInstalled tests that missing utilities are data, not failures
func (s *CollectorTestSuite) TestCollectNothingInstalled() {
	facts := s.collector.Collect(context.Background())

	s.Equal(time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC), facts.CollectedAt)
	s.Equal("web-1", facts.Hostname.String())
	s.Equal("Ubuntu 22.04.4 LTS", facts.OS.String())
	s.Equal("6.8.0-45-generic", facts.Kernel.String())
	s.Equal("3d 4h 12m", facts.Uptime.String())
	s.True(facts.BootTime.IsPresent())

	s.Equal(models.StateUnavailable, facts.CPUUsagePct.State())
	s.Equal(models.StateUnavailable, facts.PingOK.State())
	s.Equal(models.StateUnavailable, facts.ServicesDown.State())
	s.Equal(models.StateUnavailable, facts.UpgradesPending.State())
	s.Equal(models.DockerNotInstalled, facts.Docker)
	s.Equal([]string{"ssh", "cron"}, facts.ServicesChecked)
	s.Equal("8.8.8.8", facts.PingTarget)

	// statfs fallback
	disk, ok := facts.Disk.Get()
	s.Require().True(ok)
	s.Equal("42%", disk.UsedPct)
	s.Equal("100 GiB", disk.Size)

	memory, ok := facts.Memory.Get()
	s.Require().True(ok)
	s.Equal(25.0, memory.UsedPct)
	s.Equal(uint64(250), memory.UsedKB)
	s.Equal(uint64(1000), memory.TotalKB)

	load, ok := facts.Load.Get()
	s.Require().True(ok)
	s.Equal(0.58, load.Load5)

	s.Empty(s.runner.calls)
}

// TestCollectEverythingInstalled tests a host with every utility present
func (s *CollectorTestSuite) TestCollectEverythingInstalled() {
	s.runner = newFakeRunner("mpstat", "df", "ping", "systemctl", "apt-get", "docker")
	s.runner.respond("mpstat 1 1", 0, mpstatOutput)
	s.runner.respond("df -hP /", 0, dfOutput)
	s.runner.respond("ping -c 1 -W 2 8.8.8.8", 0, "")
	s.runner.respond("systemctl is-active --quiet cron", 3, "")
	s.runner.respond("apt-get -s upgrade", 0, aptOutput)
	s.collector = s.newCollector()

	facts := s.collector.Collect(context.Background())

	cpu, ok := facts.CPUUsagePct.Get()
	s.Require().True(ok)
	s.InDelta(10.03, cpu, 0.001)

	disk, ok := facts.Disk.Get()
	s.Require().True(ok)
	s.Equal(models.DiskUsage{Filesystem: "/dev/sda1", Size: "98G", Used: "83G", Avail: "11G", UsedPct: "86%", Mount: "/"}, disk)

	pingOK, ok := facts.PingOK.Get()
	s.True(ok)
	s.True(pingOK)

	down, ok := facts.ServicesDown.Get()
	s.True(ok)
	s.Equal([]string{"cron"}, down)

	upgrades, ok := facts.UpgradesPending.Get()
	s.True(ok)
	s.Equal(2, upgrades)

	s.Equal(models.DockerRunning, facts.Docker)
}

// TestCPUFallsBackToTop tests the second CPU strategy
func (s *CollectorTestSuite) TestCPUFallsBackToTop() {
	s.runner = newFakeRunner("mpstat", "top")
	s.runner.respond("mpstat 1 1", 1, "")
	s.runner.respond("top -bn1", 0, topOutput)
	s.collector = s.newCollector()

	cpu, ok := s.collector.collectCPU(context.Background()).Get()
	s.Require().True(ok)
	s.InDelta(4.7, cpu, 0.001)
}

// TestPingUnreachable tests a failed probe
func (s *CollectorTestSuite) TestPingUnreachable() {
	s.runner = newFakeRunner("ping")
	s.runner.respond("ping -c 1 -W 2 8.8.8.8", 1, "")
	s.collector = s.newCollector()

	ok, present := s.collector.collectPing(context.Background()).Get()
	s.True(present)
	s.False(ok)
}

// TestPingTimeout tests that an expired probe counts as unreachable
func (s *CollectorTestSuite) TestPingTimeout() {
	s.runner = newFakeRunner("ping")
	s.runner.errors["ping -c 1 -W 2 8.8.8.8"] = probe.ErrTimeout
	s.collector = s.newCollector()

	ok, present := s.collector.collectPing(context.Background()).Get()
	s.True(present)
	s.False(ok)
}

// TestPingExecFailure tests that a ping that cannot start is unavailable
func (s *CollectorTestSuite) TestPingExecFailure() {
	s.runner = newFakeRunner("ping")
	s.runner.errors["ping -c 1 -W 2 8.8.8.8"] = errors.New("permission denied")
	s.collector = s.newCollector()

	s.Equal(models.StateUnavailable, s.collector.collectPing(context.Background()).State())
}

// TestPingWithoutTarget tests that an empty target is not checked
func (s *CollectorTestSuite) TestPingWithoutTarget() {
	s.runner = newFakeRunner("ping")
	s.cfg.PingTarget = ""
	s.collector = s.newCollector()

	s.Equal(models.StateNotApplicable, s.collector.collectPing(context.Background()).State())
	s.Empty(s.runner.calls)
}

// TestServicesAllActive tests the empty inactive subset
func (s *CollectorTestSuite) TestServicesAllActive() {
	s.runner = newFakeRunner("systemctl")
	s.collector = s.newCollector()

	down, ok := s.collector.collectServices(context.Background()).Get()
	s.True(ok)
	s.Empty(down)
	s.Equal([]string{"systemctl is-active --quiet ssh", "systemctl is-active --quiet cron"}, s.runner.calls)
}

// TestServicesNoneConfigured tests an empty service list
func (s *CollectorTestSuite) TestServicesNoneConfigured() {
	s.runner = newFakeRunner("systemctl")
	s.cfg.Services = nil
	s.collector = s.newCollector()

	s.Equal(models.StateNotApplicable, s.collector.collectServices(context.Background()).State())
}

// TestUpgradesNonZeroExit tests the best-effort count on a restricted dry run
func (s *CollectorTestSuite) TestUpgradesNonZeroExit() {
	s.runner = newFakeRunner("apt-get")
	s.runner.respond("apt-get -s upgrade", 100, "Inst curl [1] (2 Ubuntu [amd64])\n")
	s.collector = s.newCollector()

	count, ok := s.collector.collectUpgrades(context.Background()).Get()
	s.True(ok)
	s.Equal(1, count)
}

// TestUpgradesExecFailure tests an apt-get that cannot run
func (s *CollectorTestSuite) TestUpgradesExecFailure() {
	s.runner = newFakeRunner("apt-get")
	s.runner.errors["apt-get -s upgrade"] = probe.ErrTimeout
	s.collector = s.newCollector()

	s.Equal(models.StateUnavailable, s.collector.collectUpgrades(context.Background()).State())
}

// TestDockerNotRunning tests an installed CLI with an unreachable daemon
func (s *CollectorTestSuite) TestDockerNotRunning() {
	s.runner = newFakeRunner("docker")
	s.collector = s.newCollector()
	s.collector.dockerPing = func(context.Context) error {
		return errors.New("cannot connect to the Docker daemon")
	}

	s.Equal(models.DockerInstalledNotRunning, s.collector.collectDocker(context.Background()))
}

// TestGopsutilFailures tests that library errors degrade to unavailable facts
func (s *CollectorTestSuite) TestGopsutilFailures() {
	boom := errors.New("boom")
	s.collector.hostInfo = func(context.Context) (*host.InfoStat, error) { return nil, boom }
	s.collector.loadAvg = func(context.Context) (*load.AvgStat, error) { return nil, boom }
	s.collector.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) { return nil, boom }
	s.collector.diskUsage = func(context.Context, string) (*disk.UsageStat, error) { return nil, boom }
	s.collector.osRelease = filepath.Join(s.tempDir, "missing")

	facts := s.collector.Collect(context.Background())

	s.Equal(models.StateUnavailable, facts.Kernel.State())
	s.Equal(models.StateUnavailable, facts.Uptime.State())
	s.Equal(models.StateUnavailable, facts.OS.State())
	s.Equal(models.StateUnavailable, facts.Load.State())
	s.Equal(models.StateUnavailable, facts.Memory.State())
	s.Equal(models.StateUnavailable, facts.Disk.State())
}

func TestCollectorTestSuite(t *testing.T) {
	suite.Run(t, new(CollectorTestSuite))
}

func TestParseMpstatIdle(t *testing.T) {
	idle, err := parseMpstatIdle([]byte(mpstatOutput))
	if err != nil || idle != 89.97 {
		t.Fatalf("idle = %v, err = %v", idle, err)
	}

	idle, err = parseMpstatIdle([]byte("Average:     all    1,00    0,00   97,50\n"))
	if err != nil || idle != 97.5 {
		t.Fatalf("comma decimal: idle = %v, err = %v", idle, err)
	}

	if _, err := parseMpstatIdle([]byte("garbage")); err == nil {
		t.Fatal("expected error for output without Average row")
	}
}

func TestParseTopIdle(t *testing.T) {
	idle, err := parseTopIdle([]byte(topOutput))
	if err != nil || idle != 95.3 {
		t.Fatalf("idle = %v, err = %v", idle, err)
	}

	idle, err = parseTopIdle([]byte("Cpu(s):  2.0%us,  1.0%sy,  0.0%ni, 96.5%id,  0.5%wa\n"))
	if err != nil || idle != 96.5 {
		t.Fatalf("legacy top: idle = %v, err = %v", idle, err)
	}
}

func TestParseDf(t *testing.T) {
	usage, err := parseDf([]byte(dfOutput))
	if err != nil {
		t.Fatal(err)
	}
	if usage.UsedPct != "86%" || usage.Mount != "/" {
		t.Fatalf("unexpected usage %+v", usage)
	}

	if _, err := parseDf([]byte("Filesystem Size Used Avail Use% Mounted on\n")); err == nil {
		t.Fatal("expected error for header-only output")
	}
}

func TestParsePrettyName(t *testing.T) {
	name := parsePrettyName(strings.NewReader("ID=debian\nPRETTY_NAME=\"Debian GNU/Linux 12 (bookworm)\"\n"))
	if name != "Debian GNU/Linux 12 (bookworm)" {
		t.Fatalf("name = %q", name)
	}
	if name := parsePrettyName(strings.NewReader("ID=alpine\n")); name != "" {
		t.Fatalf("name = %q", name)
	}
}

func TestFormatUptime(t *testing.T) {
	cases := map[int64]string{
		59:                 "0m",
		3 * 60:             "3m",
		2*3600 + 5*60:      "2h 5m",
		(26 * 3600) + 60*7: "1d 2h 7m",
	}
	for seconds, want := range cases {
		if got := formatUptime(seconds); got != want {
			t.Errorf("formatUptime(%d) = %q, want %q", seconds, got, want)
		}
	}
}
