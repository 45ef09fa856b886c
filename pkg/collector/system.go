package collector

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"hostcheck/pkg/log"
	"hostcheck/pkg/models"

	"github.com/shirou/gopsutil/v3/host"
)

const bootTimeLayout = "2006-01-02 15:04"

type systemFacts struct {
	hostname models.Fact[string]
	os       models.Fact[string]
	kernel   models.Fact[string]
	uptime   models.Fact[string]
	bootTime models.Fact[string]
}

// collectSystem gathers identity and uptime facts.
func (c *Collector) collectSystem(ctx context.Context) systemFacts {
	facts := systemFacts{
		hostname: models.Unavailable[string](),
		os:       models.Unavailable[string](),
		kernel:   models.Unavailable[string](),
		uptime:   models.Unavailable[string](),
		bootTime: models.Unavailable[string](),
	}

	info, err := c.hostInfo(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to collect host information")
		info = &host.InfoStat{}
	}

	hostname := info.Hostname
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	if hostname != "" {
		facts.hostname = models.Present(hostname)
	}

	if info.KernelVersion != "" {
		facts.kernel = models.Present(info.KernelVersion)
	}

	if info.BootTime > 0 {
		// #nosec G115 - uptime and epoch seconds fit in int64
		facts.uptime = models.Present(formatUptime(int64(info.Uptime)))
		bootTime := time.Unix(int64(info.BootTime), 0) // #nosec G115
		facts.bootTime = models.Present(bootTime.Format(bootTimeLayout))
	}

	name := c.readOSName()
	if name == "" {
		name = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
	}
	if name != "" {
		facts.os = models.Present(name)
	}

	return facts
}

// readOSName returns PRETTY_NAME from os-release, or "" when it cannot be read.
func (c *Collector) readOSName() string {
	file, err := os.Open(c.osRelease)
	if err != nil {
		log.Debug().Err(err).Str("path", c.osRelease).Msg("os-release not readable")
		return ""
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close os-release file")
		}
	}()

	return parsePrettyName(file)
}

func parsePrettyName(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		value, ok := strings.CutPrefix(line, "PRETTY_NAME=")
		if !ok {
			continue
		}
		if unquoted, err := strconv.Unquote(value); err == nil {
			return unquoted
		}
		return strings.Trim(value, `"'`)
	}
	return ""
}

// formatUptime converts seconds to human-readable format.
func formatUptime(seconds int64) string {
	duration := time.Duration(seconds) * time.Second
	const hoursInDay = 24
	const minutesInHour = 60
	days := int(duration.Hours()) / hoursInDay
	hours := int(duration.Hours()) % hoursInDay
	minutes := int(duration.Minutes()) % minutesInHour

	switch {
	case days > 0:
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
	case hours > 0:
		return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
	default:
		return strconv.Itoa(minutes) + "m"
	}
}
