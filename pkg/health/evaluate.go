// Package health turns a host facts snapshot into a pass/fail verdict.
package health

import (
	"fmt"
	"strings"

	"hostcheck/pkg/models"
)

// Evaluate applies every check to the facts, in a fixed order, and never stops early.
// Facts that are unavailable or not applicable never produce a failure.
func Evaluate(facts *models.HostFacts, cfg models.ThresholdConfig) *models.Evaluation {
	failures := []string{}

	if ok, present := facts.PingOK.Get(); present && !ok {
		failures = append(failures, fmt.Sprintf("Ping to %s failed", facts.PingTarget))
	}

	if down, present := facts.ServicesDown.Get(); present && len(down) > 0 {
		failures = append(failures, "Services not active: "+strings.Join(down, " "))
	}

	if disk, present := facts.Disk.Get(); present {
		if pct, ok := disk.Percent(); ok && pct > cfg.DiskThresholdPct {
			failures = append(failures, fmt.Sprintf("Root disk usage %s exceeds %d%%", disk.UsedPct, cfg.DiskThresholdPct))
		}
	}

	status := models.StatusHealthy
	if len(failures) > 0 {
		status = models.StatusUnhealthy
	}

	return &models.Evaluation{
		Status:           status,
		Failures:         failures,
		DiskThresholdPct: cfg.DiskThresholdPct,
	}
}
