package collector

import (
	"context"
	"math"

	"hostcheck/pkg/log"
	"hostcheck/pkg/models"
)

const kbToBytes = 1024

// collectLoad reads the 1, 5 and 15 minute load averages.
func (c *Collector) collectLoad(ctx context.Context) models.Fact[models.LoadAverages] {
	avg, err := c.loadAvg(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to collect load average")
		return models.Unavailable[models.LoadAverages]()
	}

	return models.Present(models.LoadAverages{
		Load1:  avg.Load1,
		Load5:  avg.Load5,
		Load15: avg.Load15,
	})
}

// collectMemory reports used memory as total minus available.
func (c *Collector) collectMemory(ctx context.Context) models.Fact[models.MemoryUsage] {
	vm, err := c.virtualMemory(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to collect memory statistics")
		return models.Unavailable[models.MemoryUsage]()
	}
	if vm.Total == 0 {
		return models.Unavailable[models.MemoryUsage]()
	}

	available := vm.Available
	if available > vm.Total {
		available = vm.Total
	}
	used := vm.Total - available

	return models.Present(models.MemoryUsage{
		UsedPct: math.Round(float64(used)/float64(vm.Total)*1000) / 10,
		UsedKB:  used / kbToBytes,
		TotalKB: vm.Total / kbToBytes,
	})
}
