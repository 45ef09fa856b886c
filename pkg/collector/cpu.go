package collector

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"hostcheck/pkg/log"
	"hostcheck/pkg/models"
)

var (
	errNoIdleValue = errors.New("no idle value in output")

	topIdlePattern = regexp.MustCompile(`([0-9]+[.,]?[0-9]*)\s*%?\s*id`)
)

// cpuStrategy measures CPU usage with one external utility.
type cpuStrategy struct {
	name  string
	args  []string
	parse func([]byte) (float64, error)
}

var cpuStrategies = []cpuStrategy{
	{name: "mpstat", args: []string{"1", "1"}, parse: parseMpstatIdle},
	{name: "top", args: []string{"-bn1"}, parse: parseTopIdle},
}

// collectCPU estimates CPU usage from the first strategy that yields a value.
func (c *Collector) collectCPU(ctx context.Context) models.Fact[float64] {
	for _, strategy := range cpuStrategies {
		if !c.has(strategy.name) {
			continue
		}

		result, err := c.run(ctx, strategy.name, strategy.args...)
		if err != nil || !result.OK() {
			log.Debug().Err(err).Str("strategy", strategy.name).Msg("CPU strategy failed")
			continue
		}

		idle, err := strategy.parse(result.Stdout)
		if err != nil {
			log.Debug().Err(err).Str("strategy", strategy.name).Msg("CPU strategy output not understood")
			continue
		}

		return models.Present(clampPercent(100 - idle))
	}

	return models.Unavailable[float64]()
}

// parseMpstatIdle returns %idle from the "Average:" summary row.
func parseMpstatIdle(out []byte) (float64, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "Average") {
			continue
		}
		if strings.Contains(fields[len(fields)-1], "idle") {
			continue
		}
		return parseDecimal(fields[len(fields)-1])
	}
	return 0, errNoIdleValue
}

// parseTopIdle returns the "id" value from the %Cpu(s) summary line.
func parseTopIdle(out []byte) (float64, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "Cpu") {
			continue
		}
		match := topIdlePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		return parseDecimal(match[1])
	}
	return 0, errNoIdleValue
}

// parseDecimal accepts both "." and "," decimal separators.
func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
