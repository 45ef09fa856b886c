package collector

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"hostcheck/pkg/log"
	"hostcheck/pkg/models"
)

// collectUpgrades counts the packages an apt upgrade would install.
// The dry run needs no privileges; a failing run still yields the lines it printed.
func (c *Collector) collectUpgrades(ctx context.Context) models.Fact[int] {
	if !c.has("apt-get") {
		return models.Unavailable[int]()
	}

	result, err := c.run(ctx, "apt-get", "-s", "upgrade")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to run apt-get dry run")
		return models.Unavailable[int]()
	}
	if !result.OK() {
		log.Debug().
			Int("exit_code", result.ExitCode).
			Str("stderr", strings.TrimSpace(string(result.Stderr))).
			Msg("apt-get dry run exited non-zero, counting partial output")
	}

	return models.Present(countPendingUpgrades(result.Stdout))
}

func countPendingUpgrades(out []byte) int {
	count := 0
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "Inst ") {
			count++
		}
	}
	return count
}
