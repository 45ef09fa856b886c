package collector

import (
	"context"
	"errors"
	"math"
	"strconv"

	"hostcheck/pkg/log"
	"hostcheck/pkg/models"
	"hostcheck/pkg/probe"
)

// collectPing sends a single probe to the configured target.
// Present(false) means the target did not answer; Unavailable means ping could not be used.
func (c *Collector) collectPing(ctx context.Context) models.Fact[bool] {
	target := c.cfg.PingTarget
	if target == "" {
		return models.NotApplicable[bool]()
	}
	if !c.has("ping") {
		return models.Unavailable[bool]()
	}

	waitSeconds := int(math.Ceil(c.opts.PingTimeout.Seconds()))
	if waitSeconds < 1 {
		waitSeconds = 1
	}

	result, err := c.runner.Run(ctx, probe.Command{
		Name: "ping",
		Args: []string{"-c", "1", "-W", strconv.Itoa(waitSeconds), target},
		// ping enforces -W itself; the extra second covers name resolution
		Timeout: c.opts.PingTimeout + pingGrace,
	})
	switch {
	case errors.Is(err, probe.ErrTimeout):
		log.Info().Str("target", target).Msg("Ping timed out")
		return models.Present(false)
	case err != nil:
		log.Warn().Err(err).Str("target", target).Msg("Ping could not be executed")
		return models.Unavailable[bool]()
	}

	ok := result.OK()
	if !ok {
		log.Info().Str("target", target).Int("exit_code", result.ExitCode).Msg("Ping failed")
	}
	return models.Present(ok)
}
