package collector

import (
	"context"

	"hostcheck/pkg/log"
	"hostcheck/pkg/models"
)

// collectServices returns the configured services that systemd does not report active.
func (c *Collector) collectServices(ctx context.Context) models.Fact[[]string] {
	if len(c.cfg.Services) == 0 {
		return models.NotApplicable[[]string]()
	}
	if !c.has("systemctl") {
		return models.Unavailable[[]string]()
	}

	down := []string{}
	for _, svc := range c.cfg.Services {
		result, err := c.run(ctx, "systemctl", "is-active", "--quiet", svc)
		if err != nil || !result.OK() {
			log.Info().Err(err).Str("service", svc).Msg("Service not active")
			down = append(down, svc)
		}
	}

	return models.Present(down)
}
