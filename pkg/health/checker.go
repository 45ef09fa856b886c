package health

import (
	"context"

	"hostcheck/pkg/log"
	"hostcheck/pkg/models"
)

// FactSource produces a complete host facts snapshot.
type FactSource interface {
	Collect(ctx context.Context) *models.HostFacts
}

// Checker runs one collection and evaluates it.
type Checker struct {
	source FactSource
	cfg    models.ThresholdConfig
}

// NewChecker creates a checker evaluating snapshots from source against cfg.
func NewChecker(source FactSource, cfg models.ThresholdConfig) *Checker {
	return &Checker{source: source, cfg: cfg}
}

// Run collects facts and evaluates them. Evaluation starts only once the snapshot is complete.
func (c *Checker) Run(ctx context.Context) (*models.HostFacts, *models.Evaluation) {
	facts := c.source.Collect(ctx)
	eval := Evaluate(facts, c.cfg)

	event := log.Info()
	if !eval.Healthy() {
		event = log.Warn()
	}
	event.
		Str("status", string(eval.Status)).
		Strs("failures", eval.Failures).
		Msg("Health check evaluated")

	return facts, eval
}

// Thresholds returns the configuration the checker evaluates against.
func (c *Checker) Thresholds() models.ThresholdConfig {
	return c.cfg
}
