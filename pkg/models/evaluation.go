package models

import "strings"

// Status is the overall verdict of a run.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Format selects the report encoding.
type Format string

const (
	FormatStructured Format = "structured"
	FormatTabular    Format = "tabular"
	FormatPlain      Format = "plain"
	FormatCombined   Format = "combined"
	FormatYAML       Format = "yaml"
)

// ParseFormat maps a user supplied selector to a Format.
// The second return is false when the selector is unknown; plain is returned in that case.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "structured", "json":
		return FormatStructured, true
	case "tabular", "markdown", "table", "md":
		return FormatTabular, true
	case "plain", "text":
		return FormatPlain, true
	case "combined", "":
		return FormatCombined, true
	case "yaml", "yml":
		return FormatYAML, true
	default:
		return FormatPlain, false
	}
}

// ThresholdConfig holds the limits and targets a run is checked against.
type ThresholdConfig struct {
	DiskThresholdPct int
	PingTarget       string
	Services         []string
	Format           Format
}

// Evaluation is the verdict derived from a HostFacts snapshot.
// Status is unhealthy if and only if Failures is non-empty.
type Evaluation struct {
	Status           Status
	Failures         []string
	DiskThresholdPct int
}

// Healthy reports whether the evaluation passed.
func (e *Evaluation) Healthy() bool {
	return e.Status == StatusHealthy
}
