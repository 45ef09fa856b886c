// Package report renders host facts and their evaluation for operators and automation.
package report

import (
	"fmt"
	"strings"

	"hostcheck/pkg/models"
)

// Render encodes the facts and evaluation in the requested format.
// Identical inputs always produce identical output.
func Render(facts *models.HostFacts, eval *models.Evaluation, format models.Format) (string, error) {
	doc := NewDocument(facts, eval)

	switch format {
	case models.FormatStructured:
		return renderJSON(doc)
	case models.FormatYAML:
		return renderYAML(doc)
	case models.FormatTabular:
		return renderTabular(doc)
	case models.FormatCombined:
		return renderCombined(doc)
	default:
		return renderPlain(doc), nil
	}
}

func renderCombined(doc *Document) (string, error) {
	tabular, err := renderTabular(doc)
	if err != nil {
		return "", err
	}
	structured, err := renderJSON(doc)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(tabular)
	sb.WriteString("\n## Structured\n\n```json\n")
	sb.WriteString(structured)
	sb.WriteString("```\n")
	return sb.String(), nil
}

// row is one labelled value in the human readable formats.
type row struct {
	label string
	value string
}

// section groups rows under a heading.
type section struct {
	title string
	rows  []row
}

// sections lays out a document for the tabular and plain formats.
func sections(doc *Document) []section {
	return []section{
		{
			title: "System",
			rows: []row{
				{"Hostname", doc.Host.String()},
				{"OS", doc.OS.String()},
				{"Kernel", doc.Kernel.String()},
				{"Uptime", doc.Uptime.String()},
				{"Boot time", doc.BootTime.String()},
			},
		},
		{
			title: "Resources",
			rows: []row{
				{"Load average (1m/5m/15m)", fmt.Sprintf("%s / %s / %s", doc.LoadAvg.Load1, doc.LoadAvg.Load5, doc.LoadAvg.Load15)},
				{"CPU usage", withSuffix(doc.CPUUsage, "%")},
				{"Memory used", withSuffix(doc.Memory.UsedPct, "%")},
				{"Memory used (kB)", fmt.Sprintf("%s / %s", doc.Memory.UsedKB, doc.Memory.TotalKB)},
			},
		},
		{
			title: "Disk (/)",
			rows: []row{
				{"Filesystem", doc.DiskRoot.Filesystem.String()},
				{"Size", doc.DiskRoot.Size.String()},
				{"Used", doc.DiskRoot.Used.String()},
				{"Available", doc.DiskRoot.Avail.String()},
				{"Use%", doc.DiskRoot.UsedPct.String()},
				{"Threshold", fmt.Sprintf("%d%%", doc.DiskRoot.ThresholdPct)},
			},
		},
		{
			title: "Network",
			rows: []row{
				{"Ping target", orMarker(doc.Network.PingHost, models.NotApplicableToken)},
				{"Ping ok", doc.Network.PingOK.String()},
			},
		},
		{
			title: "Services",
			rows: []row{
				{"Checked", orMarker(strings.Join(doc.Services.Checked, " "), "none")},
				{"Down", doc.Services.Down.String()},
			},
		},
		{
			title: "Packages & containers",
			rows: []row{
				{"Upgrades pending", doc.Packages.UpgradesPending.String()},
				{"Docker", doc.Docker},
			},
		},
	}
}

// withSuffix appends a unit to present values only.
func withSuffix[T any](f models.Fact[T], suffix string) string {
	if f.IsPresent() {
		return f.String() + suffix
	}
	return f.String()
}

func orMarker(s, marker string) string {
	if s == "" {
		return marker
	}
	return s
}

func failureLines(doc *Document) []string {
	if len(doc.Failures) == 0 {
		return []string{"none"}
	}
	return doc.Failures
}
