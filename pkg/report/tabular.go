package report

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// renderTabular writes a markdown document with one table per section.
func renderTabular(doc *Document) (string, error) {
	var sb strings.Builder

	sb.WriteString("# Host Health Check\n\n")
	fmt.Fprintf(&sb, "Generated: %s\n", doc.Timestamp)

	for _, sec := range sections(doc) {
		fmt.Fprintf(&sb, "\n## %s\n\n", sec.title)

		table := tablewriter.NewTable(&sb, tablewriter.WithRenderer(renderer.NewMarkdown()))
		table.Header("Check", "Value")
		for _, r := range sec.rows {
			if err := table.Append(r.label, r.value); err != nil {
				return "", fmt.Errorf("failed to add %q row: %w", r.label, err)
			}
		}
		if err := table.Render(); err != nil {
			return "", fmt.Errorf("failed to render %s table: %w", sec.title, err)
		}
	}

	sb.WriteString("\n## Result\n\n")
	fmt.Fprintf(&sb, "Status: **%s**\n\n", doc.Status)
	for _, failure := range failureLines(doc) {
		fmt.Fprintf(&sb, "- %s\n", failure)
	}

	return sb.String(), nil
}
