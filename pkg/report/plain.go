package report

import (
	"fmt"
	"strings"
)

// renderPlain writes one "Label: value" line per field.
func renderPlain(doc *Document) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Host Health Check - %s\n", doc.Timestamp)
	fmt.Fprintf(&sb, "Status: %s\n", doc.Status)

	for _, sec := range sections(doc) {
		for _, r := range sec.rows {
			fmt.Fprintf(&sb, "%s: %s\n", r.label, r.value)
		}
	}

	fmt.Fprintf(&sb, "Failures: %s\n", strings.Join(failureLines(doc), "; "))
	return sb.String()
}
