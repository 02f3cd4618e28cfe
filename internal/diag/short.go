package diag

import (
	"fmt"
	"sort"
	"strings"
)

// FormatShort renders diagnostics into a stable, single-line-per-entry
// representation: "<severity> <code> <path>:<line>:<col> <message>".
// Columns are printed 1-based. Output is sorted and empty when nothing is left.
func FormatShort(diags []Diagnostic, path string) string {
	if len(diags) == 0 {
		return ""
	}
	sorted := make([]Diagnostic, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool { return Less(sorted[i], sorted[j]) })

	var b strings.Builder
	for i, d := range sorted {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s",
			severityLabel(d.Severity), d.Code.ID(), path,
			d.Range.Start.Line, d.Range.Start.Character+1, sanitizeMessage(d.Message))
		if i < len(sorted)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevHint:
		return "hint"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
