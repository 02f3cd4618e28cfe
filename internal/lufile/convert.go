package lufile

import (
	"fmt"

	"luedit/internal/diag"
	"luedit/internal/parser"
	"luedit/internal/source"
)

var severityTable = map[string]diag.Severity{
	parser.SeverityError:       diag.SevError,
	parser.SeverityWarn:        diag.SevWarning,
	parser.SeverityInformation: diag.SevInfo,
	parser.SeverityHint:        diag.SevHint,
}

// ConvertDiagnostic turns a raw parser finding into a Diagnostic attributed
// to src. A finding without a range gets the zero range.
//
// An unknown severity panics in builds tagged "debug"; otherwise it is
// reported as an error.
func ConvertDiagnostic(raw parser.Error, src string) diag.Diagnostic {
	sev, ok := severityTable[raw.Severity]
	if !ok {
		if strictSeverity {
			panic(fmt.Sprintf("lufile: unmapped parser severity %q", raw.Severity))
		}
		sev = diag.SevError
	}
	var rng source.Range
	if raw.Range != nil {
		rng = *raw.Range
	}
	return diag.Diagnostic{
		Message:  raw.Message,
		Source:   src,
		Severity: sev,
		Range:    rng,
		Code:     raw.Code,
	}
}
