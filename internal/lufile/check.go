package lufile

import (
	"luedit/internal/diag"
	"luedit/internal/parser"
)

// CheckSection renders intent on its own and returns the diagnostics of
// parsing that text. Diagnostics carry an empty source.
func CheckSection(intent IntentSection, enableSections bool) []diag.Diagnostic {
	res := parser.Parse(RenderIntent(&intent, 1, enableSections), parser.Options{})
	out := make([]diag.Diagnostic, 0, len(res.Errors))
	for _, e := range res.Errors {
		out = append(out, ConvertDiagnostic(e, ""))
	}
	return out
}

// CheckIsSingleSection reports whether intent renders to exactly one
// intent section.
func CheckIsSingleSection(intent IntentSection, enableSections bool) bool {
	res := parser.Parse(RenderIntent(&intent, 1, enableSections), parser.Options{})
	return len(res.Intents()) == 1
}
