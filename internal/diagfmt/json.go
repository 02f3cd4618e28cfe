package diagfmt

import (
	"encoding/json"
	"io"
	"sort"

	"luedit/internal/diag"
	"luedit/internal/source"
)

// LocationJSON is a 1-based line/column location. Omitted when the
// diagnostic has no location.
type LocationJSON struct {
	File      string `json:"file"`
	StartLine int    `json:"start_line,omitempty"`
	StartCol  int    `json:"start_col,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
	EndCol    int    `json:"end_col,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Source   string       `json:"source,omitempty"`
	Location LocationJSON `json:"location"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
}

func makeLocation(path string, rng source.Range) LocationJSON {
	loc := LocationJSON{File: path}
	if rng.IsZero() {
		return loc
	}
	loc.StartLine = rng.Start.Line
	loc.StartCol = rng.Start.Character + 1
	loc.EndLine = rng.End.Line
	loc.EndCol = rng.End.Character + 1
	return loc
}

// Append adds the diagnostics of one file to out, stopping at opts.Max
// entries in total.
func Append(out *DiagnosticsOutput, file *source.File, diags []diag.Diagnostic, opts JSONOpts) {
	path := file.FormatPath(opts.PathMode.String(), opts.BaseDir)

	sorted := append([]diag.Diagnostic(nil), diags...)
	sort.SliceStable(sorted, func(i, j int) bool { return diag.Less(sorted[i], sorted[j]) })

	for _, d := range sorted {
		if opts.Max > 0 && len(out.Diagnostics) >= opts.Max {
			break
		}
		out.Diagnostics = append(out.Diagnostics, DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Source:   d.Source,
			Location: makeLocation(path, d.Range),
		})
		if d.Severity == diag.SevError {
			out.Errors++
		}
	}
	out.Count = len(out.Diagnostics)
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(file *source.File, diags []diag.Diagnostic, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(diags))}
	Append(&out, file, diags, opts)
	return out
}

// WriteJSON writes out as indented JSON.
func WriteJSON(w io.Writer, out DiagnosticsOutput) error {
	if out.Diagnostics == nil {
		out.Diagnostics = []DiagnosticJSON{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// JSON форматирует диагностики одного файла в JSON.
func JSON(w io.Writer, file *source.File, diags []diag.Diagnostic, opts JSONOpts) error {
	return WriteJSON(w, BuildDiagnosticsOutput(file, diags, opts))
}
