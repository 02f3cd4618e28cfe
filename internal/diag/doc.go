// Package diag defines the diagnostic model shared by the parser, the
// document layer and every consumer (CLI, language server, gateway).
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Message – human oriented text; keep it short and actionable.
//   - Source – id of the document the finding belongs to.
//   - Severity – Error, Warning, Information or Hint, numbered like the
//     language server protocol so values pass through unchanged.
//   - Range – 1-based lines, 0-based characters; the zero Range means
//     "no location".
//   - Code – compact numeric identifier with a stable string form.
//
// # Emitting diagnostics
//
// Producers use a diag.Reporter to decouple emission from storage.
// ReportBuilder (or ReportError/ReportWarning/ReportInfo) builds one record
// and Emit sends it exactly once. BagReporter aggregates into a Bag, which
// supports limits, sorting, deduplication and filtering.
//
// Package diag does not perform IO or pretty printing; rendering lives in
// internal/diagfmt.
package diag
