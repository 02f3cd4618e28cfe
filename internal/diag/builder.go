package diag

import "luedit/internal/source"

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, sev Severity, code Code, rng source.Range, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag:     New(sev, code, rng, msg),
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, rng source.Range, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, rng, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, rng source.Range, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, rng, msg)
}

// ReportInfo is a shortcut for SevInfo diagnostics.
func ReportInfo(r Reporter, code Code, rng source.Range, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, rng, msg)
}

// WithSource sets the document id the diagnostic belongs to.
func (b *ReportBuilder) WithSource(src string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Source = src
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}
