package diag

import (
	"luedit/internal/source"
)

// Diagnostic is one structured finding about an LU document.
// Range uses 1-based lines and 0-based characters; the zero Range means the
// producer reported no location.
type Diagnostic struct {
	Message  string       `json:"message" yaml:"message" msgpack:"message"`
	Source   string       `json:"source" yaml:"source" msgpack:"source"`
	Severity Severity     `json:"severity" yaml:"severity" msgpack:"severity"`
	Range    source.Range `json:"range" yaml:"range" msgpack:"range"`
	Code     Code         `json:"code,omitempty" yaml:"code,omitempty" msgpack:"code,omitempty"`
}

func New(sev Severity, code Code, rng source.Range, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Range:    rng,
		Message:  msg,
	}
}

func NewError(code Code, rng source.Range, msg string) Diagnostic {
	return New(SevError, code, rng, msg)
}

// WithSource returns a copy of d attributed to the given document id.
func (d Diagnostic) WithSource(src string) Diagnostic {
	d.Source = src
	return d
}
