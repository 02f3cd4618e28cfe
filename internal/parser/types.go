package parser

import (
	"luedit/internal/diag"
	"luedit/internal/source"
)

// SectionKind classifies a parsed section.
type SectionKind uint8

const (
	SimpleIntent SectionKind = iota
	NestedIntentGroup
	ModelInfo
)

func (k SectionKind) String() string {
	switch k {
	case SimpleIntent:
		return "SimpleIntent"
	case NestedIntentGroup:
		return "NestedIntentGroup"
	case ModelInfo:
		return "ModelInfo"
	}
	return "SectionKind(?)"
}

// Raw severities as the parser reports them.
const (
	SeverityError       = "ERROR"
	SeverityWarn        = "WARN"
	SeverityInformation = "INFORMATION"
	SeverityHint        = "HINT"
)

// Error is one raw parser finding. Range is nil when the parser has no
// location for it.
type Error struct {
	Message  string
	Severity string
	Range    *source.Range
	Code     diag.Code
}

// Section is one heading-delimited block of the document.
//
// Span covers the heading line through the terminator of the last non-blank
// line of the section. Blank lines after it are the gap to the next section
// and are not part of any span.
type Section struct {
	ID         string
	Kind       SectionKind
	Name       string
	Body       string // текст после заголовка, без хвостовых пустых строк
	Entities   []string
	Utterances []string
	Children   []*Section // только для NestedIntentGroup
	Level      int
	StartLine  int
	EndLine    int
	Span       source.Span
}

// Range returns the line range of the section.
func (s *Section) Range() source.Range {
	return source.Range{
		Start: source.Position{Line: s.StartLine},
		End:   source.Position{Line: s.EndLine},
	}
}

// IsIntent reports whether the section is addressable by intent name.
func (s *Section) IsIntent() bool {
	return s.Kind == SimpleIntent || s.Kind == NestedIntentGroup
}

// Child returns the child section with the given name.
func (s *Section) Child(name string) (*Section, bool) {
	for _, c := range s.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Resource is the result of one parse. It is not meant to outlive the
// operation that produced it.
type Resource struct {
	Content         string
	File            *source.File
	Sections        []*Section
	Errors          []Error
	SectionsEnabled bool
}

// Section returns the top-level section with the given id.
func (r *Resource) Section(id string) (*Section, bool) {
	for _, s := range r.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Intents returns the sections addressable by intent name, in order.
func (r *Resource) Intents() []*Section {
	out := make([]*Section, 0, len(r.Sections))
	for _, s := range r.Sections {
		if s.IsIntent() {
			out = append(out, s)
		}
	}
	return out
}

// HasErrors reports whether any ERROR-level finding was recorded.
func (r *Resource) HasErrors() bool {
	for _, e := range r.Errors {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}
