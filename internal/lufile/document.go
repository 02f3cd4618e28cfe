package lufile

import (
	"slices"

	"luedit/internal/diag"
	"luedit/internal/parser"
)

// PlaceholderSectionName names a section that an inline editor has not
// written to the document yet.
const PlaceholderSectionName = "_NewSectionPlaceHolderSectionName"

// Range is the line span of an intent in its document.
type Range struct {
	StartLine int `json:"startLine" yaml:"startLine"`
	EndLine   int `json:"endLine" yaml:"endLine"`
}

// IntentSection is one intent as seen by callers. Children is set only for
// nested groups.
type IntentSection struct {
	Name     string          `json:"name" yaml:"name"`
	Body     string          `json:"body" yaml:"body"`
	Entities []string        `json:"entities,omitempty" yaml:"entities,omitempty"`
	Range    Range           `json:"range" yaml:"range"`
	Children []IntentSection `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsEmpty reports whether the intent carries nothing. Edits treat an empty
// intent as a request to delete.
func (s *IntentSection) IsEmpty() bool {
	return s == nil || (s.Name == "" && s.Body == "" && s.Entities == nil && s.Children == nil && s.Range == Range{})
}

// Document is a parsed LU document.
type Document struct {
	ID          string            `json:"id" yaml:"id"`
	Content     string            `json:"content" yaml:"content"`
	Empty       bool              `json:"empty" yaml:"empty"`
	Intents     []IntentSection   `json:"intents" yaml:"intents"`
	Diagnostics []diag.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// Intent returns the intent with the given name from the flattened list.
// Composite names find nested children.
func (d *Document) Intent(name string) (IntentSection, bool) {
	for _, it := range d.Intents {
		if it.Name == name {
			return it, true
		}
	}
	return IntentSection{}, false
}

// TopLevel returns the intents of d without the flattened "Parent/Child"
// copies of nested children.
func (d *Document) TopLevel() []IntentSection {
	flattened := make(map[string]struct{})
	for _, it := range d.Intents {
		for _, c := range it.Children {
			flattened[JoinName(it.Name, c.Name)] = struct{}{}
		}
	}
	out := make([]IntentSection, 0, len(d.Intents))
	for _, it := range d.Intents {
		if _, ok := flattened[it.Name]; ok {
			continue
		}
		out = append(out, it)
	}
	return out
}

// HasErrors reports whether any diagnostic is an error.
func (d *Document) HasErrors() bool {
	return !IsValid(d.Diagnostics)
}

// Parse parses content with default options and builds a Document.
func Parse(id, content string) *Document {
	return ParseWith(id, content, parser.Options{})
}

// ParseWith is Parse with explicit parser options.
func ParseWith(id, content string, opts parser.Options) *Document {
	if opts.Path == "" {
		opts.Path = id
	}
	return FromResource(id, parser.Parse(content, opts))
}

// FromResource builds a Document from one parse. Nested children appear
// both inside their parent and, under "Parent/Child", in the flat list.
func FromResource(id string, res *parser.Resource) *Document {
	intents := make([]IntentSection, 0, len(res.Sections))
	for _, s := range res.Sections {
		switch s.Kind {
		case parser.SimpleIntent:
			intents = append(intents, intentFrom(s))
		case parser.NestedIntentGroup:
			children := make([]IntentSection, 0, len(s.Children))
			for _, c := range s.Children {
				children = append(children, intentFrom(c))
			}
			intents = append(intents, IntentSection{
				Name:     s.Name,
				Body:     s.Body,
				Range:    Range{StartLine: s.StartLine, EndLine: s.EndLine},
				Children: children,
			})
			for _, c := range children {
				flat := c
				flat.Name = JoinName(s.Name, c.Name)
				flat.Entities = slices.Clone(c.Entities)
				intents = append(intents, flat)
			}
		}
	}

	diags := make([]diag.Diagnostic, 0, len(res.Errors))
	for _, e := range res.Errors {
		diags = append(diags, ConvertDiagnostic(e, id))
	}

	return &Document{
		ID:          id,
		Content:     res.Content,
		Empty:       len(res.Sections) == 0,
		Intents:     intents,
		Diagnostics: diags,
	}
}

func intentFrom(s *parser.Section) IntentSection {
	return IntentSection{
		Name:     s.Name,
		Body:     s.Body,
		Entities: slices.Clone(s.Entities),
		Range:    Range{StartLine: s.StartLine, EndLine: s.EndLine},
	}
}

// IsValid reports whether none of diags is an error.
func IsValid(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.SevError {
			return false
		}
	}
	return true
}
