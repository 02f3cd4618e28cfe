// Package section patches the raw text of an LU document one top-level
// section at a time. Every operation returns a fresh parse of the patched
// text; bytes outside the touched span are copied verbatim.
package section

import (
	"errors"
	"fmt"
	"strings"

	"luedit/internal/parser"
)

// NewLine joins every piece of text the operator constructs.
const NewLine = "\r\n"

// ErrSectionNotFound is returned when a section id does not exist in the resource.
var ErrSectionNotFound = errors.New("section not found")

// Operator applies text patches to the document a Resource was parsed from.
type Operator struct {
	res  *parser.Resource
	opts parser.Options
}

// NewOperator binds an operator to res. Results are parsed with opts.
func NewOperator(res *parser.Resource, opts parser.Options) *Operator {
	return &Operator{res: res, opts: opts}
}

// AddSection appends text after the last byte of the document. A missing
// final line break is restored first; text is added verbatim.
func (o *Operator) AddSection(text string) *parser.Resource {
	content := o.res.Content
	if content == "" {
		return o.reparse(strings.TrimPrefix(text, NewLine))
	}
	if !strings.HasSuffix(content, "\n") {
		content += NewLine
	}
	return o.reparse(content + text)
}

// UpdateSection replaces the span of section id with text. An empty text
// deletes the section.
func (o *Operator) UpdateSection(id, text string) (*parser.Resource, error) {
	s, ok := o.res.Section(id)
	if !ok {
		return nil, fmt.Errorf("update %q: %w", id, ErrSectionNotFound)
	}
	if text == "" {
		return o.deleteSpan(s), nil
	}
	content := o.res.Content
	start, end := s.Span.Start, s.Span.End
	if end > start && content[end-1] == '\n' && !strings.HasSuffix(text, "\n") {
		text += NewLine
	}
	return o.reparse(content[:start] + text + content[end:]), nil
}

// DeleteSection removes section id together with the blank lines separating
// it from its neighbour.
func (o *Operator) DeleteSection(id string) (*parser.Resource, error) {
	s, ok := o.res.Section(id)
	if !ok {
		return nil, fmt.Errorf("delete %q: %w", id, ErrSectionNotFound)
	}
	return o.deleteSpan(s), nil
}

func (o *Operator) deleteSpan(s *parser.Section) *parser.Resource {
	content := o.res.Content
	start, end := int(s.Span.Start), int(s.Span.End)

	// сначала съедаем пустые строки после секции, для последней секции
	// съедаем пустые строки перед ней
	after := skipBlankLines(content, end)
	if after < len(content) {
		end = after
	} else {
		start = blankLinesBefore(content, start)
		end = len(content)
	}
	return o.reparse(content[:start] + content[end:])
}

func (o *Operator) reparse(content string) *parser.Resource {
	return parser.Parse(content, o.opts)
}

// skipBlankLines returns the offset of the first non-blank line at or after off.
func skipBlankLines(content string, off int) int {
	for off < len(content) {
		nl := strings.IndexByte(content[off:], '\n')
		line := content[off:]
		if nl >= 0 {
			line = content[off : off+nl]
		}
		if strings.TrimSpace(line) != "" {
			return off
		}
		if nl < 0 {
			return len(content)
		}
		off += nl + 1
	}
	return off
}

// blankLinesBefore walks back from a line start over preceding blank lines
// and returns the start of the earliest one. It stops after the terminator
// of the previous non-blank line.
func blankLinesBefore(content string, off int) int {
	for off > 0 {
		prevEnd := off - 1 // '\n' предыдущей строки
		prevStart := strings.LastIndexByte(content[:prevEnd], '\n') + 1
		if strings.TrimSpace(content[prevStart:prevEnd]) != "" {
			return off
		}
		off = prevStart
	}
	return off
}
