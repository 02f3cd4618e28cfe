// Package testkit holds consistency checks shared by tests and fuzz
// harnesses.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"luedit/internal/lufile"
	"luedit/internal/parser"
	"luedit/internal/source"
	"luedit/internal/token"
)

// CheckTokenInvariants verifies that the line tokens of a file tile its
// content: each token starts where the previous one ended, Text is the
// line without terminator, lines are numbered 1, 2, ... and the trailing
// EOF sits at the end of the content.
func CheckTokenInvariants(file *source.File, toks []token.Token) error {
	if file == nil {
		return fmt.Errorf("nil file")
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		return fmt.Errorf("token stream does not end with EOF")
	}
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var off uint32
	for i, tok := range toks {
		if tok.Span.Start != off {
			return fmt.Errorf("token %d starts at %d, want %d", i, tok.Span.Start, off)
		}
		if tok.Kind == token.EOF {
			if i != len(toks)-1 || tok.Span.Start != size {
				return fmt.Errorf("EOF token %d at %d (content %d bytes, %d tokens)", i, tok.Span.Start, size, len(toks))
			}
			return nil
		}
		if tok.Span.End < tok.Span.Start || tok.Next < tok.Span.End || tok.Next > size {
			return fmt.Errorf("token %d has bad bounds %v next=%d", i, tok.Span, tok.Next)
		}
		if tok.Next == tok.Span.Start {
			return fmt.Errorf("token %d consumes nothing", i)
		}
		if tok.Line != i+1 {
			return fmt.Errorf("token %d is on line %d", i, tok.Line)
		}
		if got := string(file.Content[tok.Span.Start:tok.Span.End]); got != tok.Text {
			return fmt.Errorf("token %d text %q does not match source %q", i, tok.Text, got)
		}
		if strings.ContainsAny(tok.Text, "\n") {
			return fmt.Errorf("token %d text holds a line break", i)
		}
		off = tok.Next
	}
	return nil
}

// CheckResourceInvariants verifies section spans of one parse:
// 1) every span is non-empty and inside the content
// 2) top-level spans are ordered and do not overlap
// 3) StartLine <= EndLine and line numbers agree with span offsets
// 4) children lie inside their group, in order
func CheckResourceInvariants(res *parser.Resource) error {
	if res == nil || res.File == nil {
		return fmt.Errorf("nil resource or file")
	}
	size, err := safecast.Conv[uint32](len(res.File.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var prevEnd uint32
	for i, s := range res.Sections {
		if err := checkSection(res.File, s, size); err != nil {
			return fmt.Errorf("section %d (%q): %w", i, s.Name, err)
		}
		if s.Span.Start < prevEnd {
			return fmt.Errorf("section %d (%q) span %v overlaps previous end %d", i, s.Name, s.Span, prevEnd)
		}
		prevEnd = s.Span.End

		if len(s.Children) > 0 && s.Kind != parser.NestedIntentGroup {
			return fmt.Errorf("section %d (%q) of kind %s has children", i, s.Name, s.Kind)
		}
		childEnd := s.Span.Start
		for j, c := range s.Children {
			if err := checkSection(res.File, c, size); err != nil {
				return fmt.Errorf("child %d of %q: %w", j, s.Name, err)
			}
			if c.Span.Start < childEnd || c.Span.End > s.Span.End {
				return fmt.Errorf("child %q span %v is outside group %v", c.Name, c.Span, s.Span)
			}
			childEnd = c.Span.End
		}
	}
	return nil
}

func checkSection(file *source.File, s *parser.Section, size uint32) error {
	if s.Span.Empty() {
		return fmt.Errorf("empty span")
	}
	if s.Span.End > size {
		return fmt.Errorf("span %v beyond content (%d bytes)", s.Span, size)
	}
	if s.StartLine < 1 || s.EndLine < s.StartLine {
		return fmt.Errorf("bad lines %d..%d", s.StartLine, s.EndLine)
	}
	if got := file.PositionAt(s.Span.Start).Line; got != s.StartLine {
		return fmt.Errorf("span starts on line %d, section says %d", got, s.StartLine)
	}
	return nil
}

// CheckDocumentInvariants verifies that a Document agrees with itself:
// an Empty document has no intents, every nested child is flattened right
// after its group and diagnostics carry doc.ID as source.
func CheckDocumentInvariants(doc *lufile.Document) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	if doc.Empty && len(doc.Intents) > 0 {
		return fmt.Errorf("empty document has %d intents", len(doc.Intents))
	}
	for i := 0; i < len(doc.Intents); i++ {
		it := doc.Intents[i]
		if it.Range.StartLine > it.Range.EndLine {
			return fmt.Errorf("intent %q range %d..%d", it.Name, it.Range.StartLine, it.Range.EndLine)
		}
		for j, c := range it.Children {
			k := i + 1 + j
			if k >= len(doc.Intents) {
				return fmt.Errorf("child %q of %q is not flattened", c.Name, it.Name)
			}
			flat := doc.Intents[k]
			if want := lufile.JoinName(it.Name, c.Name); flat.Name != want {
				return fmt.Errorf("intent %d is %q, want %q", k, flat.Name, want)
			}
			if flat.Body != c.Body || flat.Range != c.Range {
				return fmt.Errorf("flattened %q differs from its child", flat.Name)
			}
			if c.Range.StartLine < it.Range.StartLine || c.Range.EndLine > it.Range.EndLine {
				return fmt.Errorf("child %q lines are outside %q", c.Name, it.Name)
			}
		}
		i += len(it.Children)
	}
	for _, d := range doc.Diagnostics {
		if d.Source != doc.ID {
			return fmt.Errorf("diagnostic %q has source %q, want %q", d.Message, d.Source, doc.ID)
		}
	}
	return nil
}
