package token

import (
	"luedit/internal/source"
)

// Token represents a single source line with its location.
type Token struct {
	Kind  Kind
	Span  source.Span
	Next  uint32 // смещение после перевода строки
	Line  int    // 1-based
	Level int    // число '#' для Heading
	Text  string
	Value string
}

// IsHeading reports whether the token opens a section of the given level.
// Level 0 matches any heading.
func (t Token) IsHeading(level int) bool {
	return t.Kind == Heading && (level == 0 || t.Level == level)
}

// IsBodyLine reports whether the token may appear inside an intent body.
func (t Token) IsBodyLine() bool {
	switch t.Kind {
	case Blank, Utterance, Comment, Directive, EntityDef:
		return true
	default:
		return false
	}
}

// IsTrivia reports whether the token carries no intent content.
func (t Token) IsTrivia() bool {
	return t.Kind == Blank || t.Kind == Comment
}

// FullSpan covers the line including its terminator.
func (t Token) FullSpan() source.Span {
	return source.Span{File: t.Span.File, Start: t.Span.Start, End: t.Next}
}
