package lexer

import (
	"strings"

	"luedit/internal/diag"
	"luedit/internal/source"
	"luedit/internal/token"
)

func (lx *Lexer) classify(tok *token.Token) {
	indent := leadingSpace(tok.Text)
	rest := tok.Text[indent:]

	switch {
	case strings.TrimSpace(rest) == "":
		tok.Kind = token.Blank

	case rest[0] == '#':
		level := 0
		for level < len(rest) && rest[level] == '#' {
			level++
		}
		tok.Kind = token.Heading
		tok.Level = level
		tok.Value = strings.TrimSpace(rest[level:])

	case rest[0] == '>':
		tok.Kind = token.Comment
		if _, _, ok := token.ParseDirective(rest); ok {
			tok.Kind = token.Directive
		}
		tok.Value = strings.TrimSpace(rest[1:])

	case isListMarker(rest):
		tok.Kind = token.Utterance
		tok.Value = strings.TrimSpace(rest[1:])
		lx.checkBraces(tok, indent+1)

	case rest[0] == '@':
		tok.Kind = token.EntityDef
		tok.Value = strings.TrimSpace(rest[1:])

	default:
		tok.Kind = token.Text
		tok.Value = strings.TrimSpace(rest)
	}
}

// checkBraces reports unbalanced '{' '}' pairs in utterance text.
// A backslash escapes the next byte.
func (lx *Lexer) checkBraces(tok *token.Token, from int) {
	depth := 0
	open := -1
	text := tok.Text
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '{':
			if depth == 0 {
				open = i
			}
			depth++
		case '}':
			if depth == 0 {
				lx.report(diag.SynUnbalancedBraces, lx.subSpan(tok, i, i+1), "unexpected '}' in utterance")
				return
			}
			depth--
		}
	}
	if depth > 0 {
		lx.report(diag.SynUnbalancedBraces, lx.subSpan(tok, open, len(text)), "unclosed '{' in utterance")
	}
}

func (lx *Lexer) subSpan(tok *token.Token, from, to int) source.Span {
	return source.Span{
		File:  tok.Span.File,
		Start: tok.Span.Start + uint32(from),
		End:   tok.Span.Start + uint32(to),
	}
}

func leadingSpace(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func isListMarker(s string) bool {
	return s != "" && (s[0] == '-' || s[0] == '*' || s[0] == '+')
}
