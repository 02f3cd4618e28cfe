package lexer

import (
	"luedit/internal/source"
	"luedit/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	line   int
	look   *token.Token // 1 элементный буфер для токена
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает токен следующей строки. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off},
			Next: lx.cursor.Off,
			Line: lx.line + 1,
		}
	}

	lx.line++
	m := lx.cursor.Mark()
	end := lx.cursor.SkipLine()
	tok := token.Token{
		Span: lx.cursor.SpanTo(m, end),
		Next: lx.cursor.Off,
		Line: lx.line,
		Text: string(lx.file.Content[m:end]),
	}
	lx.classify(&tok)
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All lexes the whole file. The trailing EOF token is included.
func All(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.LineIdx)+2)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}
