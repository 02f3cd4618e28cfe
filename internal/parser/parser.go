package parser

import (
	"fmt"

	"luedit/internal/diag"
	"luedit/internal/lexer"
	"luedit/internal/source"
	"luedit/internal/token"
)

// Parser — состояние парсера на один документ
type Parser struct {
	lx        *lexer.Lexer
	file      *source.File
	opts      Options
	res       *Resource
	truncated bool

	cur       *Section    // открытая секция верхнего уровня
	curHead   token.Token // её заголовок
	curLast   token.Token // последняя непустая строка
	child     *Section
	childHead token.Token
	childLast token.Token
}

// Parse разбирает документ целиком. Никогда не паникует на плохом вводе:
// все проблемы попадают в Resource.Errors.
func Parse(content string, opts Options) *Resource {
	path := opts.Path
	if path == "" {
		path = "<memory>"
	}
	file := source.NewFile(path, []byte(content), source.FileVirtual)
	p := &Parser{
		file: file,
		opts: opts,
		res:  &Resource{Content: content, File: file},
	}
	p.lx = lexer.New(file, lexer.Options{Reporter: lexer.ReporterFunc(p.lexError)})
	p.parseLines()
	p.checkStructure()
	return p.res
}

func (p *Parser) parseLines() {
	for {
		tok := p.lx.Next()
		switch tok.Kind {
		case token.EOF:
			p.closeSection()
			return
		case token.Heading:
			p.parseHeading(tok)
		case token.Blank:
			// пустые строки не двигают конец секции
		case token.Directive:
			if p.cur == nil {
				p.addModelInfo(tok)
				continue
			}
			p.bodyLine(tok)
		case token.Comment:
			if p.cur != nil {
				p.bodyLine(tok)
			}
		case token.Utterance, token.EntityDef, token.Text:
			if p.cur == nil {
				p.errorAt(diag.SynContentOutsideSection, tok, "content outside of any section; add a '# Name' heading above it")
				continue
			}
			p.bodyLine(tok)
		}
	}
}

func (p *Parser) parseHeading(tok token.Token) {
	switch {
	case tok.Level == 1:
		p.closeSection()
		p.openSection(tok)
	case tok.Level == 2:
		if p.cur == nil {
			p.errorAt(diag.SynOrphanChild, tok, fmt.Sprintf("child section %q has no parent '# ' section", tok.Value))
			return
		}
		p.closeChild()
		p.openChild(tok)
	default:
		if p.cur == nil {
			p.errorAt(diag.SynContentOutsideSection, tok, "content outside of any section")
			return
		}
		p.bodyLine(tok)
	}
}

func (p *Parser) openSection(tok token.Token) {
	if tok.Value == "" {
		p.errorAt(diag.SynInvalidHeading, tok, "section heading has no name")
	}
	p.cur = &Section{
		ID:        fmt.Sprintf("section-%d", len(p.res.Sections)),
		Kind:      SimpleIntent,
		Name:      tok.Value,
		Level:     1,
		StartLine: tok.Line,
	}
	p.curHead, p.curLast = tok, tok
}

func (p *Parser) openChild(tok token.Token) {
	if tok.Value == "" {
		p.errorAt(diag.SynInvalidHeading, tok, "child section heading has no name")
	}
	if p.cur.Kind == SimpleIntent && len(p.cur.Utterances)+len(p.cur.Entities) > 0 {
		p.errorRange(diag.SynTextBeforeChild, source.LineRange(p.curHead.Line, len(p.curHead.Text)),
			fmt.Sprintf("section %q mixes its own body with child sections", p.cur.Name))
	}
	p.cur.Kind = NestedIntentGroup
	p.child = &Section{
		ID:        fmt.Sprintf("%s-%d", p.cur.ID, len(p.cur.Children)),
		Kind:      SimpleIntent,
		Name:      tok.Value,
		Level:     2,
		StartLine: tok.Line,
	}
	p.childHead, p.childLast = tok, tok
	p.curLast = tok
}

func (p *Parser) bodyLine(tok token.Token) {
	p.curLast = tok
	target := p.cur
	if p.child != nil {
		p.childLast = tok
		target = p.child
	}

	switch tok.Kind {
	case token.Utterance:
		target.Utterances = append(target.Utterances, tok.Value)
	case token.EntityDef:
		name, ok := entityName(tok.Value)
		if !ok {
			p.errorAt(diag.SynInvalidEntity, tok, "invalid entity definition; expected '@ <type> <name>'")
			break
		}
		target.Entities = append(target.Entities, name)
	case token.Heading:
		p.errorAt(diag.SynInvalidBodyLine, tok, fmt.Sprintf("heading level %d is not supported here", tok.Level))
	case token.Text:
		p.errorAt(diag.SynInvalidBodyLine, tok, "invalid line in intent body; did you miss '-' before the utterance?")
	}
}

func (p *Parser) closeChild() {
	if p.child == nil {
		return
	}
	p.finish(p.child, p.childHead, p.childLast)
	p.cur.Children = append(p.cur.Children, p.child)
	p.child = nil
}

func (p *Parser) closeSection() {
	if p.cur == nil {
		return
	}
	p.closeChild()
	p.finish(p.cur, p.curHead, p.curLast)
	p.res.Sections = append(p.res.Sections, p.cur)
	p.cur = nil
}

// finish fills the span, end line and raw body of a section.
func (p *Parser) finish(s *Section, head, last token.Token) {
	s.EndLine = last.Line
	s.Span = source.Span{File: p.file.ID, Start: head.Span.Start, End: last.Next}
	if last.Line > head.Line {
		s.Body = string(p.file.Content[head.Next:last.Span.End])
	}
}

func (p *Parser) addModelInfo(tok token.Token) {
	name, value, _ := token.ParseDirective(tok.Text)
	if name == "enableSections" && value == "true" {
		p.res.SectionsEnabled = true
	}
	p.res.Sections = append(p.res.Sections, &Section{
		ID:        fmt.Sprintf("section-%d", len(p.res.Sections)),
		Kind:      ModelInfo,
		Name:      name,
		Body:      tok.Text,
		StartLine: tok.Line,
		EndLine:   tok.Line,
		Span:      tok.FullSpan(),
	})
}
