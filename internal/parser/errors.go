package parser

import (
	"luedit/internal/diag"
	"luedit/internal/source"
	"luedit/internal/token"
)

func (p *Parser) lexError(code diag.Code, sp source.Span, msg string) {
	rng := source.Range{Start: p.file.PositionAt(sp.Start), End: p.file.PositionAt(sp.End)}
	p.errorRange(code, rng, msg)
}

func (p *Parser) errorAt(code diag.Code, tok token.Token, msg string) {
	p.errorRange(code, source.LineRange(tok.Line, len(tok.Text)), msg)
}

func (p *Parser) errorRange(code diag.Code, rng source.Range, msg string) {
	p.emit(SeverityError, code, &rng, msg)
}

func (p *Parser) warn(code diag.Code, rng source.Range, msg string) {
	p.emit(SeverityWarn, code, &rng, msg)
}

func (p *Parser) info(code diag.Code, rng source.Range, msg string) {
	p.emit(SeverityInformation, code, &rng, msg)
}

func (p *Parser) emit(sev string, code diag.Code, rng *source.Range, msg string) {
	if p.opts.Enough() {
		if !p.truncated {
			p.truncated = true
			p.res.Errors = append(p.res.Errors, Error{
				Message:  "too many errors, stopping",
				Severity: SeverityError,
				Code:     diag.SynTooManyErrors,
			})
		}
		return
	}
	p.opts.CurrentErrors++
	p.res.Errors = append(p.res.Errors, Error{
		Message:  msg,
		Severity: sev,
		Range:    rng,
		Code:     code,
	})
}
