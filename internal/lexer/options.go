package lexer

import (
	"luedit/internal/diag"
	"luedit/internal/source"
)

// Reporter — тонкий интерфейс для лексических ошибок.
// Лексер **только вызывает** его; в диагностики их превращает парсер.
type Reporter interface {
	Report(code diag.Code, span source.Span, msg string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(code diag.Code, span source.Span, msg string)

func (f ReporterFunc) Report(code diag.Code, span source.Span, msg string) {
	f(code, span, msg)
}

type Options struct {
	Reporter Reporter // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, sp, msg)
	}
}
