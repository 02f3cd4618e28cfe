package diagfmt

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"luedit/internal/diag"
	"luedit/internal/source"
)

type palette struct {
	sev    map[diag.Severity]*color.Color
	gutter *color.Color
	path   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgBlue, color.Bold),
			diag.SevHint:    color.New(color.FgCyan),
		},
		gutter: color.New(color.FgBlue),
		path:   color.New(color.Bold),
	}
	for _, c := range append([]*color.Color{p.gutter, p.path}, p.sevColors()...) {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) sevColors() []*color.Color {
	out := make([]*color.Color, 0, len(p.sev))
	for _, c := range p.sev {
		out = append(out, c)
	}
	return out
}

func (p palette) severity(s diag.Severity) *color.Color {
	if c, ok := p.sev[s]; ok {
		return c
	}
	return p.sev[diag.SevError]
}

// Pretty печатает диагностики файла в человекочитаемом виде:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	   3 | oops
//	     | ^~~~
//
// Диагностики без позиции печатаются только заголовком. Колонки 1-based.
func Pretty(w io.Writer, file *source.File, diags []diag.Diagnostic, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	path := file.FormatPath(opts.PathMode.String(), opts.BaseDir)

	sorted := append([]diag.Diagnostic(nil), diags...)
	sort.SliceStable(sorted, func(i, j int) bool { return diag.Less(sorted[i], sorted[j]) })

	var sb strings.Builder
	for _, d := range sorted {
		start := d.Range.Start
		if d.Range.IsZero() {
			sb.WriteString(pal.path.Sprint(path))
		} else {
			sb.WriteString(pal.path.Sprintf("%s:%d:%d", path, start.Line, start.Character+1))
		}
		sb.WriteString(": ")
		sb.WriteString(pal.severity(d.Severity).Sprint(d.Severity.String()))
		fmt.Fprintf(&sb, " %s: %s\n", d.Code.ID(), d.Message)
		if !d.Range.IsZero() {
			writeSnippet(&sb, file, d.Range, opts, pal)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeSnippet(sb *strings.Builder, file *source.File, rng source.Range, opts PrettyOpts, pal palette) {
	line := rng.Start.Line
	total := file.LineCount()
	if line < 1 || line > total {
		return
	}
	first := max(1, line-opts.Context)
	last := min(total, line+opts.Context)
	digits := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		text := file.GetLine(uint32(n)) //nolint:gosec // n is within LineCount
		if opts.Width > 0 {
			text = runewidth.Truncate(text, opts.Width, "…")
		}
		fmt.Fprintf(sb, "%s %s\n", pal.gutter.Sprintf("%*d |", digits, n), text)
		if n == line {
			pad, marks := caret(text, rng)
			fmt.Fprintf(sb, "%s %s%s\n", pal.gutter.Sprintf("%*s |", digits, ""), pad, marks)
		}
	}
}

// caret returns the indentation and the ^~~ marker for rng on text.
// Tabs in the indentation are kept so the marker lines up in terminals.
func caret(text string, rng source.Range) (pad, marks string) {
	start := min(max(rng.Start.Character, 0), len(text))
	end := len(text)
	if rng.End.Line == rng.Start.Line && rng.End.Character > start {
		end = min(rng.End.Character, len(text))
	}

	var b strings.Builder
	for _, r := range text[:start] {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := runewidth.StringWidth(text[start:end])
	if width <= 1 {
		return b.String(), "^"
	}
	return b.String(), "^" + strings.Repeat("~", width-1)
}
