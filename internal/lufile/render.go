package lufile

import (
	"strings"
	"unicode"

	"luedit/internal/section"
	"luedit/internal/token"
)

// NewLine is the line separator used for all constructed text.
const NewLine = section.NewLine

// RenderIntent renders intent as a section at the given heading level.
// Nothing is rendered for an empty intent or one without a name or body.
// Composite names render their child part.
func RenderIntent(intent *IntentSection, level int, enableSections bool) string {
	if intent.IsEmpty() {
		return ""
	}
	name := displayName(intent.Name)

	var parts []string
	if name != "" && intent.Body != "" {
		parts = append(parts,
			strings.Repeat("#", level)+" "+strings.TrimSpace(name),
			EscapeBody(intent.Body, level),
		)
	}
	text := strings.Join(parts, NewLine)
	if enableSections {
		text = token.EnableSectionsDirective + NewLine + text
	}
	return text
}

// RenderIntents renders every intent at level and separates them with a
// blank line.
func RenderIntents(intents []IntentSection, level int) string {
	out := make([]string, len(intents))
	for i := range intents {
		out[i] = RenderIntent(&intents[i], level, false)
	}
	return strings.Join(out, NewLine+NewLine)
}

// EscapeBody rewrites body lines that would read as a heading of exactly
// this level ("# x" at level 1) into utterances ("- \# x").
// Headings of other depths are left alone.
func EscapeBody(body string, level int) string {
	lines := splitLines(body)
	for i, line := range lines {
		lines[i] = escapeLine(line, level)
	}
	return strings.Join(lines, NewLine)
}

func escapeLine(line string, level int) string {
	indent := len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
	hashes := 0
	for indent+hashes < len(line) && line[indent+hashes] == '#' {
		hashes++
	}
	if hashes != level || indent+hashes == len(line) {
		return line
	}
	return line[:indent] + `- \` + line[indent:]
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
