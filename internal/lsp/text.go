package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// applyChanges applies incremental or full-text changes in order.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := offsetForPosition(text, change.Range.Start)
		end := max(offsetForPosition(text, change.Range.End), start)
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// offsetForPosition maps a zero-based UTF-16 position to a byte offset,
// clamping to the line and the text.
func offsetForPosition(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	i := 0
	for line := 0; line < pos.Line; line++ {
		nl := strings.IndexByte(text[i:], '\n')
		if nl < 0 {
			return len(text)
		}
		i += nl + 1
	}
	units := 0
	for i < len(text) && text[i] != '\n' && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[i:])
		units += utf16.RuneLen(r)
		if units > pos.Character {
			break
		}
		i += size
	}
	if i > 0 && i < len(text) && text[i] == '\n' && text[i-1] == '\r' {
		// за концом строки: не разрываем "\r\n"
		return i - 1
	}
	return i
}

// lineText returns the zero-based line without its terminator.
func lineText(text string, line int) string {
	for ; line > 0; line-- {
		nl := strings.IndexByte(text, '\n')
		if nl < 0 {
			return ""
		}
		text = text[nl+1:]
	}
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[:nl]
	}
	return strings.TrimSuffix(text, "\r")
}

// utf16Col converts a byte column within line to UTF-16 code units.
func utf16Col(line string, col int) int {
	col = min(max(col, 0), len(line))
	units := 0
	for _, r := range line[:col] {
		units += utf16.RuneLen(r)
	}
	return units
}

// endPosition is the position right after the last character of text.
func endPosition(text string) position {
	line := strings.Count(text, "\n")
	last := text[strings.LastIndexByte(text, '\n')+1:]
	return position{Line: line, Character: utf16Col(last, len(last))}
}
