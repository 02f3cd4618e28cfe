package source

import "fmt"

// Position is a line/character pair attached to sections and diagnostics.
// Line is 1-based when known, Character is a 0-based byte column.
// The zero Position means "no location" and is what consumers get when a
// producer had nothing better to report.
type Position struct {
	Line      int `json:"line" yaml:"line"`
	Character int `json:"character" yaml:"character"`
}

// Range is a half-open Start..End pair of positions.
type Range struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

// IsZero reports whether r carries no location information.
func (r Range) IsZero() bool {
	return r == Range{}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// LineRange builds a range spanning the whole of one 1-based line of length n.
func LineRange(line, n int) Range {
	return Range{
		Start: Position{Line: line, Character: 0},
		End:   Position{Line: line, Character: n},
	}
}
